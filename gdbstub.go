package gdbstub

import (
	"context"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/console-emu/gdbstub/logflags"
)

// Server is a GDB Remote Serial Protocol server bound to one emulated
// console instance. One Server serves one debug session at a time, matching
// the original's single global connection: a second client that connects
// while another is attached is not accepted until the current session ends,
// and then gets a fresh session loop over its own socket.
type Server struct {
	cfg      ServerConfig
	kernel   Kernel
	mem      Memory
	debugger Debugger

	wireLog     *logrus.Entry
	dispatchLog *logrus.Entry
	ctrlLog     *logrus.Entry

	listener net.Listener

	stateMu         sync.Mutex
	serverDie       bool
	currentThread   int32
	inferiorThread  int32
	threadInfoIndex int
	lastReply       []byte
	stats           Stats
	breakpoints     map[uint32]breakpointInfo
}

// New constructs a Server around the emulator's thread table, guest memory,
// and breakpoint installer. cfg is defaulted and validated before use.
func New(cfg ServerConfig, kernel Kernel, mem Memory, debugger Debugger) (*Server, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Server{
		cfg:      cfg,
		kernel:   kernel,
		mem:      mem,
		debugger: debugger,

		wireLog:     logflags.WireLogger(),
		dispatchLog: logflags.DispatchLogger(),
		ctrlLog:     logflags.ControllerLogger(),

		currentThread:  invalidThreadID,
		inferiorThread: 0,
		breakpoints:    make(map[uint32]breakpointInfo),
	}, nil
}

// Start binds the configured listen address and runs the accept loop until
// ctx is canceled or Stop is called. It blocks for the lifetime of the
// server, matching the original's single-threaded accept-serve-accept loop,
// except that here each accepted connection is served on its own session
// loop so a reconnect after "k" doesn't require restarting the process.
func (s *Server) Start(ctx context.Context) error {
	s.stateMu.Lock()
	if s.listener != nil {
		s.stateMu.Unlock()
		return &ErrAlreadyListening{}
	}
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		s.stateMu.Unlock()
		return err
	}
	s.listener = ln
	s.stateMu.Unlock()

	s.dispatchLog.Infof("listening on %s", s.cfg.ListenAddr)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		s.clearDying()
		sess := newSession(s, conn)
		sess.run(ctx)

		if ctx.Err() != nil {
			return nil
		}
	}
}

// Addr returns the address the server is currently bound to, or nil if
// Start hasn't successfully bound a listener yet. Mainly useful in tests
// that bind to ":0" and need the ephemeral port that was actually chosen.
func (s *Server) Addr() net.Addr {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop sets server_die and closes the listen socket, unblocking Start's
// Accept loop. An active session loop, or a continue-all that is polling
// for a break, sees server_die and returns.
func (s *Server) Stop() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.serverDie = true
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	s.listener = nil
	return err
}

func (s *Server) getCurrentThread() int32 {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.currentThread
}

func (s *Server) setCurrentThread(tid int32) {
	s.stateMu.Lock()
	s.currentThread = tid
	s.stateMu.Unlock()
}

func (s *Server) getInferiorThread() int32 {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.inferiorThread
}

func (s *Server) setInferiorThread(tid int32) {
	s.stateMu.Lock()
	s.inferiorThread = tid
	s.stateMu.Unlock()
}

func (s *Server) setThreadInfoIndex(idx int) {
	s.stateMu.Lock()
	s.threadInfoIndex = idx
	s.stateMu.Unlock()
}

// advanceThreadInfoIndex moves the pagination cursor one entry forward and
// returns its new value, implementing qsThreadInfo's "one tid per call"
// contract. qfThreadInfo answers index 0 and leaves the cursor there, so
// the first qsThreadInfo must pre-increment to land on index 1.
func (s *Server) advanceThreadInfoIndex() int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.threadInfoIndex++
	return s.threadInfoIndex
}

func (s *Server) isDying() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.serverDie
}

func (s *Server) setDying() {
	s.stateMu.Lock()
	s.serverDie = true
	s.stateMu.Unlock()
}

// clearDying resets the kill flag when a fresh connection is accepted, so a
// prior session's "k" doesn't prevent the next client from attaching.
func (s *Server) clearDying() {
	s.stateMu.Lock()
	s.serverDie = false
	s.stateMu.Unlock()
}

func (s *Server) getLastReply() []byte {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.lastReply
}

func (s *Server) setLastReply(reply []byte) {
	s.stateMu.Lock()
	s.lastReply = reply
	s.stateMu.Unlock()
}

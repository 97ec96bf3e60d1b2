package gdbstub

import (
	"fmt"
	"strings"
)

// invalidThreadID is the sentinel value of current_thread before any "Hg"
// selection has been made.
const invalidThreadID int32 = -1

const supportedFeatures = "multiprocess-;swbreak+;hwbreak-;qRelocInsn-;fork-events-;vfork-events-;" +
	"exec-events-;vContSupported+;QThreadEvents-;no-resumed-;xmlRegisters=arm"

const continueSupported = "vCont;c;C;s;S;t;r"

func cmdSupported(s *Server, content string) string { return supportedFeatures }

func cmdReplyEmpty(s *Server, content string) string { return replyEmptyBody }

func cmdReason(s *Server, content string) string { return "S05" }

func cmdAttached(s *Server, content string) string { return "1" }

func cmdThreadStatus(s *Server, content string) string { return "T0" }

func cmdVKill(s *Server, content string) string { return replyOK }

func cmdContinueSupported(s *Server, content string) string { return continueSupported }

// cmdDeprecated handles the pre-vCont b/B/c/C/s/S packets: logged and
// ignored, since all continue/step control now goes through vCont.
func cmdDeprecated(s *Server, content string) string {
	s.dispatchLog.Infof("deprecated packet: %s", content)
	return replyEmptyBody
}

// cmdKill implements "k": the only command that sets server_die. No reply
// is sent for it (see session.go), matching the original's behavior of
// skipping server_reply once server_die becomes true.
func cmdKill(s *Server, content string) string {
	s.dispatchLog.Info("GDB Server: kill requested, shutting down")
	s.setDying()
	return replyEmptyBody
}

// resolve implements the tid==0 "pick the first thread" convention used by
// "Hg0" and similar. Must be called with the kernel locked.
func (s *Server) resolve(tid int32) int32 {
	if tid != 0 {
		return tid
	}
	threads := s.kernel.Threads()
	if len(threads) == 0 {
		return invalidThreadID
	}
	return threads[0].ID()
}

// cmdSetCurrentThread implements "Hg<tid>" and "Hc<tid>". Only "Hg" has an
// observable effect; "Hc" (deprecated continue-thread selection) is
// accepted and logged but does not change any state.
func cmdSetCurrentThread(s *Server, content string) string {
	if len(content) < 2 {
		return replyEmptyBody
	}
	op := content[1]
	tid := int32(parseHex(content[2:]))

	switch op {
	case 'g':
		s.kernel.Lock()
		resolved := s.resolve(tid)
		s.kernel.Unlock()
		s.setCurrentThread(resolved)
	case 'c':
		s.dispatchLog.Info("deprecated continue-thread selection (Hc)")
	default:
		s.dispatchLog.Warnf("unknown set-current-thread op %q", op)
	}
	return replyOK
}

// cmdGetCurrentThread implements "qC".
func cmdGetCurrentThread(s *Server, content string) string {
	return "QC" + toHex8(uint32(s.getCurrentThread()))
}

// cmdThreadAlive implements "T<tid>".
func cmdThreadAlive(s *Server, content string) string {
	tid := int32(parseHex(content[1:]))

	s.kernel.Lock()
	_, ok := s.kernel.Thread(tid)
	s.kernel.Unlock()

	if ok {
		return replyOK
	}
	return replyThreadError
}

// cmdGetFirstThread implements "qfThreadInfo": reset the pagination cursor
// and return the first live thread id. An empty thread table replies "l"
// (no threads) rather than indexing a nonexistent entry.
func cmdGetFirstThread(s *Server, content string) string {
	s.kernel.Lock()
	threads := s.kernel.Threads()
	s.kernel.Unlock()

	s.setThreadInfoIndex(0)
	if len(threads) == 0 {
		return "l"
	}
	return "m" + toHex8(uint32(threads[0].ID()))
}

// cmdGetNextThread implements "qsThreadInfo": advance the pagination
// cursor and return the next tid, or "l" once exhausted.
func cmdGetNextThread(s *Server, content string) string {
	s.kernel.Lock()
	threads := s.kernel.Threads()
	s.kernel.Unlock()

	idx := s.advanceThreadInfoIndex()
	if idx >= len(threads) {
		return "l"
	}
	return "m" + toHex8(uint32(threads[idx].ID()))
}

// cmdQRcmd implements "qRcmd,<hex-encoded-command>": GDB's "monitor"
// command channel. Unrecognized monitor commands reply empty, the same
// convention as an unrecognized packet.
func cmdQRcmd(s *Server, content string) string {
	body := strings.TrimPrefix(content, "qRcmd")
	body = strings.TrimPrefix(body, ",")
	cmdBytes := decodeHexBytes(body)
	cmdText := strings.TrimSpace(string(cmdBytes))

	out, ok := s.runMonitorCommand(cmdText)
	if !ok {
		return replyEmptyBody
	}
	return hexEncodeString(out)
}

func hexEncodeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		sb.WriteString(hex2(s[i]))
	}
	return sb.String()
}

// runMonitorCommand implements the small extension command table reachable
// via GDB's "monitor" front-end. It is deliberately tiny: these are
// operator conveniences layered on top of the state this core already
// tracks, not a general scripting surface.
func (s *Server) runMonitorCommand(cmd string) (string, bool) {
	switch cmd {
	case "version":
		return "gdbstub (console-emu)\n", true
	case "threads":
		return s.monitorThreads(), true
	case "regs":
		return s.monitorRegs(), true
	default:
		return "", false
	}
}

func (s *Server) monitorThreads() string {
	s.kernel.Lock()
	threads := s.kernel.Threads()
	s.kernel.Unlock()

	var sb strings.Builder
	for _, th := range threads {
		fmt.Fprintf(&sb, "thread 0x%08x: %s\n", uint32(th.ID()), th.Status())
	}
	if sb.Len() == 0 {
		sb.WriteString("no threads\n")
	}
	return sb.String()
}

func (s *Server) monitorRegs() string {
	var sb strings.Builder
	ok := s.withCurrentThreadCPU(func(cpu CPU) {
		for i := 0; i <= 15; i++ {
			fmt.Fprintf(&sb, "r%d: 0x%08x\n", i, s.fetchReg(cpu, i))
		}
		fmt.Fprintf(&sb, "cpsr: 0x%08x\n", s.fetchReg(cpu, 25))
	})
	if !ok {
		sb.WriteString("no current thread\n")
	}

	s.stateMu.Lock()
	for addr, bp := range s.breakpoints {
		fmt.Fprintf(&sb, "breakpoint 0x%08x thumb=%v\n", addr, bp.Thumb)
	}
	st := s.stats
	fmt.Fprintf(&sb, "packets=%d checksum_failures=%d continues=%d steps=%d\n",
		st.PacketsReceived, st.ChecksumFailures, st.ContinuesRun, st.StepsRun)
	s.stateMu.Unlock()

	return sb.String()
}

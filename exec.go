package gdbstub

import (
	"strings"
	"time"
)

// cmdContinue implements "vCont;action[:tid][;action...]". Only the first
// action is honored and trailing ones are ignored. If the first action's
// letter is not c, C, s, or S it is logged and the reply is empty.
func cmdContinue(s *Server, content string) string {
	body := strings.TrimPrefix(content, "vCont")
	body = strings.TrimPrefix(body, ";")

	action, _, _ := strings.Cut(body, ";")
	if action == "" {
		return replyEmptyBody
	}
	letter := action[0]
	switch letter {
	case 's', 'S':
		return s.step()
	case 'c', 'C':
		return s.continueAll()
	default:
		s.ctrlLog.Infof("unsupported vCont action %q", letter)
	}
	return replyEmptyBody
}

// step resumes the inferior thread (the thread that last hit a breakpoint)
// with single-step enabled and blocks until it reports suspend again.
func (s *Server) step() string {
	inferior := s.getInferiorThread()
	if inferior != 0 {
		s.kernel.Lock()
		th, ok := s.kernel.Thread(inferior)
		s.kernel.Unlock()

		if ok {
			th.Resume(true)
			th.Wait(func(st ThreadStatus) bool { return st == ThreadSuspend })
		}
	}

	s.setCurrentThread(inferior)
	s.incSteps()
	return "S05"
}

// continueAll implements the three-phase stop-the-world protocol: resume
// every suspended thread, poll until one of them hits a breakpoint, then
// suspend every running thread before replying. The kernel lock is never
// held across a per-thread blocking wait, since resume/suspend block on a
// condition variable owned by the individual thread, not the kernel.
func (s *Server) continueAll() string {
	s.resumeTheWorld()

	inferior, died := s.waitForBreak()
	if died {
		return replyEmptyBody
	}
	s.setInferiorThread(inferior)

	s.stopTheWorld()

	s.setCurrentThread(inferior)
	s.incContinues()
	return "S05"
}

// resumeTheWorld is phase 1: every currently suspended thread is resumed
// and the controller waits for each to leave suspend before moving to the
// next, one thread at a time.
func (s *Server) resumeTheWorld() {
	s.kernel.Lock()
	threads := s.kernel.Threads()
	for _, th := range threads {
		if th.Status() != ThreadSuspend {
			continue
		}
		s.kernel.Unlock()
		th.Resume(false)
		th.Wait(func(st ThreadStatus) bool { return st != ThreadSuspend })
		s.kernel.Lock()
	}
	s.kernel.Unlock()
}

// waitForBreak is phase 2: poll every poll interval for a suspended thread
// whose CPU reports it is sitting on a breakpoint. Returns died=true if
// server_die was observed first, in which case no stop packet should be
// sent at all.
func (s *Server) waitForBreak() (tid int32, died bool) {
	for {
		if s.isDying() {
			return 0, true
		}

		s.kernel.Lock()
		threads := s.kernel.Threads()
		var broke Thread
		for _, th := range threads {
			if th.Status() == ThreadSuspend && th.CPU().HitBreakpoint() {
				broke = th
				break
			}
		}
		s.kernel.Unlock()

		if broke != nil {
			s.ctrlLog.Infof("breakpoint trigger (thread_id: 0x%08x)", uint32(broke.ID()))
			return broke.ID(), false
		}

		time.Sleep(s.cfg.BreakPollInterval)
	}
}

// stopTheWorld is phase 3: every thread still running is asked to suspend
// and the controller waits for each to settle into suspend or dormant.
func (s *Server) stopTheWorld() {
	s.kernel.Lock()
	threads := s.kernel.Threads()
	for _, th := range threads {
		if th.Status() != ThreadRun {
			continue
		}
		s.kernel.Unlock()
		th.Suspend()
		th.Wait(func(st ThreadStatus) bool { return st == ThreadSuspend || st == ThreadDormant })
		s.kernel.Lock()
	}
	s.kernel.Unlock()
}

package gdbstub

import "testing"

// TestBreakpointInstall checks that a valid Z-packet install forwards to the debugger with the right thumb flag.
func TestBreakpointInstall(t *testing.T) {
	s, _, _, dbg := newTestServer()

	if got := s.dispatch([]byte("Z0,00010000,4")); got != replyOK {
		t.Fatalf("Z0,00010000,4 = %q, want OK", got)
	}
	if !dbg.installed[0x00010000] {
		t.Fatalf("debugger never saw AddBreakpoint at 0x00010000")
	}
	if dbg.thumb[0x00010000] {
		t.Fatalf("kind=4 should be ARM (thumb=false), debugger recorded thumb=true")
	}

	snap := s.Stats()
	if snap.BreakpointsLive != 1 {
		t.Fatalf("Stats().BreakpointsLive = %d, want 1", snap.BreakpointsLive)
	}
}

func TestBreakpointInstallThumb(t *testing.T) {
	s, _, _, dbg := newTestServer()

	if got := s.dispatch([]byte("Z0,00010000,2")); got != replyOK {
		t.Fatalf("Z0,00010000,2 = %q, want OK", got)
	}
	if !dbg.thumb[0x00010000] {
		t.Fatalf("kind=2 should install a thumb breakpoint")
	}
}

func TestBreakpointInstallInvalidAddress(t *testing.T) {
	s, _, mem, dbg := newTestServer()
	mem.size = 0

	if got := s.dispatch([]byte("Z0,00010000,4")); got != replyAddressError {
		t.Fatalf("Z at an invalid address = %q, want %q", got, replyAddressError)
	}
	if dbg.installed[0x00010000] {
		t.Fatalf("debugger should not have been asked to install at an invalid address")
	}
}

func TestBreakpointRemove(t *testing.T) {
	s, _, _, dbg := newTestServer()

	s.dispatch([]byte("Z0,00010000,4"))
	if got := s.dispatch([]byte("z0,00010000,4")); got != replyOK {
		t.Fatalf("z0,00010000,4 = %q, want OK", got)
	}
	if dbg.installed[0x00010000] {
		t.Fatalf("debugger still reports the breakpoint installed after removal")
	}
	if snap := s.Stats(); snap.BreakpointsLive != 0 {
		t.Fatalf("Stats().BreakpointsLive = %d, want 0 after removal", snap.BreakpointsLive)
	}
}

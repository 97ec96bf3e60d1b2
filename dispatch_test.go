package gdbstub

import "testing"

// TestDispatchSpecificity checks that longer, more specific prefixes win
// over shorter ones that would otherwise shadow them.
func TestDispatchSpecificity(t *testing.T) {
	s, _, _, _ := newTestServer()

	if got := s.dispatch([]byte("vCont?")); got != continueSupported {
		t.Errorf("vCont? dispatched to %q, want capabilities reply %q", got, continueSupported)
	}

	// "vCont;c" must route to the continue handler, not the "vCont?"
	// capabilities handler. Force the server into shutdown first so the
	// continue handler's died-check short-circuits immediately instead of
	// blocking on a poll loop that never sees a breakpoint hit; an empty
	// reply (rather than the vCont? capabilities string) proves it landed
	// in cmdContinue.
	s.setDying()
	if got := s.dispatch([]byte("vCont;c")); got == continueSupported {
		t.Errorf("vCont;c was routed to the vCont? handler")
	}

	if got := s.dispatch([]byte("qfThreadInfo")); got == replyEmptyBody {
		t.Errorf("qfThreadInfo fell through to the generic q handler")
	}
	if got := s.dispatch([]byte("qsThreadInfo")); got == replyEmptyBody {
		t.Errorf("qsThreadInfo fell through to the generic q handler")
	}
	if got := s.dispatch([]byte("qUnknownThing")); got != replyEmptyBody {
		t.Errorf("qUnknownThing = %q, want empty reply", got)
	}
}

func TestDispatchUnknownCommandIsEmpty(t *testing.T) {
	s, _, _, _ := newTestServer()
	if got := s.dispatch([]byte("zzzNotARealCommand")); got != replyEmptyBody {
		t.Errorf("unknown command got %q, want empty reply", got)
	}
}

func TestDispatchFixedReplies(t *testing.T) {
	s, _, _, _ := newTestServer()

	cases := map[string]string{
		"qSupported":      supportedFeatures,
		"qAttached":       "1",
		"qTStatus":        "T0",
		"?":               "S05",
		"vMustReplyEmpty": replyEmptyBody,
	}
	for cmd, want := range cases {
		if got := s.dispatch([]byte(cmd)); got != want {
			t.Errorf("dispatch(%q) = %q, want %q", cmd, got, want)
		}
	}
}

func TestDispatchDeprecatedPacketsReplyEmpty(t *testing.T) {
	s, _, _, _ := newTestServer()
	for _, cmd := range []string{"b", "B", "c", "C", "s", "S"} {
		if got := s.dispatch([]byte(cmd)); got != replyEmptyBody {
			t.Errorf("deprecated packet %q = %q, want empty", cmd, got)
		}
	}
}

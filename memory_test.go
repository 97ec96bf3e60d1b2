package gdbstub

import "testing"

func TestMemoryReadWriteRoundTrip(t *testing.T) {
	s, _, _, _ := newTestServer()

	if got := s.dispatch([]byte("M100,4:deadbeef")); got != replyOK {
		t.Fatalf("M write = %q, want OK", got)
	}
	if got := s.dispatch([]byte("m100,4")); got != "deadbeef" {
		t.Fatalf("m read = %q, want deadbeef", got)
	}
}

// TestMemoryReadInvalidRange checks that an unmapped range replies EAA.
func TestMemoryReadInvalidRange(t *testing.T) {
	s, _, mem, _ := newTestServer()
	mem.size = 0 // nothing is valid

	if got := s.dispatch([]byte("m0,4")); got != replyAddressError {
		t.Fatalf("m0,4 on an empty address space = %q, want %q", got, replyAddressError)
	}
}

func TestMemoryWriteInvalidRange(t *testing.T) {
	s, _, mem, _ := newTestServer()
	mem.size = 0

	if got := s.dispatch([]byte("M0,4:deadbeef")); got != replyAddressError {
		t.Fatalf("M0,4:.. on an empty address space = %q, want %q", got, replyAddressError)
	}
}

func TestWriteBinaryIsDisabled(t *testing.T) {
	s, _, _, _ := newTestServer()
	if got := s.dispatch([]byte("X100,4:junk")); got != replyEmptyBody {
		t.Errorf("X (binary write) = %q, want empty (binary writes are deliberately disabled)", got)
	}
}

package renderer

import "testing"

func TestSessionStartsLive(t *testing.T) {
	s := NewRenderSession()
	if s.Halted() {
		t.Fatal("new session must not be halted")
	}
	if s.HaltReason() != "" {
		t.Fatalf("live session has halt reason %q", s.HaltReason())
	}
}

func TestHaltFirstReasonWins(t *testing.T) {
	s := NewRenderSession()
	s.Halt("device lost")
	s.Halt("surface error")

	if !s.Halted() {
		t.Fatal("session must be halted after Halt")
	}
	if got := s.HaltReason(); got != "device lost" {
		t.Fatalf("halt reason = %q, want the first one", got)
	}
}

func TestSessionIDsAreDistinct(t *testing.T) {
	if NewRenderSession().ID() == NewRenderSession().ID() {
		t.Fatal("two sessions share an ID")
	}
}

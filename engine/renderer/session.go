package renderer

import (
	"github.com/google/uuid"

	"github.com/strata-gfx/strata-go/engine/core"
)

// RenderSession carries the fail-stop state of one rendering session. A fatal
// GPU error halts the session permanently: the frame pipeline checks Halted
// before doing any work and refuses to proceed once the latch is set. There
// is no reset; a halted session lasts until the renderer is torn down.
type RenderSession struct {
	id     uuid.UUID
	halted bool
	reason string
}

// NewRenderSession creates a live session with a fresh identifier.
func NewRenderSession() *RenderSession {
	return &RenderSession{id: uuid.New()}
}

// ID returns the session identifier, used to correlate log lines.
func (s *RenderSession) ID() uuid.UUID { return s.id }

// Halt trips the session latch. The first call wins; later calls are ignored
// so the original failure reason is preserved.
func (s *RenderSession) Halt(reason string) {
	if s.halted {
		return
	}
	s.halted = true
	s.reason = reason
	core.LogError("render session %s halted: %s", s.id, reason)
}

// Halted reports whether the session latch has been tripped.
func (s *RenderSession) Halted() bool { return s.halted }

// HaltReason returns the reason recorded by the first Halt call, or "" while
// the session is live.
func (s *RenderSession) HaltReason() string { return s.reason }

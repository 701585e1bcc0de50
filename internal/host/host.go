// Package host defines the boundary between the coordination layer and the
// hosting simulation engine. The engine implements these interfaces; the
// coordination components never reach past them.
package host

import (
	"github.com/google/uuid"

	"github.com/pixil98/go-frontline/internal/state"
)

// Pawn is a snapshot of one locally simulated, session-bearing entity, taken
// for the periodic cross-node visibility report.
type Pawn struct {
	UUID        uuid.UUID
	Name        string
	Description string
	Position    state.Vec3
	Facing      state.Facing

	// UserID is -1 when no user owns the pawn.
	UserID       int64
	Human        bool
	FactionIndex int
}

// PawnSource yields the current pawn snapshots. Called on the report tick.
type PawnSource interface {
	Pawns() []Pawn
}

// Host is what the coordination layer may ask the engine to do with a
// session's connection.
type Host interface {
	// Kick disconnects a session with a user-visible reason.
	Kick(sessionID, reason string)
	// Detach removes the session from its current simulated body without
	// disconnecting it.
	Detach(sessionID string)
	// Reconnect instructs the session's client to reconnect to target.
	Reconnect(sessionID, target string)
}

// NopHost ignores every instruction. Used in tests and headless tools.
type NopHost struct{}

func (NopHost) Kick(string, string)      {}
func (NopHost) Detach(string)            {}
func (NopHost) Reconnect(string, string) {}

// NoPawns is a PawnSource with nothing to report.
type NoPawns struct{}

func (NoPawns) Pawns() []Pawn { return nil }

// Package events provides the node's typed in-process event bus. It replaces
// ad-hoc callback wiring between components: publishers fire a signal,
// interested components (scoreboard, objective visuals, bot logic, the host
// glue) subscribe with closures.
package events

import "github.com/pixil98/go-frontline/internal/state"

// ObjectiveTaken is published after an objective's ownership changed in the
// world state, whether the capture was decided locally or reported by the
// manager.
type ObjectiveTaken struct {
	Objective state.Objective
	Faction   state.Faction
}

// UserJoined is published when a session's identity has been adopted from a
// manager join response. SessionID is the host's session handle.
type UserJoined struct {
	SessionID string
	UserID    int64
}

// UserJoinFailed is published when a manager join round trip failed.
type UserJoinFailed struct {
	SessionID string
}

// UserDefeatedUser is published when one user defeats another on this node.
type UserDefeatedUser struct {
	UserID         int64
	DefeatedUserID int64
}

// ActiveAreasChanged is published when the manager reassigns the set of areas
// this node simulates.
type ActiveAreasChanged struct {
	AreaIndexes []int
}

// Bus groups the node's signals. One instance per node process.
type Bus struct {
	ObjectiveTaken     Signal[ObjectiveTaken]
	UserJoined         Signal[UserJoined]
	UserJoinFailed     Signal[UserJoinFailed]
	UserDefeatedUser   Signal[UserDefeatedUser]
	ActiveAreasChanged Signal[ActiveAreasChanged]
}

func NewBus() *Bus {
	return &Bus{}
}

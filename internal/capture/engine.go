// Package capture decides and applies objective ownership changes. Local
// captures are checked against the takeability rule and submitted to the
// manager; the applied change comes back on the event stream. Remote captures
// are applied as-is, the manager already arbitrated them.
package capture

import (
	"log/slog"
	"sync"

	"github.com/pixil98/go-frontline/internal/events"
	"github.com/pixil98/go-frontline/internal/state"
)

// Submitter reports locally decided captures upstream. Satisfied by the
// manager sync client.
type Submitter interface {
	Connected() bool
	SendObjectiveTaken(objectiveID, factionID int64) error
}

type Engine struct {
	world *state.World
	bus   *events.Bus

	mu        sync.Mutex
	submitter Submitter
}

func NewEngine(world *state.World, bus *events.Bus) *Engine {
	return &Engine{
		world: world,
		bus:   bus,
	}
}

// SetSubmitter wires the upstream report path. Until one is set every capture
// is applied directly.
func (e *Engine) SetSubmitter(s Submitter) {
	e.mu.Lock()
	e.submitter = s
	e.mu.Unlock()
}

func (e *Engine) currentSubmitter() Submitter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitter
}

// Eligible reports whether the faction may take the objective right now.
func (e *Engine) Eligible(objectiveIndex, factionIndex int) bool {
	return e.world.IsObjectiveTakeable(objectiveIndex, factionIndex)
}

// Take attempts a locally triggered capture. When the manager is reachable
// and the objective has a global ID the capture is submitted and applied only
// once it echoes back on the event stream; otherwise it is applied directly.
// Returns false when the rule rejected the capture.
func (e *Engine) Take(objectiveIndex, factionIndex int) bool {
	if !e.world.IsObjectiveTakeable(objectiveIndex, factionIndex) {
		return false
	}

	obj := e.world.FindObjectiveByIndex(objectiveIndex)
	fac := e.world.FindFactionByIndex(factionIndex)
	if obj == nil || fac == nil {
		return false
	}

	if sub := e.currentSubmitter(); sub != nil && sub.Connected() && obj.ID > 0 {
		if err := sub.SendObjectiveTaken(obj.ID, fac.ID); err != nil {
			slog.Warn("submitting capture", "objective", obj.Name, "error", err)
		}
		return true
	}

	e.apply(obj.Index, fac)
	return true
}

// ApplyRemote applies a capture reported by the manager. No eligibility check
// and no re-publish: the manager's arbitration is final.
func (e *Engine) ApplyRemote(objectiveID, factionID int64) {
	obj := e.world.FindObjectiveByID(objectiveID)
	if obj == nil {
		slog.Warn("capture for unknown objective", "objectiveId", objectiveID)
		return
	}
	fac := e.world.FindFactionByID(factionID)
	if fac == nil {
		slog.Warn("capture by unknown faction", "factionId", factionID)
		return
	}
	e.apply(obj.Index, fac)
}

func (e *Engine) apply(objectiveIndex int, fac *state.Faction) {
	updated := e.world.SetObjectiveOwner(objectiveIndex, fac)
	if updated == nil {
		return
	}
	e.bus.ObjectiveTaken.Publish(events.ObjectiveTaken{
		Objective: *updated,
		Faction:   *fac,
	})
}

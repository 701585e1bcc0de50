package session

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/pixil98/go-frontline/internal/events"
	"github.com/pixil98/go-frontline/internal/host"
	"github.com/pixil98/go-frontline/internal/manager"
	"github.com/pixil98/go-frontline/internal/state"
)

// ManagerJoiner is the join round trip. Satisfied by the manager REST client.
type ManagerJoiner interface {
	UserJoin(ctx context.Context, userID, factionID int64, human bool, token string) (*manager.JoinResult, error)
}

// Coordinator runs joins for connecting clients: it asks the manager who the
// user is, adopts the answer onto the session, and stages any travel resume
// transform for the host to consume at spawn time.
type Coordinator struct {
	world    *state.World
	registry *Registry
	bus      *events.Bus
	host     host.Host

	joiner      ManagerJoiner
	development bool
}

type CoordinatorOpt func(*Coordinator)

// WithJoiner wires the manager join path. Without one the node runs detached
// and every session plays anonymously.
func WithJoiner(j ManagerJoiner) CoordinatorOpt {
	return func(c *Coordinator) {
		c.joiner = j
	}
}

// WithDevelopmentMode keeps sessions attached after a failed join instead of
// kicking them.
func WithDevelopmentMode(dev bool) CoordinatorOpt {
	return func(c *Coordinator) {
		c.development = dev
	}
}

func NewCoordinator(world *state.World, registry *Registry, bus *events.Bus, h host.Host, opts ...CoordinatorOpt) *Coordinator {
	c := &Coordinator{
		world:    world,
		registry: registry,
		bus:      bus,
		host:     h,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Join registers a session and runs the manager join round trip. A client
// that carries no faction yet is dealt onto a random one. Failures kick human
// sessions unless the node runs in development mode; bot sessions stay
// registered so they can try the join again.
func (c *Coordinator) Join(ctx context.Context, handle string, userID, factionID int64, human bool, token string) {
	sess := c.registry.Create(handle, human)
	sess.Token = token

	if factionID <= 0 {
		if fac := c.randomFaction(); fac != nil {
			factionID = fac.ID
			sess.FactionIndex = fac.Index
		}
	} else if fac := c.world.FindFactionByID(factionID); fac != nil {
		sess.FactionIndex = fac.Index
	}

	if c.joiner == nil {
		c.bus.UserJoined.Publish(events.UserJoined{SessionID: handle, UserID: -1})
		return
	}

	res, err := c.joiner.UserJoin(ctx, userID, factionID, human, token)
	if err != nil {
		slog.WarnContext(ctx, "user join failed", "session", handle, "error", err)
		c.bus.UserJoinFailed.Publish(events.UserJoinFailed{SessionID: handle})
		// Only humans hold a live connection to sever. Bots keep their
		// session so a later re-join call can still succeed.
		if human && !c.development {
			c.host.Kick(handle, "join rejected")
			c.registry.Remove(handle)
		}
		return
	}

	sess.UserID = res.UserID
	sess.Name = res.Name
	sess.Token = res.Token
	if fac := c.world.FindFactionByID(res.FactionID); fac != nil {
		sess.FactionIndex = fac.Index
	}
	sess.PendingResume = res.Resume

	c.bus.UserJoined.Publish(events.UserJoined{SessionID: handle, UserID: res.UserID})
}

func (c *Coordinator) randomFaction() *state.Faction {
	factions := c.world.Factions()
	if len(factions) == 0 {
		return nil
	}
	return &factions[rand.IntN(len(factions))]
}

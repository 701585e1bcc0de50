// Package transition hands sessions over to the node responsible for an area
// they walked into.
package transition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-frontline/internal/host"
	"github.com/pixil98/go-frontline/internal/manager"
	"github.com/pixil98/go-frontline/internal/session"
	"github.com/pixil98/go-frontline/internal/state"
)

// ManagerNavigator is the navigate round trip. Satisfied by the manager REST
// client.
type ManagerNavigator interface {
	UserNavigate(ctx context.Context, userID, destinationAreaID int64, at state.Transform) (*manager.NavigateResult, error)
}

type Coordinator struct {
	world    *state.World
	registry *session.Registry
	host     host.Host

	navigator ManagerNavigator
}

func NewCoordinator(world *state.World, registry *session.Registry, h host.Host, navigator ManagerNavigator) *Coordinator {
	return &Coordinator{
		world:     world,
		registry:  registry,
		host:      h,
		navigator: navigator,
	}
}

// SessionEnteredArea is called by the host when a session's pawn crosses into
// an area. If another node simulates that area the session is asked where to
// go and reconnected there; on any failure the session stays put and keeps
// playing here.
func (c *Coordinator) SessionEnteredArea(ctx context.Context, handle string, areaIndex int, at state.Transform) {
	if c.world.IsAreaActive(areaIndex) {
		return
	}

	area := c.world.FindAreaByIndex(areaIndex)
	if area == nil {
		slog.WarnContext(ctx, "session entered unknown area", "session", handle, "areaIndex", areaIndex)
		return
	}
	if area.ID <= 0 {
		slog.WarnContext(ctx, "area has no global id yet, not transferring", "area", area.Name)
		return
	}

	sess := c.registry.Find(handle)
	if sess == nil || sess.UserID < 0 {
		slog.WarnContext(ctx, "session has no user identity, not transferring", "session", handle)
		return
	}

	if c.navigator == nil {
		return
	}

	res, err := c.navigator.UserNavigate(ctx, sess.UserID, area.ID, at)
	if err != nil {
		slog.WarnContext(ctx, "navigate failed, session stays", "session", handle, "error", err)
		return
	}

	target := c.reconnectTarget(res, sess)
	slog.InfoContext(ctx, "transferring session",
		"session", handle, "area", area.Name, "destinationServer", res.DestinationServerID)

	c.host.Detach(handle)
	c.host.Reconnect(handle, target)
	c.registry.Remove(handle)
}

// reconnectTarget builds the travel URL handed to the client. Each option is
// appended only when its value is known.
func (c *Coordinator) reconnectTarget(res *manager.NavigateResult, sess *session.Session) string {
	target := fmt.Sprintf("%s:%d", res.Addr, res.Port)
	if res.WebSocketURL != "" {
		target += "?WebSocketURL=" + res.WebSocketURL
	}
	target += fmt.Sprintf("?UserID=%d", sess.UserID)
	if fac := c.world.FindFactionByIndex(sess.FactionIndex); fac != nil {
		target += fmt.Sprintf("?FactionID=%d", fac.ID)
	}
	if sess.Token != "" {
		target += "?Token=" + sess.Token
	}
	return target
}

package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/pixil98/go-frontline/internal/events"
	"github.com/pixil98/go-frontline/internal/manager"
	"github.com/pixil98/go-frontline/internal/state"
	"github.com/pixil98/go-testutil"
)

type fakeJoiner struct {
	res *manager.JoinResult
	err error

	gotUserID    int64
	gotFactionID int64
	gotHuman     bool
	gotToken     string
}

func (j *fakeJoiner) UserJoin(ctx context.Context, userID, factionID int64, human bool, token string) (*manager.JoinResult, error) {
	j.gotUserID = userID
	j.gotFactionID = factionID
	j.gotHuman = human
	j.gotToken = token
	if j.err != nil {
		return nil, j.err
	}
	return j.res, nil
}

type recordingHost struct {
	kicked    []string
	detached  []string
	reconnect map[string]string
}

func newRecordingHost() *recordingHost {
	return &recordingHost{reconnect: map[string]string{}}
}

func (h *recordingHost) Kick(sessionID, reason string)   { h.kicked = append(h.kicked, sessionID) }
func (h *recordingHost) Detach(sessionID string)         { h.detached = append(h.detached, sessionID) }
func (h *recordingHost) Reconnect(sessionID, target string) {
	h.reconnect[sessionID] = target
}

func joinWorld() *state.World {
	w := state.NewWorld(7, 3)
	w.SetFactions(state.DefaultFactions())
	return w
}

func TestJoinAdoptsIdentity(t *testing.T) {
	w := joinWorld()
	reg := NewRegistry()
	bus := events.NewBus()
	h := newRecordingHost()

	resume := &state.Transform{Position: state.Vec3{X: 40}}
	joiner := &fakeJoiner{res: &manager.JoinResult{
		UserID: 55, FactionID: 2, Name: "Scout", Token: "tok2", Resume: resume,
	}}

	var joined []events.UserJoined
	bus.UserJoined.Subscribe(func(ev events.UserJoined) { joined = append(joined, ev) })

	c := NewCoordinator(w, reg, bus, h, WithJoiner(joiner))
	c.Join(context.Background(), "sess-1", 55, 2, true, "tok")

	testutil.AssertEqual(t, "sent user", joiner.gotUserID, int64(55))
	testutil.AssertEqual(t, "sent faction", joiner.gotFactionID, int64(2))
	testutil.AssertEqual(t, "sent human", joiner.gotHuman, true)
	testutil.AssertEqual(t, "sent token", joiner.gotToken, "tok")

	sess := reg.Find("sess-1")
	if sess == nil {
		t.Fatal("expected session")
	}
	testutil.AssertEqual(t, "user id", sess.UserID, int64(55))
	testutil.AssertEqual(t, "name", sess.Name, "Scout")
	testutil.AssertEqual(t, "faction index", sess.FactionIndex, 1)
	testutil.AssertEqual(t, "token", sess.Token, "tok2")

	testutil.AssertEqual(t, "joined events", len(joined), 1)
	testutil.AssertEqual(t, "joined session", joined[0].SessionID, "sess-1")
	testutil.AssertEqual(t, "joined user", joined[0].UserID, int64(55))
	testutil.AssertEqual(t, "no kicks", len(h.kicked), 0)

	// The resume transform is staged and consumed exactly once.
	got := reg.TakePendingResume("sess-1")
	if got == nil || got.Position.X != 40 {
		t.Fatalf("resume = %v, want x=40", got)
	}
	if reg.TakePendingResume("sess-1") != nil {
		t.Error("resume consumed twice")
	}
}

func TestJoinFreshConnectGetsRandomFaction(t *testing.T) {
	w := joinWorld()
	reg := NewRegistry()
	joiner := &fakeJoiner{res: &manager.JoinResult{UserID: 56, FactionID: 1}}

	c := NewCoordinator(w, reg, events.NewBus(), newRecordingHost(), WithJoiner(joiner))
	c.Join(context.Background(), "sess-1", -1, -1, true, "")

	// A fresh connect carries no faction; the node deals one before joining.
	if joiner.gotFactionID <= 0 {
		t.Errorf("sent faction = %d, want a dealt faction id", joiner.gotFactionID)
	}
	if f := w.FindFactionByID(joiner.gotFactionID); f == nil {
		t.Errorf("dealt faction %d is not a known faction", joiner.gotFactionID)
	}
}

func TestJoinFailureKicks(t *testing.T) {
	w := joinWorld()
	reg := NewRegistry()
	bus := events.NewBus()
	h := newRecordingHost()
	joiner := &fakeJoiner{err: fmt.Errorf("boom")}

	var failed []events.UserJoinFailed
	bus.UserJoinFailed.Subscribe(func(ev events.UserJoinFailed) { failed = append(failed, ev) })

	c := NewCoordinator(w, reg, bus, h, WithJoiner(joiner))
	c.Join(context.Background(), "sess-1", 55, 2, true, "tok")

	testutil.AssertEqual(t, "failed events", len(failed), 1)
	testutil.AssertEqual(t, "kicked", len(h.kicked), 1)
	if reg.Find("sess-1") != nil {
		t.Error("session should be removed after kick")
	}
}

func TestJoinFailureKeepsBotSession(t *testing.T) {
	w := joinWorld()
	reg := NewRegistry()
	bus := events.NewBus()
	h := newRecordingHost()
	joiner := &fakeJoiner{err: fmt.Errorf("boom")}

	var failed []events.UserJoinFailed
	bus.UserJoinFailed.Subscribe(func(ev events.UserJoinFailed) { failed = append(failed, ev) })

	c := NewCoordinator(w, reg, bus, h, WithJoiner(joiner))
	c.Join(context.Background(), "bot-1", 90, 1, false, "tok")

	// A bot holds no connection to sever; its session stays so the next
	// join attempt can reuse it.
	testutil.AssertEqual(t, "failed events", len(failed), 1)
	testutil.AssertEqual(t, "no kicks", len(h.kicked), 0)
	sess := reg.Find("bot-1")
	if sess == nil {
		t.Fatal("bot session should survive a failed join")
	}
	testutil.AssertEqual(t, "anonymous user", sess.UserID, int64(-1))
}

func TestJoinFailureInDevelopmentKeepsSession(t *testing.T) {
	w := joinWorld()
	reg := NewRegistry()
	h := newRecordingHost()
	joiner := &fakeJoiner{err: fmt.Errorf("boom")}

	c := NewCoordinator(w, reg, events.NewBus(), h,
		WithJoiner(joiner), WithDevelopmentMode(true))
	c.Join(context.Background(), "sess-1", 55, 2, true, "tok")

	testutil.AssertEqual(t, "no kicks", len(h.kicked), 0)
	sess := reg.Find("sess-1")
	if sess == nil {
		t.Fatal("session should survive in development mode")
	}
	testutil.AssertEqual(t, "anonymous user", sess.UserID, int64(-1))
}

func TestJoinDetached(t *testing.T) {
	w := joinWorld()
	reg := NewRegistry()
	bus := events.NewBus()

	var joined []events.UserJoined
	bus.UserJoined.Subscribe(func(ev events.UserJoined) { joined = append(joined, ev) })

	c := NewCoordinator(w, reg, bus, newRecordingHost())
	c.Join(context.Background(), "sess-1", -1, -1, true, "")

	testutil.AssertEqual(t, "joined events", len(joined), 1)
	testutil.AssertEqual(t, "anonymous user", joined[0].UserID, int64(-1))

	sess := reg.Find("sess-1")
	if sess == nil {
		t.Fatal("expected session")
	}
	if sess.FactionIndex < 0 || sess.FactionIndex > 2 {
		t.Errorf("faction index = %d, want a dealt faction", sess.FactionIndex)
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()
	reg.Create("sess-1", true)
	reg.Remove("sess-1")
	if reg.Find("sess-1") != nil {
		t.Error("session should be gone")
	}
}

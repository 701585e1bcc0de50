package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pixil98/go-frontline/internal/events"
	"github.com/pixil98/go-frontline/internal/host"
	"github.com/pixil98/go-frontline/internal/messaging"
	"github.com/pixil98/go-frontline/internal/state"
)

// SyncState tracks how far the node has come in its handshake with the
// manager.
type SyncState int

const (
	StateDisconnected SyncState = iota
	StateConnecting
	StateSubscribed
	StateSyncingAreas
	StateSyncingObjectives
	StateReady
	StateShuttingDown
)

func (s SyncState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateSyncingAreas:
		return "syncing-areas"
	case StateSyncingObjectives:
		return "syncing-objectives"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting-down"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Applier is the remote-capture hook. The sync client hands it ownership
// changes reported by other nodes; it never re-publishes them.
type Applier interface {
	ApplyRemote(objectiveID, factionID int64)
}

// SyncClient keeps the node's world cache converged with the manager. It is a
// worker: the handshake runs once at startup, then a single dispatch loop
// serializes every cache mutation, whether it came from the event stream, a
// completed REST call, or a local capture.
type SyncClient struct {
	world   *state.World
	rest    *Client
	bus     *events.Bus
	applier Applier
	pawns   host.PawnSource
	extras  host.Extras

	dial func(onClosed func(reason string)) (messaging.Broker, error)

	development bool
	privateAddr string
	managerHost string

	mu           sync.Mutex
	st           SyncState
	broker       messaging.Broker
	managerHosts []string

	calls chan func()
	failc chan error
	done  chan struct{}
}

type SyncClientOpt func(*SyncClient)

// WithBrokerDialer sets the func used to open the broker connection. The
// onClosed callback must fire when the connection is lost for good, so the
// node's shutdown policy applies. Tests point this at an embedded server.
func WithBrokerDialer(dial func(onClosed func(reason string)) (messaging.Broker, error)) SyncClientOpt {
	return func(s *SyncClient) {
		s.dial = dial
	}
}

// WithPawnSource sets where the periodic pawn report is sampled from.
func WithPawnSource(src host.PawnSource) SyncClientOpt {
	return func(s *SyncClient) {
		s.pawns = src
	}
}

// WithExtras sets the host extension surface offered unrecognized events and
// the report pulse.
func WithExtras(e host.Extras) SyncClientOpt {
	return func(s *SyncClient) {
		s.extras = e
	}
}

// WithDevelopmentMode makes manager failures non-fatal: they are logged and
// the node keeps running on its local cache.
func WithDevelopmentMode(dev bool) SyncClientOpt {
	return func(s *SyncClient) {
		s.development = dev
	}
}

// WithPrivateAddr sets the address reported in the started event.
func WithPrivateAddr(addr string) SyncClientOpt {
	return func(s *SyncClient) {
		s.privateAddr = addr
	}
}

// WithManagerHost sets the manager host reported in the started event.
func WithManagerHost(h string) SyncClientOpt {
	return func(s *SyncClient) {
		s.managerHost = h
	}
}

func NewSyncClient(world *state.World, rest *Client, bus *events.Bus, applier Applier, opts ...SyncClientOpt) *SyncClient {
	s := &SyncClient{
		world:   world,
		rest:    rest,
		bus:     bus,
		applier: applier,
		pawns:   host.NoPawns{},
		extras:  host.NoopExtras{},
		st:      StateDisconnected,
		calls:   make(chan func(), 128),
		failc:   make(chan error, 1),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the current handshake state.
func (s *SyncClient) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

func (s *SyncClient) setState(st SyncState) {
	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
	slog.Debug("manager sync state", "state", st.String())
}

// Connected reports whether the broker connection is up.
func (s *SyncClient) Connected() bool {
	s.mu.Lock()
	b := s.broker
	s.mu.Unlock()
	return b != nil && b.Connected()
}

// ManagerHosts returns the failover list last reported by the manager.
func (s *SyncClient) ManagerHosts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.managerHosts...)
}

// Dispatch queues fn onto the sync loop. Every world cache mutation goes
// through here so they never interleave.
func (s *SyncClient) Dispatch(fn func()) {
	select {
	case s.calls <- fn:
	case <-s.done:
	}
}

// fail escalates a manager failure. In development it is logged and the node
// keeps running detached; otherwise it shuts the worker down. There are no
// retries at this layer.
func (s *SyncClient) fail(err error) {
	if s.development {
		slog.Warn("manager sync failure, continuing detached", "error", err)
		return
	}
	select {
	case s.failc <- err:
	default:
	}
}

// Start runs the handshake and then the dispatch loop until ctx is canceled.
func (s *SyncClient) Start(ctx context.Context) error {
	defer close(s.done)

	if s.dial == nil {
		s.setState(StateDisconnected)
		slog.InfoContext(ctx, "no manager configured, running detached")
		<-ctx.Done()
		s.setState(StateShuttingDown)
		return nil
	}

	s.setState(StateConnecting)
	broker, err := s.dial(func(reason string) {
		s.fail(fmt.Errorf("broker connection lost: %s", reason))
	})
	if err != nil {
		if !s.development {
			return fmt.Errorf("connecting to manager broker: %w", err)
		}
		slog.WarnContext(ctx, "manager broker unreachable, running detached", "error", err)
		s.setState(StateDisconnected)
		<-ctx.Done()
		s.setState(StateShuttingDown)
		return nil
	}
	s.mu.Lock()
	s.broker = broker
	s.mu.Unlock()
	defer broker.Close()

	// The subscription opens before any REST fetch so no event published
	// during the handshake is lost.
	unsubscribe, err := broker.Subscribe(SubjectEvents, func(data []byte) {
		s.Dispatch(func() { s.handleEvent(ctx, data) })
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", SubjectEvents, err)
	}
	defer unsubscribe()
	s.setState(StateSubscribed)

	stopDefeats := s.bus.UserDefeatedUser.Subscribe(func(ev events.UserDefeatedUser) {
		if err := s.SendUserDefeatedUser(ev.UserID, ev.DefeatedUserID); err != nil {
			slog.WarnContext(ctx, "sending defeat event", "error", err)
		}
	})
	defer stopDefeats()

	go s.bootstrap(ctx)

	for {
		select {
		case <-ctx.Done():
			s.setState(StateShuttingDown)
			return nil
		case err := <-s.failc:
			s.setState(StateShuttingDown)
			return err
		case fn := <-s.calls:
			fn()
		}
	}
}

// Tick queues a pawn report. The update pulse calls this; reports only go out
// once the handshake is done.
func (s *SyncClient) Tick(ctx context.Context) error {
	s.Dispatch(func() {
		if s.State() == StateReady {
			s.reportPawns(ctx)
		}
	})
	return nil
}

// bootstrap runs the startup handshake: fetch factions and servers, submit
// the discovered areas and objectives, announce the server. REST round trips
// run on this goroutine; cache mutations are dispatched onto the sync loop so
// events arriving mid-handshake interleave cleanly.
func (s *SyncClient) bootstrap(ctx context.Context) {
	factions, err := s.rest.Factions(ctx)
	if err != nil {
		s.fail(fmt.Errorf("fetching factions: %w", err))
		return
	}
	servers, err := s.rest.Servers(ctx)
	if err != nil {
		s.fail(fmt.Errorf("fetching servers: %w", err))
		return
	}
	s.Dispatch(func() {
		s.world.SetFactions(factions)
		s.world.SetServers(servers)
		for _, rec := range servers {
			if rec.ID == s.world.ServerID() {
				s.adoptSelfRecord(ctx, rec.RegionID, rec.AreaIndexes)
			}
		}
		s.setState(StateSyncingAreas)
	})

	areas, err := s.rest.SubmitAreas(ctx, s.world.Areas())
	if err != nil {
		s.fail(fmt.Errorf("submitting areas: %w", err))
		return
	}
	s.Dispatch(func() {
		s.world.SetAreas(areas)
		s.setState(StateSyncingObjectives)
	})

	var submit []state.Objective
	for _, o := range s.world.Objectives() {
		if o.AreaIndex == -1 {
			slog.WarnContext(ctx, "objective lies outside every area, not submitting",
				"objective", o.Name, "index", o.Index)
			continue
		}
		submit = append(submit, o)
	}
	objectives, err := s.rest.SubmitObjectives(ctx, submit)
	if err != nil {
		s.fail(fmt.Errorf("submitting objectives: %w", err))
		return
	}
	s.Dispatch(func() {
		s.world.SetObjectives(objectives)
		s.setState(StateReady)
		if err := s.sendServerStarted(); err != nil {
			s.fail(fmt.Errorf("announcing server: %w", err))
		}
	})
}

// adoptSelfRecord applies the manager's view of this server: which areas it
// simulates. A record for a different region is a misconfiguration and is
// ignored.
func (s *SyncClient) adoptSelfRecord(ctx context.Context, regionID int64, areaIndexes []int) {
	if regionID != s.world.RegionID() {
		slog.WarnContext(ctx, "manager assigned this server to another region, ignoring",
			"assignedRegion", regionID, "region", s.world.RegionID())
		return
	}
	s.world.SetActiveAreaIndexes(areaIndexes)
	s.bus.ActiveAreasChanged.Publish(events.ActiveAreasChanged{AreaIndexes: areaIndexes})
}

// handleEvent runs on the sync loop for every inbound broker message.
func (s *SyncClient) handleEvent(ctx context.Context, data []byte) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.WarnContext(ctx, "undecodable event", "error", err)
		return
	}

	switch env.EventType {
	case "ObjectiveTaken":
		var ev objectiveTakenEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.WarnContext(ctx, "undecodable objective taken event", "error", err)
			return
		}
		s.applier.ApplyRemote(ev.ObjectiveID, ev.FactionID)

	case "ServerUpdated":
		var ev serverUpdatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.WarnContext(ctx, "undecodable server updated event", "error", err)
			return
		}
		s.world.ApplyServerUpdate(state.Server{
			ID:          ev.ServerID,
			RegionID:    ev.RegionID,
			Enabled:     ev.Enabled,
			Active:      ev.Active,
			PrivateAddr: ev.PrivateIP,
			PublicAddr:  ev.PublicIP,
			PublicPort:  ev.PublicWebSocketPort,
			AreaIDs:     ev.AreaIDs,
			AreaIndexes: ev.AreaIndexes,
		})
		if ev.ServerID == s.world.ServerID() {
			s.adoptSelfRecord(ctx, ev.RegionID, ev.AreaIndexes)
		}

	case "WorldUpdated":
		var ev worldUpdatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.WarnContext(ctx, "undecodable world updated event", "error", err)
			return
		}
		s.mu.Lock()
		s.managerHosts = ev.World.ManagerHosts
		s.mu.Unlock()

	default:
		if !s.extras.HandleEvent(env.EventType, data) {
			slog.DebugContext(ctx, "unhandled event", "eventType", env.EventType)
		}
	}
}

func (s *SyncClient) publishJSON(subject string, v any) error {
	s.mu.Lock()
	b := s.broker
	s.mu.Unlock()
	if b == nil || !b.Connected() {
		return fmt.Errorf("publishing to %s: broker not connected", subject)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", subject, err)
	}
	if err := b.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}

// SendObjectiveTaken reports a locally decided capture. The ownership change
// is not applied here; it comes back on the event stream like any other
// node's capture would.
func (s *SyncClient) SendObjectiveTaken(objectiveID, factionID int64) error {
	return s.publishJSON(SubjectObjectiveTaken, objectiveTakenEvent{
		EventType:   "ObjectiveTaken",
		ObjectiveID: objectiveID,
		FactionID:   factionID,
	})
}

// SendUserDefeatedUser reports one user defeating another on this node.
func (s *SyncClient) SendUserDefeatedUser(userID, defeatedUserID int64) error {
	return s.publishJSON(SubjectUserDefeatedUser, userDefeatedUserEvent{
		EventType:      "ServerUserDefeatedUser",
		UserID:         userID,
		DefeatedUserID: defeatedUserID,
	})
}

func (s *SyncClient) sendServerStarted() error {
	return s.publishJSON(SubjectServerStarted, serverStartedEvent{
		EventType:   "ServerStarted",
		ServerID:    s.world.ServerID(),
		PrivateIP:   s.privateAddr,
		ManagerHost: s.managerHost,
	})
}

// reportPawns samples the host's pawns and publishes the periodic snapshot.
func (s *SyncClient) reportPawns(ctx context.Context) {
	pawns := s.pawns.Pawns()
	ev := serverPawnsEvent{
		EventType: "ServerPawns",
		ServerID:  s.world.ServerID(),
		Pawns:     make([]pawnReport, 0, len(pawns)),
	}
	for _, p := range pawns {
		r := pawnReport{
			UUID:        p.UUID.String(),
			Name:        p.Name,
			Description: p.Description,
			ServerID:    s.world.ServerID(),
			Index:       len(ev.Pawns),
			X:           wireX(p.Position.X),
			Y:           p.Position.Y,
			Z:           p.Position.Z,
			Yaw:         p.Facing.Yaw,
			Pitch:       p.Facing.Pitch,
			Human:       p.Human,
		}
		if p.UserID >= 0 {
			uid := p.UserID
			r.UserID = &uid
		}
		if fac := s.world.FindFactionByIndex(p.FactionIndex); fac != nil {
			fid := fac.ID
			r.FactionID = &fid
		}
		ev.Pawns = append(ev.Pawns, r)
	}

	if err := s.publishJSON(SubjectServerPawns, ev); err != nil {
		slog.WarnContext(ctx, "reporting pawns", "error", err)
	}
	s.extras.ReportTick()
}

package lobby

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"

	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

// Identity is fixed for the lifetime of a gate.
type Identity struct {
	// Lobby is the participant's full address in the lobby room.
	Lobby domain.Address

	// Main is the bare address of the room the lobby guards.
	Main domain.Address

	DisplayName string
}

type Option func(*Gate)

func WithLogger(l zerolog.Logger) Option {
	return func(g *Gate) { g.log = l }
}

// Gate runs one participant's wait in a lobby room. It is driven by the
// transport's listener callbacks and by the owner's Join and Leave calls,
// which may all arrive on different goroutines.
type Gate struct {
	id        Identity
	transport core.RoomTransport
	main      core.MainSessionController
	sink      core.NotificationSink
	log       zerolog.Logger

	mu       sync.Mutex
	state    State
	room     core.ChatRoom
	joined   bool
	held     []Event
	invSub   core.Subscription
	presSub  core.Subscription
	admitted bool
}

func New(
	id Identity,
	transport core.RoomTransport,
	main core.MainSessionController,
	sink core.NotificationSink,
	opts ...Option,
) *Gate {
	g := &Gate{
		id:        id,
		transport: transport,
		main:      main,
		sink:      sink,
		log: log.With().
			Str("module", "lobby").
			Str("lobby", string(id.Lobby)).
			Logger(),
	}
	if g.sink == nil {
		g.sink = nopSink{}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) LobbyAddress() domain.Address  { return g.id.Lobby }
func (g *Gate) MainAddress() domain.Address   { return g.id.Main }
func (g *Gate) DisplayName() string           { return g.id.DisplayName }
func (g *Gate) Transport() core.RoomTransport { return g.transport }

// ResourceIdentifier is the nick the gate joins the lobby with. Lobby
// rooms are shared by every participant, so the occupant address carries
// the participant in its resource and that is used when present. Only a
// bare lobby address falls back to its local part.
func (g *Gate) ResourceIdentifier() string {
	if r := g.id.Lobby.Resource(); r != "" {
		return r
	}
	return g.id.Lobby.Local()
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Join subscribes to the transport feeds and joins the lobby room. Transport
// failures come back as *JoinError; the listeners are released and the gate
// is terminated in that case.
//
// Events delivered before Join returns are held and replayed in order once
// the waiting cue has played, so a moderator acting on a fresh occupant is
// never lost and the cues reach the participant in order.
func (g *Gate) Join() error {
	g.mu.Lock()
	switch {
	case g.state.Terminal():
		g.mu.Unlock()
		return ErrClosed
	case g.state != StateNotJoined:
		g.mu.Unlock()
		return ErrAlreadyJoined
	}
	g.state = StateJoining
	g.mu.Unlock()

	inv := g.subscribe("invitation", func() (core.Subscription, error) {
		return g.transport.SubscribeInvitations(g.onInvitation)
	})
	pres := g.subscribe("presence", func() (core.Subscription, error) {
		return g.transport.SubscribePresence(g.onPresence)
	})

	g.mu.Lock()
	if g.state != StateJoining {
		g.mu.Unlock()
		g.releaseFeeds(inv, pres)
		return ErrClosed
	}
	g.invSub, g.presSub = inv, pres
	g.mu.Unlock()

	room, err := g.transport.FindRoom(g.id.Lobby.Bare())
	if err != nil {
		return g.abortJoin("find room", err)
	}
	g.setupRoom(room)

	g.mu.Lock()
	if g.state != StateJoining {
		g.mu.Unlock()
		return ErrClosed
	}
	g.room = room
	g.mu.Unlock()

	if err := g.transport.JoinAs(room, g.ResourceIdentifier()); err != nil {
		return g.abortJoin("join", err)
	}

	g.mu.Lock()
	if g.state != StateJoining {
		// Leave ran while the join was in flight and left the room to us.
		g.mu.Unlock()
		g.guard("leave", func() error { return g.transport.Leave(room) })
		return ErrClosed
	}
	g.joined = true
	g.mu.Unlock()

	g.log.Info().Str("nick", g.ResourceIdentifier()).Msg("waiting in lobby")
	g.notify("waiting for review", g.sink.WaitingForReview)

	g.mu.Lock()
	if g.state != StateJoining {
		g.mu.Unlock()
		return ErrClosed
	}
	g.state = StateWaiting
	held := g.held
	g.held = nil
	var p plan
	steps := make([]step, 0, len(held))
	for _, ev := range held {
		steps = append(steps, g.claim(ev, &p))
	}
	g.mu.Unlock()

	for _, st := range steps {
		g.logStep(st)
	}
	g.execute(p)
	return nil
}

// Leave releases the listeners and leaves the lobby room if the gate still
// holds it. It is safe to call any number of times, from any goroutine.
func (g *Gate) Leave() {
	g.mu.Lock()
	inv, pres := g.takeFeeds()
	var room core.ChatRoom
	if g.joined {
		room = g.room
	}
	g.room = nil
	g.joined = false
	g.held = nil
	if !g.state.Terminal() {
		g.state = StateLeft
	}
	g.mu.Unlock()

	g.releaseFeeds(inv, pres)
	if room == nil {
		g.log.Debug().Msg("no lobby room to leave")
		return
	}
	g.guard("leave", func() error { return g.transport.Leave(room) })
}

func (g *Gate) onInvitation(ev core.InvitationEvent) {
	g.handle(InvitationReceived(ev))
}

func (g *Gate) onPresence(ev core.PresenceEvent) {
	g.handle(PresenceChanged(ev))
}

type plan struct {
	effects []Effect
	room    core.ChatRoom
	inv     core.Subscription
	pres    core.Subscription
}

type step struct {
	ev   Event
	from State
	d    Decision
}

func (g *Gate) handle(ev Event) {
	g.mu.Lock()
	if g.state == StateJoining {
		g.held = append(g.held, ev)
		g.mu.Unlock()
		g.log.Debug().Str("event", eventName(ev)).Msg("held until joined")
		return
	}
	var p plan
	st := g.claim(ev, &p)
	g.mu.Unlock()

	g.logStep(st)
	g.execute(p)
}

// claim must be called with g.mu held. It moves the gate to the next state
// and appends the effects this caller now owns to p.
func (g *Gate) claim(ev Event, p *plan) step {
	matches := g.room != nil && ev.Room.EqualBare(g.room.Address())
	st := step{ev: ev, from: g.state}
	st.d = Transition(g.state, ev, matches, g.id.Main)
	g.state = st.d.Next

	for _, e := range st.d.Effects {
		switch e {
		case EffectAdmit:
			if g.admitted {
				continue
			}
			g.admitted = true
		case EffectLeaveRoom, EffectRelease:
			p.inv, p.pres = g.takeFeeds()
			if e == EffectLeaveRoom && g.joined {
				p.room = g.room
			}
			g.room = nil
			g.joined = false
		}
		p.effects = append(p.effects, e)
	}
	return st
}

func (g *Gate) logStep(st step) {
	lev := zerolog.InfoLevel
	switch {
	case st.d.Warn:
		lev = zerolog.WarnLevel
	case st.d.Ignored:
		lev = zerolog.DebugLevel
	}
	g.log.WithLevel(lev).
		Str("event", eventName(st.ev)).
		Str("from", st.from.String()).
		Str("to", st.d.Next.String()).
		Str("alternate", string(st.ev.Alternate)).
		Msg(st.d.Note)
}

func (g *Gate) execute(p plan) {
	for _, e := range p.effects {
		switch e {
		case EffectNotifyGranted:
			g.notify("access granted", g.sink.AccessGranted)
		case EffectNotifyDenied:
			g.notify("access denied", g.sink.AccessDenied)
		case EffectNotifyDestroyed:
			g.notify("room destroyed", g.sink.RoomDestroyed)
		case EffectAdmit:
			g.guard("admit", func() error {
				if g.main == nil {
					return errors.New("no main session controller")
				}
				return g.main.AdmitMainRoom()
			})
		case EffectLeaveRoom:
			g.releaseFeeds(p.inv, p.pres)
			if p.room != nil {
				g.guard("leave", func() error { return g.transport.Leave(p.room) })
			}
		case EffectRelease:
			g.releaseFeeds(p.inv, p.pres)
		}
	}
}

func (g *Gate) abortJoin(op string, err error) error {
	g.mu.Lock()
	inv, pres := g.takeFeeds()
	g.room = nil
	g.held = nil
	if !g.state.Terminal() {
		g.state = StateTerminated
	}
	g.mu.Unlock()

	g.releaseFeeds(inv, pres)
	g.log.Error().Err(err).Str("op", op).Msg("failed to join lobby")
	return &JoinError{Op: op, Lobby: g.id.Lobby, Err: err}
}

func (g *Gate) setupRoom(room core.ChatRoom) {
	dn, ok := room.(core.DisplayNamer)
	if !ok {
		return
	}
	if g.id.DisplayName == "" {
		g.log.Error().Msg("no display name to use")
		return
	}
	dn.SetDisplayName(g.id.DisplayName)
}

func (g *Gate) subscribe(feed string, fn func() (core.Subscription, error)) core.Subscription {
	sub, err := fn()
	if err != nil {
		g.log.Warn().Err(err).Str("feed", feed).Msg("listener registration failed")
		return nil
	}
	return sub
}

// takeFeeds must be called with g.mu held.
func (g *Gate) takeFeeds() (inv, pres core.Subscription) {
	inv, pres = g.invSub, g.presSub
	g.invSub, g.presSub = nil, nil
	return inv, pres
}

func (g *Gate) releaseFeeds(inv, pres core.Subscription) {
	if inv != nil {
		g.guard("unsubscribe invitation", inv.Unsubscribe)
	}
	if pres != nil {
		g.guard("unsubscribe presence", pres.Unsubscribe)
	}
}

func (g *Gate) notify(what string, fn func()) {
	g.guard("notify "+what, func() error {
		fn()
		return nil
	})
}

// guard runs one side effect. Errors and panics are logged and never reach
// the caller, so one failing collaborator cannot stop the next effect.
func (g *Gate) guard(op string, fn func() error) {
	var pc panics.Catcher
	var err error
	pc.Try(func() { err = fn() })
	if r := pc.Recovered(); r != nil {
		err = r.AsError()
	}
	if err != nil {
		g.log.Error().Err(err).Str("op", op).Msg("lobby side effect failed")
	}
}

func eventName(ev Event) string {
	if ev.Kind == EventInvitation {
		return "invitation"
	}
	return "presence_" + ev.Presence.String()
}

type nopSink struct{}

func (nopSink) WaitingForReview() {}
func (nopSink) AccessGranted()    {}
func (nopSink) AccessDenied()     {}
func (nopSink) RoomDestroyed()    {}

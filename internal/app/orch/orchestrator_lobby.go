package orch

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
	"github.com/dkeye/VoiceLobby/internal/lobby"
)

// NeedsLobby reports whether sid has to knock before entering the room.
func (o *Orchestrator) NeedsLobby(sid core.SessionID, id domain.RoomID) (bool, error) {
	room, ok := o.Rooms.GetRoom(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	if o.Policy == nil {
		return false, nil
	}
	user, _ := o.Registry.GetOrCreateUser(sid)
	return o.Policy.NeedsLobby(room, user.ID), nil
}

// Knock puts sid in the lobby of the room. admit is called once if a
// moderator lets the user in; notify receives the lobby outcome.
func (o *Orchestrator) Knock(
	sid core.SessionID,
	id domain.RoomID,
	admit core.MainSessionController,
	notify core.NotificationSink,
) (*lobby.Gate, error) {
	if o.Lobby == nil {
		return nil, ErrLobbyUnavailable
	}
	if _, ok := o.Rooms.GetRoom(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	user, ok := o.Registry.User(sid)
	if !ok {
		return nil, ErrNoSession
	}

	var g *lobby.Gate
	out := &knockOutcome{admit: admit, notify: notify, done: func() { o.Registry.DropGate(sid, g) }}
	if out.notify == nil {
		out.notify = silentSink{}
	}
	g = lobby.New(lobby.Identity{
		Lobby:       o.Addr.Occupant(id, user.ID),
		Main:        o.Addr.Main(id),
		DisplayName: user.Username,
	}, o.Lobby.Connect(user.ID), out, out,
		lobby.WithLogger(log.With().
			Str("module", "lobby").
			Str("sid", string(sid)).
			Str("room", string(id)).
			Logger()),
	)
	if !o.Registry.BindGate(sid, g) {
		return nil, ErrKnockPending
	}
	if err := g.Join(); err != nil {
		o.Registry.DropGate(sid, g)
		return nil, err
	}
	return g, nil
}

// CancelKnock leaves the lobby sid is waiting in, if any.
func (o *Orchestrator) CancelKnock(sid core.SessionID) bool {
	g := o.Registry.TakeGate(sid)
	if g == nil {
		return false
	}
	g.Leave()
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("lobby", string(g.LobbyAddress())).Msg("knock cancelled")
	return true
}

func (o *Orchestrator) LobbyOccupants(sid core.SessionID, id domain.RoomID) ([]core.LobbyOccupant, error) {
	if _, err := o.moderate(sid, id); err != nil {
		return nil, err
	}
	return o.Lobby.Occupants(o.Addr.Lobby(id)), nil
}

func (o *Orchestrator) AdmitFromLobby(sid core.SessionID, id domain.RoomID, user domain.UserID) error {
	if _, err := o.moderate(sid, id); err != nil {
		return err
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(id)).Str("user", string(user)).Msg("admit from lobby")
	return o.Lobby.Admit(o.Addr.Lobby(id), user, o.Addr.Main(id))
}

func (o *Orchestrator) DenyFromLobby(sid core.SessionID, id domain.RoomID, user domain.UserID) error {
	if _, err := o.moderate(sid, id); err != nil {
		return err
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(id)).Str("user", string(user)).Msg("deny from lobby")
	return o.Lobby.Deny(o.Addr.Lobby(id), user)
}

// ToggleLobby turns the lobby of a room on or off. Turning it off sends
// everyone waiting into the main room.
func (o *Orchestrator) ToggleLobby(sid core.SessionID, id domain.RoomID, enabled bool) error {
	room, err := o.moderate(sid, id)
	if err != nil {
		return err
	}
	room.SetLobby(enabled)
	lobbyAddr := o.Addr.Lobby(id)
	if !enabled {
		o.Lobby.Disable(lobbyAddr, o.Addr.Main(id))
	}
	o.Lobby.OpenRoom(lobbyAddr)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(id)).Bool("lobby", enabled).Msg("lobby toggled")
	return nil
}

// DestroyRoom is reserved to the owner.
func (o *Orchestrator) DestroyRoom(sid core.SessionID, id domain.RoomID) error {
	room, ok := o.Rooms.GetRoom(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	user, ok := o.Registry.User(sid)
	if !ok || room.Room().Owner != user.ID {
		return ErrNotOwner
	}
	o.EvictRoom(id, "room closed by owner")
	return nil
}

func (o *Orchestrator) moderate(sid core.SessionID, id domain.RoomID) (core.RoomService, error) {
	if o.Lobby == nil {
		return nil, ErrLobbyUnavailable
	}
	return o.requireMember(sid, id)
}

// knockOutcome unbinds the gate from the registry as soon as the wait is
// over, then passes the outcome on.
type knockOutcome struct {
	admit  core.MainSessionController
	notify core.NotificationSink
	done   func()
}

func (k *knockOutcome) AdmitMainRoom() error {
	k.done()
	if k.admit == nil {
		return ErrNoSession
	}
	return k.admit.AdmitMainRoom()
}

func (k *knockOutcome) WaitingForReview() { k.notify.WaitingForReview() }
func (k *knockOutcome) AccessGranted()    { k.notify.AccessGranted() }

func (k *knockOutcome) AccessDenied() {
	k.done()
	k.notify.AccessDenied()
}

func (k *knockOutcome) RoomDestroyed() {
	k.done()
	k.notify.RoomDestroyed()
}

type silentSink struct{}

func (silentSink) WaitingForReview() {}
func (silentSink) AccessGranted()    {}
func (silentSink) AccessDenied()     {}
func (silentSink) RoomDestroyed()    {}

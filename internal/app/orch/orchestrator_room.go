package orch

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

// CreateRoom creates a room owned by the user of sid and opens its lobby.
func (o *Orchestrator) CreateRoom(sid core.SessionID, name domain.RoomName, lobby bool) core.RoomService {
	user, _ := o.Registry.GetOrCreateUser(sid)
	room := o.Rooms.CreateRoom(name, user.ID, lobby)
	if o.Lobby != nil {
		o.Lobby.OpenRoom(o.Addr.Lobby(room.Room().ID))
	}
	return room
}

// Join puts sid straight into the main room, leaving any room or lobby it
// was in. Whether it may do so is decided by the caller.
func (o *Orchestrator) Join(sid core.SessionID, roomID domain.RoomID) error {
	room, ok := o.Rooms.GetRoom(roomID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	session, ok := o.Registry.GetSession(sid)
	if !ok {
		return ErrNoSession
	}
	if g := o.Registry.TakeGate(sid); g != nil {
		g.Leave()
	}
	if from, _, ok := o.Registry.RoomOf(sid); ok {
		if from == roomID {
			return nil
		}
		o.KickBySID(sid)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(from)).Msg("kicked from room")
	}
	room.AddMember(sid, session)
	o.Registry.UpdateRoom(sid, roomID)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("added to room")
	return nil
}

func (o *Orchestrator) KickBySID(sid core.SessionID) {
	o.cleanupMedia(sid)
	o.cleanupMembership(sid)
}

func (o *Orchestrator) cleanupMembership(sid core.SessionID) {
	roomID, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return
	}
	if room, ok := o.Rooms.GetRoom(roomID); ok {
		room.RemoveMember(sid)
	}
	o.Registry.RemoveRoom(sid)
}

// EvictRoom kicks every member, destroys the lobby with everyone still
// waiting in it and forgets the room.
func (o *Orchestrator) EvictRoom(id domain.RoomID, reason string) {
	for _, snap := range o.Registry.MembersOfRoom(id) {
		o.KickBySID(snap.SID)
	}
	if o.Lobby != nil {
		o.Lobby.Destroy(o.Addr.Lobby(id), reason)
	}
	o.Rooms.StopRoom(id)
}

func (o *Orchestrator) requireMember(sid core.SessionID, id domain.RoomID) (core.RoomService, error) {
	room, ok := o.Rooms.GetRoom(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	if !room.HasMember(sid) {
		return nil, ErrNotMember
	}
	return room, nil
}

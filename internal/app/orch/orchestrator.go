package orch

import (
	"errors"

	"github.com/dkeye/VoiceLobby/internal/app"
	"github.com/dkeye/VoiceLobby/internal/app/sfu"
	"github.com/dkeye/VoiceLobby/internal/core"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrNoSession        = errors.New("no session")
	ErrNotMember        = errors.New("not a member of the room")
	ErrNotOwner         = errors.New("not the room owner")
	ErrKnockPending     = errors.New("already waiting in a lobby")
	ErrLobbyUnavailable = errors.New("lobby service not configured")
)

// Orchestrator ties sessions, rooms, lobbies and media together. Adapters
// call into it; it never talks to a transport directly.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Policy   app.Policy
	Relays   *sfu.RelayManager
	Lobby    core.LobbyService
	Addr     app.Addressing
}

// OnFrame fans a frame out to the sender's room and applies the
// backpressure policy to members that could not keep up.
func (o *Orchestrator) OnFrame(sid core.SessionID, data core.Frame) {
	roomID, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return
	}
	room, ok := o.Rooms.GetRoom(roomID)
	if !ok {
		return
	}

	res := room.Broadcast(sid, data)
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			for _, snap := range o.Registry.MembersOfRoom(roomID) {
				if snap.Session == slow {
					o.KickBySID(snap.SID)
				}
			}
		case app.MarkSlow, app.DropFrame, app.NoAction:
		}
	}
}

// OnDisconnect releases everything a closed signalling session held.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.CancelKnock(sid)
	o.KickBySID(sid)
	o.Registry.Cancel(sid)
	o.Registry.Unbind(sid)
}

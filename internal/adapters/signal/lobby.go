package signal

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/adapters/muc"
	"github.com/dkeye/VoiceLobby/internal/app/orch"
	"github.com/dkeye/VoiceLobby/internal/app/sfu"
	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
	"github.com/dkeye/VoiceLobby/internal/lobby"
)

type lobbyFrame struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"room"`
}

// lobbyPeer is the waiting participant's end of a knock. Admission enters
// the main room on its connection; lobby outcomes become lobby_* frames the
// client turns into cues.
type lobbyPeer struct {
	ctl  *SignalWSController
	sid  core.SessionID
	room domain.RoomID
	conn core.SignalConnection
}

func (p *lobbyPeer) AdmitMainRoom() error {
	return p.ctl.enterRoom(p.sid, p.conn, p.room)
}

func (p *lobbyPeer) WaitingForReview() { p.send("lobby_waiting") }
func (p *lobbyPeer) AccessGranted()    { p.send("lobby_granted") }
func (p *lobbyPeer) AccessDenied()     { p.send("lobby_denied") }
func (p *lobbyPeer) RoomDestroyed()    { p.send("lobby_destroyed") }

func (p *lobbyPeer) send(kind string) {
	p.ctl.sendJSON(p.conn, lobbyFrame{Type: kind, Room: p.room})
}

func (ctl *SignalWSController) knock(sid core.SessionID, conn core.SignalConnection, roomID domain.RoomID) {
	user, _ := ctl.Orch.Registry.User(sid)
	if !ctl.knocks.Allow(user.ID) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("knock rate limited")
		ctl.sendError(conn, "knock_rate_limited")
		return
	}
	p := &lobbyPeer{ctl: ctl, sid: sid, room: roomID, conn: conn}
	g, err := ctl.Orch.Knock(sid, roomID, p, p)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room_id", string(roomID)).Msg("knock")
		ctl.sendError(conn, errorCode(err))
		return
	}
	if g.State() != lobby.StateWaiting {
		// Settled while joining the lobby; there is nothing left to moderate.
		return
	}
	ctl.BroadcastRoom(roomID, struct {
		Type string        `json:"type"`
		Room domain.RoomID `json:"room"`
		User domain.User   `json:"user"`
	}{"lobby_knock", roomID, user})
}

type moderationPayload struct {
	Type    string        `json:"type"`
	Room    domain.RoomID `json:"room"`
	User    domain.UserID `json:"user,omitempty"`
	Enabled bool          `json:"enabled,omitempty"`
}

func (ctl *SignalWSController) handleLobbyList(sid core.SessionID, conn core.SignalConnection, data []byte) {
	var p moderationPayload
	if !ctl.decode(conn, data, &p, "lobby_list") {
		return
	}
	occ, err := ctl.Orch.LobbyOccupants(sid, p.Room)
	if err != nil {
		ctl.sendError(conn, errorCode(err))
		return
	}
	if occ == nil {
		occ = []core.LobbyOccupant{}
	}
	ctl.sendJSON(conn, struct {
		Type      string               `json:"type"`
		Room      domain.RoomID        `json:"room"`
		Occupants []core.LobbyOccupant `json:"occupants"`
	}{"lobby_occupants", p.Room, occ})
}

func (ctl *SignalWSController) handleLobbyAdmit(sid core.SessionID, conn core.SignalConnection, data []byte) {
	var p moderationPayload
	if !ctl.decode(conn, data, &p, "lobby_admit") {
		return
	}
	if err := ctl.Orch.AdmitFromLobby(sid, p.Room, p.User); err != nil {
		ctl.sendError(conn, errorCode(err))
	}
}

func (ctl *SignalWSController) handleLobbyDeny(sid core.SessionID, conn core.SignalConnection, data []byte) {
	var p moderationPayload
	if !ctl.decode(conn, data, &p, "lobby_deny") {
		return
	}
	if err := ctl.Orch.DenyFromLobby(sid, p.Room, p.User); err != nil {
		ctl.sendError(conn, errorCode(err))
		return
	}
	ctl.BroadcastRoom(p.Room, struct {
		Type string        `json:"type"`
		Room domain.RoomID `json:"room"`
		User domain.UserID `json:"user"`
	}{"lobby_denied_user", p.Room, p.User})
}

func (ctl *SignalWSController) handleLobbyToggle(sid core.SessionID, conn core.SignalConnection, data []byte) {
	var p moderationPayload
	if !ctl.decode(conn, data, &p, "lobby_toggle") {
		return
	}
	if err := ctl.ToggleLobby(sid, p.Room, p.Enabled); err != nil {
		ctl.sendError(conn, errorCode(err))
	}
}

func (ctl *SignalWSController) handleRoomDestroy(sid core.SessionID, conn core.SignalConnection, data []byte) {
	var p moderationPayload
	if !ctl.decode(conn, data, &p, "room_destroy") {
		return
	}
	if err := ctl.DestroyRoom(sid, p.Room); err != nil {
		ctl.sendError(conn, errorCode(err))
	}
}

// ToggleLobby switches the lobby and tells the room the new setting.
func (ctl *SignalWSController) ToggleLobby(sid core.SessionID, roomID domain.RoomID, enabled bool) error {
	if err := ctl.Orch.ToggleLobby(sid, roomID, enabled); err != nil {
		return err
	}
	ctl.BroadcastRoom(roomID, struct {
		Type    string        `json:"type"`
		Room    domain.RoomID `json:"room"`
		Enabled bool          `json:"enabled"`
	}{"lobby_state", roomID, enabled})
	return nil
}

// DestroyRoom closes the room and sends room_closed to everyone who was in it.
func (ctl *SignalWSController) DestroyRoom(sid core.SessionID, roomID domain.RoomID) error {
	members := ctl.Orch.Registry.MembersOfRoom(roomID)
	if err := ctl.Orch.DestroyRoom(sid, roomID); err != nil {
		return err
	}
	for _, snap := range members {
		ctl.sendJSON(snap.Session.Signal(), lobbyFrame{Type: "room_closed", Room: roomID})
	}
	return nil
}

func errorCode(err error) string {
	var je *lobby.JoinError
	switch {
	case errors.Is(err, orch.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, orch.ErrNotMember):
		return "not_member"
	case errors.Is(err, orch.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, orch.ErrKnockPending):
		return "knock_pending"
	case errors.Is(err, orch.ErrLobbyUnavailable), errors.As(err, &je):
		return "lobby_unavailable"
	case errors.Is(err, muc.ErrOccupantNotFound):
		return "occupant_not_found"
	case errors.Is(err, orch.ErrNoSession):
		return "no_session"
	case errors.Is(err, sfu.ErrNoRelay), errors.Is(err, sfu.ErrNotListening):
		return "not_speaking"
	}
	return "internal"
}

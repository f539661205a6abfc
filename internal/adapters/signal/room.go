package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

type memberEvent struct {
	Type string      `json:"type"`
	User domain.User `json:"user"`
}

func (ctl *SignalWSController) createRoom(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	type Payload struct {
		Type  string `json:"type"`
		Name  string `json:"name"`
		Lobby bool   `json:"lobby"`
	}
	var p Payload
	if !ctl.decode(conn, data, &p, "create_room") {
		return
	}
	if p.Name == "" {
		ctl.sendError(conn, "empty name")
		return
	}

	room := ctl.Orch.CreateRoom(sid, domain.RoomName(p.Name), p.Lobby)
	resp := struct {
		Type  string        `json:"type"`
		Room  domain.RoomID `json:"room"`
		Lobby bool          `json:"lobby"`
	}{
		"room_created",
		room.Room().ID,
		room.LobbyEnabled(),
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
		Name string `json:"name,omitempty"`
	}
	var p joinPayload
	if !ctl.decode(conn, data, &p, "join") {
		return
	}
	roomID := domain.RoomID(p.Room)

	if p.Name != "" {
		if err := ctl.Orch.Registry.UpdateUsername(sid, p.Name); err != nil {
			ctl.sendError(conn, "invalid_name")
			return
		}
		log.Info().Str("module", "signal").Str("sid", string(sid)).Str("name", p.Name).Msg("rename on join")
	}

	needLobby, err := ctl.Orch.NeedsLobby(sid, roomID)
	if err != nil {
		log.Error().Str("module", "signal").Str("room_id", p.Room).Msg("room is not exists")
		ctl.sendError(conn, errorCode(err))
		return
	}
	if cur, _, ok := ctl.Orch.Registry.RoomOf(sid); ok && cur == roomID {
		ctl.sendError(conn, "already_in_room")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room_id", p.Room).Bool("lobby", needLobby).Msg("join")
	if needLobby {
		ctl.knock(sid, conn, roomID)
		return
	}
	if err := ctl.enterRoom(sid, conn, roomID); err != nil {
		ctl.sendError(conn, errorCode(err))
	}
}

// enterRoom moves sid into the main room and tells everyone about it.
func (ctl *SignalWSController) enterRoom(sid core.SessionID, conn core.SignalConnection, roomID domain.RoomID) error {
	if err := ctl.Orch.Join(sid, roomID); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("enter room")
		return err
	}
	room, ok := ctl.Orch.Rooms.GetRoom(roomID)
	if !ok {
		return nil
	}
	clientResp := struct {
		Type     string           `json:"type"`
		Room     domain.RoomID    `json:"room"`
		RoomName domain.RoomName  `json:"room_name"`
		Lobby    bool             `json:"lobby"`
		Members  []core.MemberDTO `json:"members"`
		Count    int              `json:"count"`
	}{
		Type:     "room_state",
		Room:     room.Room().ID,
		RoomName: room.Room().Name,
		Lobby:    room.LobbyEnabled(),
		Members:  room.MembersSnapshot(),
		Count:    room.MemberCount(),
	}
	ctl.sendJSON(conn, clientResp)

	user, _ := ctl.Orch.Registry.User(sid)
	ctl.BroadcastFrom(sid, memberEvent{Type: "member_joined", User: user})
	return nil
}

// handleLeave leaves the current room or lobby; the connection stays open.
func (ctl *SignalWSController) handleLeave(
	sid core.SessionID,
	conn core.SignalConnection,
) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	ctl.Orch.CancelKnock(sid)
	roomID, _, ok := ctl.Orch.Registry.RoomOf(sid)

	ctl.Orch.KickBySID(sid)
	ctl.sendJSON(conn, map[string]any{
		"type": "left",
	})

	if ok {
		user, _ := ctl.Orch.Registry.User(sid)
		ctl.BroadcastRoom(roomID, memberEvent{Type: "member_left", User: user})
	}
}

func (ctl *SignalWSController) handleChat(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	var p struct {
		Text string `json:"text"`
	}
	if !ctl.decode(conn, data, &p, "chat") {
		return
	}
	if _, _, ok := ctl.Orch.Registry.RoomOf(sid); !ok {
		ctl.sendError(conn, "not_in_room")
		return
	}
	user, _ := ctl.Orch.Registry.User(sid)
	frame, err := json.Marshal(struct {
		Type string      `json:"type"`
		From domain.User `json:"from"`
		Text string      `json:"text"`
	}{"chat", user, p.Text})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("chat marshal")
		return
	}
	ctl.Orch.OnFrame(sid, frame)
}

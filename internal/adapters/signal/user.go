package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

func (ctl *SignalWSController) handleRename(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	type renamePayload struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	var p renamePayload
	if !ctl.decode(conn, data, &p, "rename") {
		return
	}
	if p.Name == "" {
		ctl.sendError(conn, "empty name")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("name", p.Name).Msg("rename")
	if err := ctl.Orch.Registry.UpdateUsername(sid, p.Name); err != nil {
		ctl.sendError(conn, "invalid_name")
		return
	}
	ctl.handleWhoAmI(sid, conn)
	user, _ := ctl.Orch.Registry.User(sid)
	ctl.BroadcastFrom(sid, memberEvent{Type: "member_updated", User: user})
}

func (ctl *SignalWSController) handleWhoAmI(
	sid core.SessionID,
	conn core.SignalConnection,
) {
	user, _ := ctl.Orch.Registry.User(sid)

	resp := struct {
		Type     string          `json:"type"`
		ID       domain.UserID   `json:"id"`
		Username string          `json:"username"`
		Room     domain.RoomID   `json:"room,omitempty"`
		RoomName domain.RoomName `json:"room_name,omitempty"`
		Waiting  domain.RoomID   `json:"waiting,omitempty"`
	}{
		Type:     "whoami",
		ID:       user.ID,
		Username: user.Username,
	}
	if roomID, _, ok := ctl.Orch.Registry.RoomOf(sid); ok {
		if room, ok := ctl.Orch.Rooms.GetRoom(roomID); ok {
			resp.RoomName = room.Room().Name
			resp.Room = roomID
		}
	}
	if g, ok := ctl.Orch.Registry.GateOf(sid); ok {
		if id, ok := ctl.Orch.Addr.RoomOf(g.MainAddress()); ok {
			resp.Waiting = id
		}
	}
	ctl.sendJSON(conn, resp)
}

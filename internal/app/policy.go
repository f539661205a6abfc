package app

import (
	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

type Policy interface {
	OnBackPressure(room core.RoomService, member core.MemberSession) BackpressureAction
	// NeedsLobby reports whether user has to wait for a moderator before
	// entering room.
	NeedsLobby(room core.RoomService, user domain.UserID) bool
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room core.RoomService, member core.MemberSession) BackpressureAction {
	return KickMember
}

// NeedsLobby lets the owner and everybody in a room without a lobby
// straight through.
func (SimplePolicy) NeedsLobby(room core.RoomService, user domain.UserID) bool {
	return room.LobbyEnabled() && room.Room().Owner != user
}

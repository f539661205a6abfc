package core

import (
	"github.com/dkeye/VoiceLobby/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Room() domain.Room
	MemberCount() int
	MembersSnapshot() []MemberDTO
	HasMember(sid SessionID) bool

	LobbyEnabled() bool
	SetLobby(enabled bool)

	AddMember(sid SessionID, ms MemberSession)
	RemoveMember(sid SessionID)
	Broadcast(from SessionID, data Frame) PublishResult
}

type RoomInfo struct {
	ID          domain.RoomID   `json:"id"`
	Name        domain.RoomName `json:"name"`
	Lobby       bool            `json:"lobby"`
	MemberCount int             `json:"client_count"`
}

type RoomManager interface {
	CreateRoom(name domain.RoomName, owner domain.UserID, lobby bool) RoomService
	GetRoom(id domain.RoomID) (RoomService, bool)
	List() []RoomInfo
	StopRoom(id domain.RoomID)
}

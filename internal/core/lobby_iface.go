package core

//go:generate mockgen -source=lobby_iface.go -destination=mocks/mock_lobby_iface.go -package=mocks

import (
	"errors"

	"github.com/dkeye/VoiceLobby/internal/domain"
)

var (
	ErrNotSupported    = errors.New("operation not supported")
	ErrOperationFailed = errors.New("operation failed")
)

// PresenceKind is the reason carried by a local presence change in a
// moderated room.
type PresenceKind int

const (
	PresenceJoined PresenceKind = iota + 1
	PresenceKicked
	PresenceLeft
	PresenceJoinFailed
	PresenceRoomDestroyed
)

func (k PresenceKind) String() string {
	switch k {
	case PresenceJoined:
		return "joined"
	case PresenceKicked:
		return "kicked"
	case PresenceLeft:
		return "left"
	case PresenceJoinFailed:
		return "join_failed"
	case PresenceRoomDestroyed:
		return "room_destroyed"
	}
	return "unknown"
}

// InvitationEvent is delivered when a moderator lets the local user in.
type InvitationEvent struct {
	Room    domain.Address
	Inviter domain.UserID
	Reason  string
}

// PresenceEvent describes a change of the local user's membership in Room.
// Alternate is empty unless the room service redirected the user.
type PresenceEvent struct {
	Room      domain.Address
	Kind      PresenceKind
	Alternate domain.Address
	Reason    string
}

// ChatRoom is a handle to a room resolved through a RoomTransport.
type ChatRoom interface {
	Address() domain.Address
}

// DisplayNamer is implemented by rooms that can announce a display name
// with the occupant's presence.
type DisplayNamer interface {
	SetDisplayName(name string)
}

type Subscription interface {
	Unsubscribe() error
}

// RoomTransport is the moderated-room client used by a lobby gate.
type RoomTransport interface {
	FindRoom(addr domain.Address) (ChatRoom, error)
	JoinAs(room ChatRoom, nick string) error
	Leave(room ChatRoom) error
	SubscribeInvitations(fn func(InvitationEvent)) (Subscription, error)
	SubscribePresence(fn func(PresenceEvent)) (Subscription, error)
}

// MainSessionController lets an admitted participant into the main room.
type MainSessionController interface {
	AdmitMainRoom() error
}

// NotificationSink plays the cues of a lobby wait. Calls are fire and forget.
type NotificationSink interface {
	WaitingForReview()
	AccessGranted()
	AccessDenied()
	RoomDestroyed()
}

// LobbyOccupant is a participant currently waiting in a lobby room.
type LobbyOccupant struct {
	User        domain.UserID `json:"id"`
	Nick        string        `json:"nick"`
	DisplayName string        `json:"display_name,omitempty"`
}

// LobbyService is the moderation side of the room service.
type LobbyService interface {
	Connect(user domain.UserID) RoomTransport
	OpenRoom(lobby domain.Address)
	Admit(lobby domain.Address, user domain.UserID, main domain.Address) error
	Deny(lobby domain.Address, user domain.UserID) error
	Disable(lobby, main domain.Address)
	Destroy(lobby domain.Address, reason string)
	Occupants(lobby domain.Address) []LobbyOccupant
}

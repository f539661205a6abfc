package domain

type (
	RoomName string
	RoomID   string
)

// Room is the main conference room. Lobby reports whether newcomers
// other than the owner have to wait for a moderator.
type Room struct {
	ID    RoomID   `json:"id"`
	Name  RoomName `json:"name"`
	Owner UserID   `json:"owner,omitempty"`
	Lobby bool     `json:"lobby"`
}

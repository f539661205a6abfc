package app

import "github.com/dkeye/VoiceLobby/internal/domain"

// Addressing maps rooms onto the moderated-room service. A room's lobby and
// main room share the room id as local part and live on different domains.
type Addressing struct {
	LobbyDomain      string
	ConferenceDomain string
}

func (a Addressing) Lobby(room domain.RoomID) domain.Address {
	return domain.NewAddress(string(room), a.LobbyDomain, "")
}

// Occupant is the address user waits under in the lobby of room.
func (a Addressing) Occupant(room domain.RoomID, user domain.UserID) domain.Address {
	return domain.NewAddress(string(room), a.LobbyDomain, string(user))
}

func (a Addressing) Main(room domain.RoomID) domain.Address {
	return domain.NewAddress(string(room), a.ConferenceDomain, "")
}

// RoomOf recovers the room id from a lobby or main room address.
func (a Addressing) RoomOf(addr domain.Address) (domain.RoomID, bool) {
	switch addr.Domain() {
	case a.LobbyDomain, a.ConferenceDomain:
		if addr.Local() == "" {
			return "", false
		}
		return domain.RoomID(addr.Local()), true
	}
	return "", false
}

// Package muc is an in-process moderated room service. Lobby rooms live in
// a Hub; every participant talks to it through its own Client, which is the
// room transport a lobby gate runs on.
package muc

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

var ErrOccupantNotFound = errors.New("muc: occupant not found")

type occupant struct {
	nick    string
	display string
}

type room struct {
	addr      domain.Address
	occupants map[*Client]occupant
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[domain.Address]*room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[domain.Address]*room)}
}

// Connect returns a new transport for user. Each lobby attempt should use
// its own client.
func (h *Hub) Connect(user domain.UserID) core.RoomTransport {
	return newClient(h, user)
}

func (h *Hub) OpenRoom(addr domain.Address) {
	addr = addr.Bare()
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[addr]; ok {
		return
	}
	h.rooms[addr] = &room{addr: addr, occupants: make(map[*Client]occupant)}
	log.Info().Str("module", "muc").Str("room", string(addr)).Msg("room opened")
}

// Admit sends the invitation into main to every client of user waiting in
// lobby. The occupant stays in the room until its gate leaves.
func (h *Hub) Admit(lobby domain.Address, user domain.UserID, main domain.Address) error {
	h.mu.RLock()
	clients := h.clientsOf(lobby.Bare(), user)
	h.mu.RUnlock()
	if len(clients) == 0 {
		return fmt.Errorf("%w: %s in %s", ErrOccupantNotFound, user, lobby)
	}
	log.Info().Str("module", "muc").Str("room", string(lobby)).Str("user", string(user)).Msg("occupant admitted")
	for _, c := range clients {
		c.deliverInvitation(core.InvitationEvent{Room: main.Bare(), Reason: "admitted"})
	}
	return nil
}

// Deny kicks every client of user out of lobby.
func (h *Hub) Deny(lobby domain.Address, user domain.UserID) error {
	lobby = lobby.Bare()
	h.mu.Lock()
	clients := h.clientsOf(lobby, user)
	if r, ok := h.rooms[lobby]; ok {
		for _, c := range clients {
			delete(r.occupants, c)
		}
	}
	h.mu.Unlock()
	if len(clients) == 0 {
		return fmt.Errorf("%w: %s in %s", ErrOccupantNotFound, user, lobby)
	}
	log.Info().Str("module", "muc").Str("room", string(lobby)).Str("user", string(user)).Msg("occupant denied")
	for _, c := range clients {
		c.deliverPresence(core.PresenceEvent{Room: lobby, Kind: core.PresenceKicked, Reason: "denied"})
	}
	return nil
}

// Disable closes lobby and redirects every occupant to main.
func (h *Hub) Disable(lobby, main domain.Address) {
	clients := h.close(lobby.Bare())
	log.Info().Str("module", "muc").Str("room", string(lobby)).Int("occupants", len(clients)).Msg("lobby disabled")
	for _, c := range clients {
		c.deliverPresence(core.PresenceEvent{
			Room:      lobby.Bare(),
			Kind:      core.PresenceLeft,
			Alternate: main.Bare(),
			Reason:    "lobby disabled",
		})
	}
}

func (h *Hub) Destroy(lobby domain.Address, reason string) {
	clients := h.close(lobby.Bare())
	log.Info().Str("module", "muc").Str("room", string(lobby)).Int("occupants", len(clients)).Str("reason", reason).Msg("room destroyed")
	for _, c := range clients {
		c.deliverPresence(core.PresenceEvent{Room: lobby.Bare(), Kind: core.PresenceRoomDestroyed, Reason: reason})
	}
}

func (h *Hub) Occupants(lobby domain.Address) []core.LobbyOccupant {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[lobby.Bare()]
	if !ok {
		return nil
	}
	out := make([]core.LobbyOccupant, 0, len(r.occupants))
	for c, o := range r.occupants {
		out = append(out, core.LobbyOccupant{User: c.user, Nick: o.nick, DisplayName: o.display})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User < out[j].User })
	return out
}

func (h *Hub) close(addr domain.Address) []*Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[addr]
	if !ok {
		return nil
	}
	delete(h.rooms, addr)
	out := make([]*Client, 0, len(r.occupants))
	for c := range r.occupants {
		out = append(out, c)
	}
	return out
}

// clientsOf must be called with h.mu held.
func (h *Hub) clientsOf(addr domain.Address, user domain.UserID) []*Client {
	r, ok := h.rooms[addr]
	if !ok {
		return nil
	}
	var out []*Client
	for c := range r.occupants {
		if c.user == user {
			out = append(out, c)
		}
	}
	return out
}

func (h *Hub) join(c *Client, addr domain.Address, o occupant) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[addr]
	if !ok {
		return false
	}
	r.occupants[c] = o
	return true
}

func (h *Hub) leave(c *Client, addr domain.Address) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[addr]
	if !ok {
		return false
	}
	if _, ok := r.occupants[c]; !ok {
		return false
	}
	delete(r.occupants, c)
	return true
}

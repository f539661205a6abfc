package muc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

var ErrNotSubscribed = errors.New("muc: listener not registered")

// Client is one participant's connection to the hub. Listeners are called
// synchronously on the goroutine that caused the event, never with a hub
// or client lock held.
type Client struct {
	hub  *Hub
	user domain.UserID
	log  zerolog.Logger

	mu          sync.Mutex
	nextID      uint64
	invitations map[uint64]func(core.InvitationEvent)
	presence    map[uint64]func(core.PresenceEvent)
}

func newClient(h *Hub, user domain.UserID) *Client {
	return &Client{
		hub:         h,
		user:        user,
		log:         log.With().Str("module", "muc.client").Str("user", string(user)).Logger(),
		invitations: make(map[uint64]func(core.InvitationEvent)),
		presence:    make(map[uint64]func(core.PresenceEvent)),
	}
}

// roomHandle is what FindRoom hands out. The display name set through it
// is announced when the client joins.
type roomHandle struct {
	addr   domain.Address
	client *Client

	mu      sync.Mutex
	display string
}

func (r *roomHandle) Address() domain.Address { return r.addr }

func (r *roomHandle) SetDisplayName(name string) {
	r.mu.Lock()
	r.display = name
	r.mu.Unlock()
}

func (c *Client) FindRoom(addr domain.Address) (core.ChatRoom, error) {
	addr = addr.Bare()
	c.hub.mu.RLock()
	_, ok := c.hub.rooms[addr]
	c.hub.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("muc: room %s not found: %w", addr, core.ErrOperationFailed)
	}
	return &roomHandle{addr: addr, client: c}, nil
}

func (c *Client) JoinAs(room core.ChatRoom, nick string) error {
	h, ok := room.(*roomHandle)
	if !ok || h.client != c {
		return fmt.Errorf("muc: foreign room handle: %w", core.ErrNotSupported)
	}
	h.mu.Lock()
	o := occupant{nick: nick, display: h.display}
	h.mu.Unlock()

	if !c.hub.join(c, h.addr, o) {
		c.deliverPresence(core.PresenceEvent{Room: h.addr, Kind: core.PresenceJoinFailed, Reason: "room closed"})
		return fmt.Errorf("muc: join %s: %w", h.addr, core.ErrOperationFailed)
	}
	c.log.Info().Str("room", string(h.addr)).Str("nick", nick).Msg("joined room")
	c.deliverPresence(core.PresenceEvent{Room: h.addr, Kind: core.PresenceJoined})
	return nil
}

func (c *Client) Leave(room core.ChatRoom) error {
	h, ok := room.(*roomHandle)
	if !ok || h.client != c {
		return fmt.Errorf("muc: foreign room handle: %w", core.ErrNotSupported)
	}
	if !c.hub.leave(c, h.addr) {
		c.log.Debug().Str("room", string(h.addr)).Msg("leave: not an occupant")
		return nil
	}
	c.log.Info().Str("room", string(h.addr)).Msg("left room")
	c.deliverPresence(core.PresenceEvent{Room: h.addr, Kind: core.PresenceLeft})
	return nil
}

func (c *Client) SubscribeInvitations(fn func(core.InvitationEvent)) (core.Subscription, error) {
	if fn == nil {
		return nil, fmt.Errorf("muc: nil invitation listener: %w", core.ErrOperationFailed)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.invitations[id] = fn
	return &subscription{remove: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, ok := c.invitations[id]
		delete(c.invitations, id)
		return ok
	}}, nil
}

func (c *Client) SubscribePresence(fn func(core.PresenceEvent)) (core.Subscription, error) {
	if fn == nil {
		return nil, fmt.Errorf("muc: nil presence listener: %w", core.ErrOperationFailed)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.presence[id] = fn
	return &subscription{remove: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, ok := c.presence[id]
		delete(c.presence, id)
		return ok
	}}, nil
}

func (c *Client) listenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.invitations) + len(c.presence)
}

func (c *Client) deliverInvitation(ev core.InvitationEvent) {
	c.mu.Lock()
	fns := make([]func(core.InvitationEvent), 0, len(c.invitations))
	for _, fn := range c.invitations {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (c *Client) deliverPresence(ev core.PresenceEvent) {
	c.mu.Lock()
	fns := make([]func(core.PresenceEvent), 0, len(c.presence))
	for _, fn := range c.presence {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	c.log.Debug().Str("room", string(ev.Room)).Str("kind", ev.Kind.String()).Int("listeners", len(fns)).Msg("presence")
	for _, fn := range fns {
		fn(ev)
	}
}

type subscription struct {
	remove func() bool
}

func (s *subscription) Unsubscribe() error {
	if !s.remove() {
		return ErrNotSubscribed
	}
	return nil
}

package muc

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
	"github.com/dkeye/VoiceLobby/internal/lobby"
)

const (
	lobbyAddr domain.Address = "room1@lobby.voice"
	mainAddr  domain.Address = "room1@conference.voice"
)

type recorder struct {
	mu     sync.Mutex
	events []string
	admit  error
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

func (r *recorder) AdmitMainRoom() error {
	r.add("admit")
	return r.admit
}

func (r *recorder) WaitingForReview() { r.add("waiting") }
func (r *recorder) AccessGranted()    { r.add("granted") }
func (r *recorder) AccessDenied()     { r.add("denied") }
func (r *recorder) RoomDestroyed()    { r.add("destroyed") }

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func knock(t *testing.T, h *Hub, user domain.UserID, display string) (*lobby.Gate, *recorder, *Client) {
	t.Helper()
	rec := &recorder{}
	tr := h.Connect(user)
	g := lobby.New(lobby.Identity{
		Lobby:       domain.NewAddress(lobbyAddr.Local(), lobbyAddr.Domain(), string(user)),
		Main:        mainAddr,
		DisplayName: display,
	}, tr, rec, rec)
	if err := g.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
	return g, rec, tr.(*Client)
}

func TestHubAdmit(t *testing.T) {
	h := NewHub()
	h.OpenRoom(lobbyAddr)
	g, rec, c := knock(t, h, "alice", "Alice")

	want := []core.LobbyOccupant{{User: "alice", Nick: "alice", DisplayName: "Alice"}}
	if diff := cmp.Diff(want, h.Occupants(lobbyAddr)); diff != "" {
		t.Fatalf("Occupants (-want +got):\n%s", diff)
	}

	if err := h.Admit(lobbyAddr, "alice", mainAddr); err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if diff := cmp.Diff([]string{"waiting", "granted", "admit"}, rec.got()); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if g.State() != lobby.StateLeft {
		t.Errorf("State = %s, want left", g.State())
	}
	if n := len(h.Occupants(lobbyAddr)); n != 0 {
		t.Errorf("occupants after admit = %d", n)
	}
	if n := c.listenerCount(); n != 0 {
		t.Errorf("listeners after admit = %d", n)
	}
}

func TestHubDeny(t *testing.T) {
	h := NewHub()
	h.OpenRoom(lobbyAddr)
	g, rec, c := knock(t, h, "bob", "Bob")

	if err := h.Deny(lobbyAddr, "bob"); err != nil {
		t.Fatalf("Deny: %v", err)
	}
	if diff := cmp.Diff([]string{"waiting", "denied"}, rec.got()); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if g.State() != lobby.StateLeft {
		t.Errorf("State = %s, want left", g.State())
	}
	if n := c.listenerCount(); n != 0 {
		t.Errorf("listeners after deny = %d", n)
	}
	if err := h.Deny(lobbyAddr, "bob"); !errors.Is(err, ErrOccupantNotFound) {
		t.Errorf("second Deny err = %v, want ErrOccupantNotFound", err)
	}
}

func TestHubDisableRedirectsEveryone(t *testing.T) {
	h := NewHub()
	h.OpenRoom(lobbyAddr)
	g1, rec1, _ := knock(t, h, "alice", "Alice")
	g2, rec2, _ := knock(t, h, "bob", "Bob")

	h.Disable(lobbyAddr, mainAddr)

	for _, tc := range []struct {
		g   *lobby.Gate
		rec *recorder
	}{{g1, rec1}, {g2, rec2}} {
		if diff := cmp.Diff([]string{"waiting", "admit"}, tc.rec.got()); diff != "" {
			t.Errorf("events (-want +got):\n%s", diff)
		}
		if tc.g.State() != lobby.StateLeft {
			t.Errorf("State = %s, want left", tc.g.State())
		}
		tc.g.Leave()
	}
	if occ := h.Occupants(lobbyAddr); occ != nil {
		t.Errorf("Occupants of disabled room = %v", occ)
	}
}

func TestHubDestroy(t *testing.T) {
	h := NewHub()
	h.OpenRoom(lobbyAddr)
	g, rec, c := knock(t, h, "carol", "Carol")

	h.Destroy(lobbyAddr, "owner left")

	if diff := cmp.Diff([]string{"waiting", "destroyed"}, rec.got()); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if g.State() != lobby.StateTerminated {
		t.Errorf("State = %s, want terminated", g.State())
	}
	if n := c.listenerCount(); n != 0 {
		t.Errorf("listeners after destroy = %d", n)
	}
	if err := g.Join(); !errors.Is(err, lobby.ErrClosed) {
		t.Errorf("Join after destroy = %v, want ErrClosed", err)
	}
}

func TestJoinUnknownRoomFails(t *testing.T) {
	h := NewHub()
	rec := &recorder{}
	tr := h.Connect("dave")
	g := lobby.New(lobby.Identity{Lobby: lobbyAddr + "/dave", Main: mainAddr}, tr, rec, rec)

	err := g.Join()
	var je *lobby.JoinError
	if !errors.As(err, &je) || je.Op != "find room" {
		t.Fatalf("Join err = %v, want find room JoinError", err)
	}
	if !errors.Is(err, core.ErrOperationFailed) {
		t.Errorf("err does not wrap ErrOperationFailed: %v", err)
	}
	if n := tr.(*Client).listenerCount(); n != 0 {
		t.Errorf("listeners after failed join = %d", n)
	}
	if len(rec.got()) != 0 {
		t.Errorf("unexpected notifications %v", rec.got())
	}
}

func TestClientLeaveAndUnsubscribe(t *testing.T) {
	h := NewHub()
	h.OpenRoom(lobbyAddr)
	c := newClient(h, "erin")

	var kinds []core.PresenceKind
	sub, err := c.SubscribePresence(func(ev core.PresenceEvent) { kinds = append(kinds, ev.Kind) })
	if err != nil {
		t.Fatal(err)
	}
	room, err := c.FindRoom(lobbyAddr + "/whatever")
	if err != nil {
		t.Fatal(err)
	}
	if room.Address() != lobbyAddr {
		t.Errorf("Address = %s, want bare %s", room.Address(), lobbyAddr)
	}
	if err := c.JoinAs(room, "erin"); err != nil {
		t.Fatal(err)
	}
	if err := c.Leave(room); err != nil {
		t.Fatal(err)
	}
	if err := c.Leave(room); err != nil {
		t.Errorf("second Leave = %v", err)
	}
	if diff := cmp.Diff([]core.PresenceKind{core.PresenceJoined, core.PresenceLeft}, kinds); diff != "" {
		t.Errorf("presence (-want +got):\n%s", diff)
	}

	if err := sub.Unsubscribe(); err != nil {
		t.Fatal(err)
	}
	if err := sub.Unsubscribe(); !errors.Is(err, ErrNotSubscribed) {
		t.Errorf("second Unsubscribe = %v, want ErrNotSubscribed", err)
	}
}

func TestJoinClosedRoomEmitsJoinFailed(t *testing.T) {
	h := NewHub()
	h.OpenRoom(lobbyAddr)
	c := newClient(h, "frank")
	var kinds []core.PresenceKind
	if _, err := c.SubscribePresence(func(ev core.PresenceEvent) { kinds = append(kinds, ev.Kind) }); err != nil {
		t.Fatal(err)
	}
	room, err := c.FindRoom(lobbyAddr)
	if err != nil {
		t.Fatal(err)
	}
	h.Destroy(lobbyAddr, "")

	if err := c.JoinAs(room, "frank"); !errors.Is(err, core.ErrOperationFailed) {
		t.Errorf("JoinAs = %v, want ErrOperationFailed", err)
	}
	if diff := cmp.Diff([]core.PresenceKind{core.PresenceJoinFailed}, kinds); diff != "" {
		t.Errorf("presence (-want +got):\n%s", diff)
	}
}

func TestForeignHandleRejected(t *testing.T) {
	h := NewHub()
	h.OpenRoom(lobbyAddr)
	a, b := newClient(h, "a"), newClient(h, "b")
	room, err := a.FindRoom(lobbyAddr)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.JoinAs(room, "b"); !errors.Is(err, core.ErrNotSupported) {
		t.Errorf("JoinAs foreign = %v, want ErrNotSupported", err)
	}
}

// eagerModerator acts on the occupant as soon as the hub has seated it,
// before JoinAs returns to the gate.
type eagerModerator struct {
	*Client
	act func()
}

func (m *eagerModerator) JoinAs(room core.ChatRoom, nick string) error {
	if err := m.Client.JoinAs(room, nick); err != nil {
		return err
	}
	m.act()
	return nil
}

func TestModerationRightAfterJoin(t *testing.T) {
	for _, tc := range []struct {
		name  string
		act   func(h *Hub) error
		want  []string
		state lobby.State
	}{
		{
			name:  "deny",
			act:   func(h *Hub) error { return h.Deny(lobbyAddr, "alice") },
			want:  []string{"waiting", "denied"},
			state: lobby.StateLeft,
		},
		{
			name:  "admit",
			act:   func(h *Hub) error { return h.Admit(lobbyAddr, "alice", mainAddr) },
			want:  []string{"waiting", "granted", "admit"},
			state: lobby.StateLeft,
		},
		{
			name:  "disable",
			act:   func(h *Hub) error { h.Disable(lobbyAddr, mainAddr); return nil },
			want:  []string{"waiting", "admit"},
			state: lobby.StateLeft,
		},
		{
			name:  "destroy",
			act:   func(h *Hub) error { h.Destroy(lobbyAddr, "closed"); return nil },
			want:  []string{"waiting", "destroyed"},
			state: lobby.StateTerminated,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHub()
			h.OpenRoom(lobbyAddr)
			c := newClient(h, "alice")
			var actErr error
			tr := &eagerModerator{Client: c, act: func() { actErr = tc.act(h) }}
			rec := &recorder{}
			g := lobby.New(lobby.Identity{
				Lobby:       domain.NewAddress(lobbyAddr.Local(), lobbyAddr.Domain(), "alice"),
				Main:        mainAddr,
				DisplayName: "Alice",
			}, tr, rec, rec)

			if err := g.Join(); err != nil {
				t.Fatalf("Join: %v", err)
			}
			if actErr != nil {
				t.Fatalf("moderation: %v", actErr)
			}
			if diff := cmp.Diff(tc.want, rec.got()); diff != "" {
				t.Errorf("events (-want +got):\n%s", diff)
			}
			if g.State() != tc.state {
				t.Errorf("State = %s, want %s", g.State(), tc.state)
			}
			if n := len(h.Occupants(lobbyAddr)); n != 0 {
				t.Errorf("occupants left behind: %d", n)
			}
			if n := c.listenerCount(); n != 0 {
				t.Errorf("listeners left behind: %d", n)
			}
		})
	}
}

package lobby

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

const (
	lobbyRoom domain.Address = "r1@lobby.voice"
	mainRoom  domain.Address = "r1@conference.voice"
)

func presence(kind core.PresenceKind, alt domain.Address) Event {
	return PresenceChanged(core.PresenceEvent{Room: lobbyRoom, Kind: kind, Alternate: alt})
}

func TestTransitionWhileWaiting(t *testing.T) {
	tests := []struct {
		name        string
		ev          Event
		matches     bool
		wantNext    State
		wantEffects []Effect
		wantWarn    bool
		wantIgnored bool
	}{
		{
			name:        "invitation grants access",
			ev:          InvitationReceived(core.InvitationEvent{Room: mainRoom}),
			matches:     false,
			wantNext:    StateLeft,
			wantEffects: []Effect{EffectNotifyGranted, EffectAdmit, EffectLeaveRoom},
		},
		{
			name:        "kicked denies access",
			ev:          presence(core.PresenceKicked, ""),
			matches:     true,
			wantNext:    StateLeft,
			wantEffects: []Effect{EffectNotifyDenied, EffectLeaveRoom},
		},
		{
			name:     "left without alternate keeps waiting",
			ev:       presence(core.PresenceLeft, ""),
			matches:  true,
			wantNext: StateWaiting,
		},
		{
			name:        "left with main room alternate admits",
			ev:          presence(core.PresenceLeft, mainRoom),
			matches:     true,
			wantNext:    StateLeft,
			wantEffects: []Effect{EffectAdmit, EffectRelease},
		},
		{
			name:        "left with main room alternate and resource admits",
			ev:          presence(core.PresenceLeft, mainRoom+"/focus"),
			matches:     true,
			wantNext:    StateLeft,
			wantEffects: []Effect{EffectAdmit, EffectRelease},
		},
		{
			name:        "left with other alternate admits with warning",
			ev:          presence(core.PresenceLeft, "elsewhere@conference.voice"),
			matches:     true,
			wantNext:    StateLeft,
			wantEffects: []Effect{EffectAdmit, EffectRelease},
			wantWarn:    true,
		},
		{
			name:     "joined is a no-op",
			ev:       presence(core.PresenceJoined, ""),
			matches:  true,
			wantNext: StateWaiting,
		},
		{
			name:     "join failed is logged only",
			ev:       presence(core.PresenceJoinFailed, ""),
			matches:  true,
			wantNext: StateWaiting,
			wantWarn: true,
		},
		{
			name:        "room destroyed terminates",
			ev:          presence(core.PresenceRoomDestroyed, ""),
			matches:     true,
			wantNext:    StateTerminated,
			wantEffects: []Effect{EffectNotifyDestroyed, EffectRelease},
		},
		{
			name:        "kicked from another room is ignored",
			ev:          presence(core.PresenceKicked, ""),
			matches:     false,
			wantNext:    StateWaiting,
			wantIgnored: true,
		},
		{
			name:        "destroyed other room is ignored",
			ev:          presence(core.PresenceRoomDestroyed, ""),
			matches:     false,
			wantNext:    StateWaiting,
			wantIgnored: true,
		},
		{
			name:        "left to main room from another room is ignored",
			ev:          presence(core.PresenceLeft, mainRoom),
			matches:     false,
			wantNext:    StateWaiting,
			wantIgnored: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Transition(StateWaiting, tt.ev, tt.matches, mainRoom)
			if d.Next != tt.wantNext {
				t.Errorf("Next = %s, want %s", d.Next, tt.wantNext)
			}
			if diff := cmp.Diff(tt.wantEffects, d.Effects); diff != "" {
				t.Errorf("Effects (-want +got):\n%s", diff)
			}
			if d.Warn != tt.wantWarn {
				t.Errorf("Warn = %v, want %v", d.Warn, tt.wantWarn)
			}
			if d.Ignored != tt.wantIgnored {
				t.Errorf("Ignored = %v, want %v", d.Ignored, tt.wantIgnored)
			}
		})
	}
}

func TestTransitionOutsideWaitingIsAbsorbed(t *testing.T) {
	events := []Event{
		InvitationReceived(core.InvitationEvent{Room: mainRoom}),
		presence(core.PresenceKicked, ""),
		presence(core.PresenceLeft, mainRoom),
		presence(core.PresenceRoomDestroyed, ""),
		presence(core.PresenceJoined, ""),
		presence(core.PresenceJoinFailed, ""),
	}
	for _, state := range []State{StateNotJoined, StateJoining, StateLeft, StateTerminated} {
		for _, ev := range events {
			d := Transition(state, ev, true, mainRoom)
			if d.Next != state || len(d.Effects) != 0 || !d.Ignored {
				t.Errorf("state %s event %s: got %+v", state, eventName(ev), d)
			}
		}
	}
}

func TestStateTerminal(t *testing.T) {
	want := map[State]bool{
		StateNotJoined:  false,
		StateJoining:    false,
		StateWaiting:    false,
		StateLeft:       true,
		StateTerminated: true,
	}
	for s, terminal := range want {
		if s.Terminal() != terminal {
			t.Errorf("%s.Terminal() = %v", s, s.Terminal())
		}
	}
}

package lobby

import (
	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

type EventKind int

const (
	EventInvitation EventKind = iota + 1
	EventPresence
)

// Event is an inbound transport event reduced to what the gate decides on.
type Event struct {
	Kind      EventKind
	Presence  core.PresenceKind
	Room      domain.Address
	Alternate domain.Address
}

func InvitationReceived(ev core.InvitationEvent) Event {
	return Event{Kind: EventInvitation, Room: ev.Room}
}

func PresenceChanged(ev core.PresenceEvent) Event {
	return Event{Kind: EventPresence, Presence: ev.Kind, Room: ev.Room, Alternate: ev.Alternate}
}

// Effect is a side effect requested by a transition. Effects run in the
// order they are listed.
type Effect int

const (
	EffectNotifyGranted Effect = iota + 1
	EffectNotifyDenied
	EffectNotifyDestroyed
	EffectAdmit
	// EffectLeaveRoom drops the listeners and leaves the lobby room.
	EffectLeaveRoom
	// EffectRelease drops the listeners and the room handle without a
	// transport leave; the room service already removed us.
	EffectRelease
)

func (e Effect) String() string {
	switch e {
	case EffectNotifyGranted:
		return "notify_granted"
	case EffectNotifyDenied:
		return "notify_denied"
	case EffectNotifyDestroyed:
		return "notify_destroyed"
	case EffectAdmit:
		return "admit"
	case EffectLeaveRoom:
		return "leave_room"
	case EffectRelease:
		return "release"
	}
	return "unknown"
}

type Decision struct {
	Next    State
	Effects []Effect
	// Ignored marks events that had no bearing on the gate.
	Ignored bool
	Note    string
	Warn    bool
}

// Transition decides what a gate in state does with ev. roomMatches tells
// whether a presence event is about the lobby room the gate joined.
func Transition(state State, ev Event, roomMatches bool, main domain.Address) Decision {
	if state != StateWaiting {
		return Decision{Next: state, Ignored: true, Note: "gate is " + state.String()}
	}

	switch ev.Kind {
	case EventInvitation:
		return Decision{
			Next:    StateLeft,
			Effects: []Effect{EffectNotifyGranted, EffectAdmit, EffectLeaveRoom},
			Note:    "access granted",
		}
	case EventPresence:
	default:
		return Decision{Next: state, Ignored: true, Note: "unknown event"}
	}

	if !roomMatches {
		return Decision{Next: state, Ignored: true, Note: "presence for another room"}
	}

	switch ev.Presence {
	case core.PresenceKicked:
		return Decision{
			Next:    StateLeft,
			Effects: []Effect{EffectNotifyDenied, EffectLeaveRoom},
			Note:    "access denied",
		}
	case core.PresenceLeft:
		if ev.Alternate.IsZero() {
			return Decision{Next: state, Note: "left lobby without alternate room"}
		}
		d := Decision{
			Next:    StateLeft,
			Effects: []Effect{EffectAdmit, EffectRelease},
			Note:    "lobby disabled, moving to main room",
		}
		if !ev.Alternate.EqualBare(main) {
			d.Note = "alternate room is not the main room, admitting anyway"
			d.Warn = true
		}
		return d
	case core.PresenceJoined:
		// Join plays the waiting cue itself.
		return Decision{Next: state, Note: "joined lobby"}
	case core.PresenceJoinFailed:
		return Decision{Next: state, Note: "failed to join lobby", Warn: true}
	case core.PresenceRoomDestroyed:
		return Decision{
			Next:    StateTerminated,
			Effects: []Effect{EffectNotifyDestroyed, EffectRelease},
			Note:    "lobby room destroyed",
		}
	}
	return Decision{Next: state, Ignored: true, Note: "unknown presence " + ev.Presence.String()}
}

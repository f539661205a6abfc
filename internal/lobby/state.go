// Package lobby gates entry into a moderated room. A participant first
// joins the lobby room and waits there until a moderator admits or denies
// it, or the room is torn down.
package lobby

// State is the phase of one lobby attempt. A gate never leaves a
// terminal state.
type State int32

const (
	StateNotJoined State = iota
	StateJoining
	StateWaiting
	StateLeft
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNotJoined:
		return "not_joined"
	case StateJoining:
		return "joining"
	case StateWaiting:
		return "waiting"
	case StateLeft:
		return "left"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s == StateLeft || s == StateTerminated
}

package lobby

import (
	"errors"
	"fmt"

	"github.com/dkeye/VoiceLobby/internal/domain"
)

var (
	ErrAlreadyJoined = errors.New("lobby: gate already joined")
	ErrClosed        = errors.New("lobby: gate closed")
)

// JoinError is returned by Gate.Join when the room transport rejects the
// lobby join. Err is the transport error as reported.
type JoinError struct {
	Op    string
	Lobby domain.Address
	Err   error
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("lobby: %s %s: %v", e.Op, e.Lobby, e.Err)
}

func (e *JoinError) Unwrap() error { return e.Err }

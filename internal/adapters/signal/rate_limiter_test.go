package signal

import (
	"testing"
	"time"

	"github.com/dkeye/VoiceLobby/internal/domain"
)

func TestRoomRateLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRoomRateLimiter(2, 10*time.Second)
	rl.now = func() time.Time { return now }

	steps := []struct {
		advance time.Duration
		user    domain.UserID
		want    bool
	}{
		{0, "alice", true},
		{time.Second, "alice", true},
		{time.Second, "alice", false},
		{0, "bob", true},
		{8*time.Second + time.Millisecond, "alice", true},
		{0, "alice", false},
		{11 * time.Second, "alice", true},
	}
	for i, s := range steps {
		now = now.Add(s.advance)
		if got := rl.Allow(s.user); got != s.want {
			t.Errorf("step %d: Allow(%s) = %v, want %v", i, s.user, got, s.want)
		}
	}
}

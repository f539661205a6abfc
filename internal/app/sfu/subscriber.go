package sfu

import (
	"sync/atomic"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

type forwardState int32

const (
	forwarding forwardState = iota
	// paused keeps the track negotiated but stops sending packets to it.
	paused
	dropped
)

func (s forwardState) String() string {
	switch s {
	case forwarding:
		return "forwarding"
	case paused:
		return "paused"
	case dropped:
		return "dropped"
	}
	return "unknown"
}

// subscriber is the local copy of a speaker's track on one listener's
// connection.
type subscriber struct {
	track   *webrtc.TrackLocalStaticRTP
	state   atomic.Int32
	packets atomic.Uint64
}

func newSubscriber(track *webrtc.TrackLocalStaticRTP) *subscriber {
	return &subscriber{track: track}
}

func (s *subscriber) load() forwardState {
	return forwardState(s.state.Load())
}

// pause switches between forwarding and paused. A dropped subscriber stays
// dropped and pause reports false.
func (s *subscriber) pause(on bool) bool {
	from, to := forwarding, paused
	if !on {
		from, to = paused, forwarding
	}
	for {
		cur := s.load()
		switch cur {
		case dropped:
			return false
		case to:
			return true
		}
		if s.state.CompareAndSwap(int32(from), int32(to)) {
			return true
		}
	}
}

func (s *subscriber) drop() {
	s.state.Store(int32(dropped))
}

func (s *subscriber) write(pkt *rtp.Packet) error {
	if err := s.track.WriteRTP(pkt); err != nil {
		return err
	}
	s.packets.Add(1)
	return nil
}

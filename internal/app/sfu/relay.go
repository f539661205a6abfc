package sfu

import (
	"context"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"github.com/dkeye/VoiceLobby/internal/core"
)

// Relay copies one speaker's RTP stream to the room members listening to
// it. Listeners that fail a write are dropped and pruned on the next packet.
type Relay struct {
	speaker core.SessionID
	src     *webrtc.TrackRemote
	cancel  context.CancelFunc
	log     zerolog.Logger

	mu   sync.RWMutex
	subs map[core.SessionID]*subscriber
}

func newRelay(speaker core.SessionID, src *webrtc.TrackRemote, cancel context.CancelFunc, logger zerolog.Logger) *Relay {
	return &Relay{
		speaker: speaker,
		src:     src,
		cancel:  cancel,
		log:     logger,
		subs:    make(map[core.SessionID]*subscriber),
	}
}

func (r *Relay) run(ctx context.Context) {
	defer r.dropAll()
	for ctx.Err() == nil {
		pkt, _, err := r.src.ReadRTP()
		if err != nil {
			if ctx.Err() == nil {
				r.log.Warn().Err(err).Msg("speaker track ended")
			}
			return
		}
		r.fanOut(pkt)
	}
	r.log.Debug().Msg("relay cancelled")
}

func (r *Relay) fanOut(pkt *rtp.Packet) {
	var gone []core.SessionID
	r.mu.RLock()
	for dst, s := range r.subs {
		switch s.load() {
		case paused:
		case dropped:
			gone = append(gone, dst)
		case forwarding:
			if err := s.write(pkt); err != nil {
				r.log.Error().Err(err).Str("dst_sid", string(dst)).Msg("write to listener failed, dropping")
				s.drop()
				gone = append(gone, dst)
			}
		}
	}
	r.mu.RUnlock()

	if len(gone) > 0 {
		r.prune(gone)
	}
}

func (r *Relay) prune(gone []core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dst := range gone {
		if s, ok := r.subs[dst]; ok && s.load() == dropped {
			delete(r.subs, dst)
		}
	}
}

// attach replaces any earlier subscriber of dst.
func (r *Relay) attach(dst core.SessionID, s *subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.subs[dst]; ok {
		old.drop()
	}
	r.subs[dst] = s
}

func (r *Relay) lookup(dst core.SessionID) (*subscriber, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subs[dst]
	return s, ok
}

func (r *Relay) dropAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.subs {
		s.drop()
	}
}

func (r *Relay) stop() {
	r.dropAll()
	if r.cancel != nil {
		r.cancel()
	}
}

// listeners counts subscribers that have not been dropped.
func (r *Relay) listeners() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.subs {
		if s.load() != dropped {
			n++
		}
	}
	return n
}

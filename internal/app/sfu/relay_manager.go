package sfu

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/core"
)

var (
	ErrNoRelay      = errors.New("speaker has no relay")
	ErrNotListening = errors.New("not subscribed to speaker")
)

// RelayManager keeps one Relay per speaking session.
type RelayManager struct {
	mu     sync.RWMutex
	relays map[core.SessionID]*Relay
}

func NewRelayManager() *RelayManager {
	return &RelayManager{
		relays: make(map[core.SessionID]*Relay),
	}
}

// StartRelay starts forwarding track for speaker, replacing the speaker's
// previous relay.
func (m *RelayManager) StartRelay(ctx context.Context, speaker core.SessionID, track *webrtc.TrackRemote) {
	logger := log.With().
		Str("module", "relay").
		Str("sid", string(speaker)).
		Logger()

	relayCtx, cancel := context.WithCancel(ctx)
	relay := newRelay(speaker, track, cancel, logger)

	m.mu.Lock()
	old := m.relays[speaker]
	m.relays[speaker] = relay
	m.mu.Unlock()

	if old != nil {
		logger.Info().Msg("replacing relay")
		old.stop()
	}
	logger.Info().Str("kind", track.Kind().String()).Msg("relay started")
	go relay.run(relayCtx)
}

func (m *RelayManager) relay(speaker core.SessionID) (*Relay, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.relays[speaker]
	return r, ok
}

// Subscribe adds a local copy of the speaker's track to the listener's
// connection and starts forwarding to it. The connection renegotiates on
// its own.
func (m *RelayManager) Subscribe(speaker, listener core.SessionID, mc core.MediaConnection, src *webrtc.TrackRemote) error {
	r, ok := m.relay(speaker)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRelay, speaker)
	}
	local, err := webrtc.NewTrackLocalStaticRTP(src.Codec().RTPCodecCapability, src.ID(), string(speaker))
	if err != nil {
		return fmt.Errorf("local track: %w", err)
	}
	if _, err := mc.AddLocalTrack(local); err != nil {
		return fmt.Errorf("add local track: %w", err)
	}
	r.attach(listener, newSubscriber(local))
	log.Info().
		Str("module", "relay").
		Str("src_sid", string(speaker)).
		Str("dst_sid", string(listener)).
		Msg("listener subscribed")
	return nil
}

// Unsubscribe stops forwarding speaker to listener.
func (m *RelayManager) Unsubscribe(speaker, listener core.SessionID) {
	r, ok := m.relay(speaker)
	if !ok {
		return
	}
	if s, ok := r.lookup(listener); ok {
		s.drop()
	}
}

// SetPaused holds or resumes the packets of speaker sent to listener
// without renegotiating.
func (m *RelayManager) SetPaused(speaker, listener core.SessionID, on bool) error {
	r, ok := m.relay(speaker)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRelay, speaker)
	}
	s, ok := r.lookup(listener)
	if !ok || !s.pause(on) {
		return fmt.Errorf("%w: %s", ErrNotListening, speaker)
	}
	log.Debug().
		Str("module", "relay").
		Str("src_sid", string(speaker)).
		Str("dst_sid", string(listener)).
		Str("state", s.load().String()).
		Msg("listener paused")
	return nil
}

func (m *RelayManager) StopRelay(speaker core.SessionID) {
	m.mu.Lock()
	r, ok := m.relays[speaker]
	delete(m.relays, speaker)
	m.mu.Unlock()
	if !ok {
		return
	}
	r.stop()
	log.Info().Str("module", "relay").Str("sid", string(speaker)).Msg("relay stopped")
}

func (m *RelayManager) HasRelay(speaker core.SessionID) bool {
	_, ok := m.relay(speaker)
	return ok
}

func (m *RelayManager) SubscriberCount(speaker core.SessionID) int {
	r, ok := m.relay(speaker)
	if !ok {
		return 0
	}
	return r.listeners()
}

// SrcTrack returns the track a speaker's relay reads from.
func (m *RelayManager) SrcTrack(speaker core.SessionID) (*webrtc.TrackRemote, bool) {
	r, ok := m.relay(speaker)
	if !ok {
		return nil, false
	}
	return r.src, true
}

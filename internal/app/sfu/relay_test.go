package sfu

import (
	"errors"
	"testing"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"github.com/dkeye/VoiceLobby/internal/core"
)

func localTrack(t *testing.T, id string) *webrtc.TrackLocalStaticRTP {
	t.Helper()
	tr, err := webrtc.NewTrackLocalStaticRTP(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}, id, "test")
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func packet(seq uint16) *rtp.Packet {
	return &rtp.Packet{Header: rtp.Header{Version: 2, SequenceNumber: seq}}
}

func TestFanOutSkipsPausedAndPrunesDropped(t *testing.T) {
	r := newRelay("speaker", nil, nil, zerolog.Nop())
	live := newSubscriber(localTrack(t, "live"))
	held := newSubscriber(localTrack(t, "held"))
	gone := newSubscriber(localTrack(t, "gone"))
	r.attach("live", live)
	r.attach("held", held)
	r.attach("gone", gone)
	held.pause(true)
	gone.drop()

	r.fanOut(packet(1))
	if _, ok := r.lookup("gone"); ok {
		t.Error("dropped listener survived fan-out")
	}
	if live.packets.Load() != 1 || held.packets.Load() != 0 {
		t.Errorf("packets live=%d held=%d, want 1 and 0", live.packets.Load(), held.packets.Load())
	}

	held.pause(false)
	r.fanOut(packet(2))
	if held.packets.Load() != 1 {
		t.Errorf("resumed listener got %d packets, want 1", held.packets.Load())
	}
	if r.listeners() != 2 {
		t.Errorf("listeners = %d, want 2", r.listeners())
	}
}

func TestSubscriberPause(t *testing.T) {
	s := newSubscriber(nil)
	if s.load() != forwarding {
		t.Fatalf("initial state = %s", s.load())
	}
	if !s.pause(true) || !s.pause(true) || s.load() != paused {
		t.Fatalf("pause: state = %s", s.load())
	}
	if !s.pause(false) || s.load() != forwarding {
		t.Fatalf("resume: state = %s", s.load())
	}
	s.drop()
	if s.pause(true) || s.pause(false) || s.load() != dropped {
		t.Errorf("dropped subscriber changed state to %s", s.load())
	}
}

func TestAttachReplacesListener(t *testing.T) {
	r := newRelay("speaker", nil, nil, zerolog.Nop())
	first := newSubscriber(localTrack(t, "a"))
	r.attach("l1", first)
	r.attach("l1", newSubscriber(localTrack(t, "b")))
	if first.load() != dropped {
		t.Errorf("replaced subscriber is %s", first.load())
	}
	if r.listeners() != 1 {
		t.Errorf("listeners = %d, want 1", r.listeners())
	}
}

func TestRelayManagerListeners(t *testing.T) {
	m := NewRelayManager()
	if err := m.SetPaused("speaker", "l1", true); !errors.Is(err, ErrNoRelay) {
		t.Fatalf("SetPaused without relay = %v", err)
	}

	r := newRelay("speaker", nil, nil, zerolog.Nop())
	m.relays["speaker"] = r
	for _, sid := range []core.SessionID{"l1", "l2"} {
		r.attach(sid, newSubscriber(localTrack(t, string(sid))))
	}
	if n := m.SubscriberCount("speaker"); n != 2 {
		t.Fatalf("SubscriberCount = %d, want 2", n)
	}

	if err := m.SetPaused("speaker", "l1", true); err != nil {
		t.Fatalf("SetPaused: %v", err)
	}
	if s, _ := r.lookup("l1"); s.load() != paused {
		t.Errorf("l1 is %s, want paused", s.load())
	}
	if err := m.SetPaused("speaker", "nobody", true); !errors.Is(err, ErrNotListening) {
		t.Errorf("SetPaused unknown listener = %v", err)
	}

	m.Unsubscribe("speaker", "l2")
	if n := m.SubscriberCount("speaker"); n != 1 {
		t.Errorf("SubscriberCount after unsubscribe = %d, want 1", n)
	}
	if err := m.SetPaused("speaker", "l2", false); !errors.Is(err, ErrNotListening) {
		t.Errorf("SetPaused after unsubscribe = %v", err)
	}

	m.StopRelay("speaker")
	if m.HasRelay("speaker") {
		t.Error("relay still registered after StopRelay")
	}
	if _, ok := m.SrcTrack("speaker"); ok {
		t.Error("SrcTrack of stopped relay")
	}
	if s, _ := r.lookup("l1"); s.load() != dropped {
		t.Errorf("l1 is %s after stop, want dropped", s.load())
	}
}

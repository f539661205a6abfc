package rtc

import (
	"context"
	"errors"
	"testing"

	"github.com/pion/webrtc/v4"
)

func TestConnectionCloseIsIdempotent(t *testing.T) {
	c, err := NewWebRTCConnection(webrtc.Configuration{}, "s1")
	if err != nil {
		t.Fatal(err)
	}
	closed := 0
	c.OnClosed(func() { closed++ })
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	c.Close()
	c.Close()
	if closed != 1 {
		t.Errorf("OnClosed ran %d times, want 1", closed)
	}
	if !c.IsClosed() {
		t.Error("IsClosed = false after Close")
	}
	if _, err := c.CreateAndSetOffer(); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateAndSetOffer after Close = %v", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Start after Close = %v", err)
	}
}

func TestConnectionOfferWithLocalTrack(t *testing.T) {
	c, err := NewWebRTCConnection(webrtc.Configuration{}, "s1")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	track, err := webrtc.NewTrackLocalStaticRTP(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}, "audio", "s2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddLocalTrack(track); err != nil {
		t.Fatalf("AddLocalTrack: %v", err)
	}
	offer, err := c.CreateAndSetOffer()
	if err != nil {
		t.Fatalf("CreateAndSetOffer: %v", err)
	}
	if offer.Type != webrtc.SDPTypeOffer || offer.SDP == "" {
		t.Errorf("unexpected offer %+v", offer)
	}
}

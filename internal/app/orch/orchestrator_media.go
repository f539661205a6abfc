package orch

import (
	"context"
	"fmt"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/app/sfu"
	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

// CanPublish reports whether sid may negotiate media. Only members of a
// main room can; waiting in a lobby is not enough.
func (o *Orchestrator) CanPublish(sid core.SessionID) bool {
	_, _, ok := o.Registry.RoomOf(sid)
	return ok
}

func (o *Orchestrator) BindMediaHandlers(mc core.MediaConnection, sid core.SessionID) {
	mc.OnTrack(func(trackCtx context.Context, track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		o.OnTrack(trackCtx, sid, track)
	})
	mc.OnClosed(func() { o.OnMediaDisconnect(sid) })
}

func (o *Orchestrator) OnMediaDisconnect(sid core.SessionID) {
	if o.Relays == nil {
		return
	}
	o.Relays.StopRelay(sid)
	o.unsubscribeFromRoom(sid)
}

func (o *Orchestrator) cleanupMedia(sid core.SessionID) {
	if o.Relays != nil {
		o.Relays.StopRelay(sid)
		o.unsubscribeFromRoom(sid)
	}
	if sess, ok := o.Registry.GetSession(sid); ok {
		if mc := sess.Media(); mc != nil && !mc.IsClosed() {
			mc.Close()
		}
	}
}

// MuteSpeaker stops or resumes forwarding a room mate's audio to sid. Only
// the listener is affected; the speaker and the other members still hear
// each other.
func (o *Orchestrator) MuteSpeaker(sid core.SessionID, speaker domain.UserID, muted bool) error {
	if !o.CanPublish(sid) {
		return ErrNotMember
	}
	var src core.SessionID
	for _, snap := range o.Registry.RoomMates(sid) {
		if snap.Session.Meta().User.ID == speaker {
			src = snap.SID
			break
		}
	}
	if src == "" {
		return fmt.Errorf("%w: %s", ErrNotMember, speaker)
	}
	if o.Relays == nil {
		return fmt.Errorf("%w: %s", sfu.ErrNoRelay, speaker)
	}
	if err := o.Relays.SetPaused(src, sid, muted); err != nil {
		return err
	}
	log.Info().
		Str("module", "orch").
		Str("sid", string(sid)).
		Str("speaker", string(speaker)).
		Bool("muted", muted).
		Msg("speaker muted for listener")
	return nil
}

// unsubscribeFromRoom stops forwarding the room's speakers to sid.
func (o *Orchestrator) unsubscribeFromRoom(sid core.SessionID) {
	roomID, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return
	}
	for _, snap := range o.Registry.MembersOfRoom(roomID) {
		o.Relays.Unsubscribe(snap.SID, sid)
	}
}

// OnTrack is called when a new remote media track appears for a given session.
func (o *Orchestrator) OnTrack(ctx context.Context, sid core.SessionID, track *webrtc.TrackRemote) {
	if o.Relays == nil {
		return
	}
	roomID, sess, ok := o.Registry.RoomOf(sid)
	if !ok || sess.Media() == nil {
		log.Info().
			Str("module", "sfu").
			Str("sid", string(sid)).
			Msg("OnTrack: no room for sid")
		return
	}
	o.Relays.StartRelay(ctx, sid, track)

	// Subscribe all existing members in the room to this speaker.
	for _, snap := range o.Registry.MembersOfRoom(roomID) {
		if snap.SID == sid {
			continue
		}
		mc := snap.Session.Media()
		if mc == nil || mc.IsClosed() {
			continue
		}
		if err := o.Relays.Subscribe(sid, snap.SID, mc, track); err != nil {
			log.Error().Err(err).Str("module", "sfu").Str("src_sid", string(sid)).Str("dst_sid", string(snap.SID)).Msg("subscribe")
		}
	}
}

// OnMediaReady is called when MediaConnection is attached to the session (offer/answer done).
// It subscribes this user as a subscriber to all existing relays in the same room.
func (o *Orchestrator) OnMediaReady(sid core.SessionID) {
	if o.Relays == nil {
		return
	}
	roomID, sess, ok := o.Registry.RoomOf(sid)
	if !ok {
		return
	}
	mc := sess.Media()
	if mc == nil {
		return
	}

	for _, snap := range o.Registry.MembersOfRoom(roomID) {
		if snap.SID == sid {
			continue
		}
		srcTrack, ok := o.Relays.SrcTrack(snap.SID)
		if !ok {
			continue
		}
		if err := o.Relays.Subscribe(snap.SID, sid, mc, srcTrack); err != nil {
			log.Error().Err(err).Str("module", "sfu").Str("src_sid", string(snap.SID)).Str("dst_sid", string(sid)).Msg("subscribe")
		}
	}
}

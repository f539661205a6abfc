package signal

import (
	"context"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/adapters/rtc"
	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

type sdpPayload struct {
	Type string `json:"type"`
	SDP  string `json:"sdp"`
}

func (ctl *SignalWSController) sendCandidate(c core.SignalConnection, ci webrtc.ICECandidateInit) {
	resp := struct {
		Type          string `json:"type"`
		Candidate     string `json:"candidate"`
		SDPMid        string `json:"sdpMid,omitempty"`
		SDPMLineIndex uint16 `json:"sdpMLineIndex,omitempty"`
	}{
		Type:      "candidate",
		Candidate: ci.Candidate,
	}
	if ci.SDPMid != nil {
		resp.SDPMid = *ci.SDPMid
	}
	if ci.SDPMLineIndex != nil {
		resp.SDPMLineIndex = *ci.SDPMLineIndex
	}
	ctl.sendJSON(c, resp)
}

// handleOffer sets up media for a member of a main room. Sessions still in
// a lobby get not_in_room.
func (ctl *SignalWSController) handleOffer(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	var p sdpPayload
	if !ctl.decode(conn, data, &p, "offer") {
		return
	}
	sess, ok := ctl.Orch.Registry.GetSession(sid)
	if !ok || !ctl.Orch.CanPublish(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("offer outside a room")
		ctl.sendError(conn, "not_in_room")
		return
	}
	if old := sess.Media(); old != nil && !old.IsClosed() {
		old.Close()
	}

	cfg := rtc.DefaultWebRTCConfig()
	wc, err := rtc.NewWebRTCConnection(cfg, sid)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("webrtc new pc")
		return
	}

	wc.OnICECandidate(func(ci webrtc.ICECandidateInit) {
		ctl.sendCandidate(conn, ci)
	})
	wc.OnNegotiationNeeded(func() { ctl.renegotiate(sid, conn, wc) })

	ctl.Orch.BindMediaHandlers(wc, sid)

	if err = wc.Start(context.Background()); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("webrtc start")
		wc.Close()
		return
	}

	offer := webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  p.SDP,
	}

	answer, err := wc.ApplyOfferAndCreateAnswer(offer)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("webrtc apply offer")
		wc.Close()
		return
	}

	sess.UpdateMedia(wc)
	ctl.sendJSON(conn, sdpPayload{Type: "answer", SDP: answer.SDP})
	ctl.Orch.OnMediaReady(sid)
}

// renegotiate offers the client the tracks added since the last exchange.
func (ctl *SignalWSController) renegotiate(sid core.SessionID, conn core.SignalConnection, mc core.MediaConnection) {
	offer, err := mc.CreateAndSetOffer()
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("renegotiate")
		return
	}
	ctl.sendJSON(conn, sdpPayload{Type: "offer", SDP: offer.SDP})
}

func (ctl *SignalWSController) handleAnswer(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	var p sdpPayload
	if !ctl.decode(conn, data, &p, "answer") {
		return
	}
	sess, ok := ctl.Orch.Registry.GetSession(sid)
	if !ok || sess.Media() == nil {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("answer: no media connection for")
		return
	}
	answer := webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: p.SDP}
	if err := sess.Media().ApplyAnswer(answer); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("apply answer")
	}
}

func (ctl *SignalWSController) handleCandidate(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	type candidatePayload struct {
		Type          string `json:"type"`
		Candidate     string `json:"candidate"`
		SDPMid        string `json:"sdpMid"`
		SDPMLineIndex uint16 `json:"sdpMLineIndex"`
	}
	var p candidatePayload
	if !ctl.decode(conn, data, &p, "candidate") {
		return
	}

	cand := webrtc.ICECandidateInit{
		Candidate: p.Candidate,
	}
	if p.SDPMid != "" {
		cand.SDPMid = &p.SDPMid
	}
	cand.SDPMLineIndex = &p.SDPMLineIndex

	sess, ok := ctl.Orch.Registry.GetSession(sid)
	if !ok {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("candidate: no session for")
		return
	}
	mc := sess.Media()
	if mc == nil {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("candidate: no media connection for")
		return
	}
	if err := mc.AddICECandidate(cand); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("add ice candidate")
	}
}

// handleMute pauses or resumes one room mate's audio for this session only.
func (ctl *SignalWSController) handleMute(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	var p struct {
		Type  string        `json:"type"`
		User  domain.UserID `json:"user"`
		Muted bool          `json:"muted"`
	}
	if !ctl.decode(conn, data, &p, "mute") {
		return
	}
	if err := ctl.Orch.MuteSpeaker(sid, p.User, p.Muted); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("mute")
		ctl.sendError(conn, errorCode(err))
		return
	}
	ctl.sendJSON(conn, struct {
		Type  string        `json:"type"`
		User  domain.UserID `json:"user"`
		Muted bool          `json:"muted"`
	}{Type: "muted", User: p.User, Muted: p.Muted})
}

package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/app/orch"
	"github.com/dkeye/VoiceLobby/internal/config"
	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// SessionUsernameKey is where the HTTP session keeps the chosen name.
const SessionUsernameKey = "username"

type SignalWSController struct {
	Orch *orch.Orchestrator

	knocks     *RoomRateLimiter
	readLimit  int64
	pingPeriod time.Duration
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:       o,
		knocks:     NewRoomRateLimiter(cfg.KnockLimit, cfg.KnockInterval),
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func (ctl *SignalWSController) BroadcastFrom(sid core.SessionID, v any) {
	for _, roomMate := range ctl.Orch.Registry.RoomMates(sid) {
		ctl.sendJSON(roomMate.Session.Signal(), v)
	}
}

func (ctl *SignalWSController) BroadcastRoom(roomID domain.RoomID, v any) {
	for _, snap := range ctl.Orch.Registry.MembersOfRoom(roomID) {
		ctl.sendJSON(snap.Session.Signal(), v)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	user, _ := ctl.Orch.Registry.GetOrCreateUser(sid)
	if name, ok := sessions.Default(c).Get(SessionUsernameKey).(string); ok && name != "" {
		if err := ctl.Orch.Registry.UpdateUsername(sid, name); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("stored username rejected")
		}
	}
	meta := domain.NewMember(user)
	sess := core.NewMemberSession(meta).UpdateSignal(conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.BindSignal(sid, sess, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, conn)
}

// disconnect runs once the read side of conn is gone. A newer connection of
// the same session is left alone.
func (ctl *SignalWSController) disconnect(sid core.SessionID, conn *WsSignalConn) {
	sess, ok := ctl.Orch.Registry.GetSession(sid)
	if !ok || sess.Signal() != core.SignalConnection(conn) {
		return
	}
	roomID, _, inRoom := ctl.Orch.Registry.RoomOf(sid)
	user, _ := ctl.Orch.Registry.User(sid)
	ctl.Orch.OnDisconnect(sid)
	if inRoom {
		ctl.BroadcastRoom(roomID, memberEvent{Type: "member_left", User: user})
	}
}

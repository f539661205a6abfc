package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/adapters/muc"
	"github.com/dkeye/VoiceLobby/internal/adapters/signal"
	"github.com/dkeye/VoiceLobby/internal/app/orch"
	"github.com/dkeye/VoiceLobby/internal/config"
	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("VoiceSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	ctrl := signal.NewSignalWSController(o, cfg)
	h := &handlers{orch: o, ctrl: ctrl}

	api := r.Group("/api")

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("sid", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	api.GET("/me", h.me)
	api.PUT("/me", h.rename)

	api.GET("/rooms", h.listRooms)
	api.POST("/rooms", h.createRoom)
	api.DELETE("/rooms/:id", h.destroyRoom)

	lobby := api.Group("/rooms/:id/lobby")
	lobby.GET("", h.occupants)
	lobby.PUT("", h.toggleLobby)
	lobby.POST("/:user/admit", h.admit)
	lobby.POST("/:user/deny", h.deny)

	return r
}

type handlers struct {
	orch *orch.Orchestrator
	ctrl *signal.SignalWSController
}

func sidOf(c *gin.Context) core.SessionID {
	return core.SessionID(c.GetString("client_token"))
}

func roomOf(c *gin.Context) domain.RoomID {
	return domain.RoomID(c.Param("id"))
}

func (h *handlers) me(c *gin.Context) {
	sid := sidOf(c)
	h.orch.Registry.GetOrCreateUser(sid)
	u, _ := h.orch.Registry.User(sid)
	c.JSON(http.StatusOK, u)
}

// rename stores the name in the cookie session as well, so the next
// signalling connection picks it up.
func (h *handlers) rename(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	sid := sidOf(c)
	if err := h.orch.Registry.UpdateUsername(sid, body.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_name"})
		return
	}
	sess := sessions.Default(c)
	sess.Set(signal.SessionUsernameKey, body.Name)
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
	}
	u, _ := h.orch.Registry.User(sid)
	c.JSON(http.StatusOK, u)
}

func (h *handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Rooms.List())
}

func (h *handlers) createRoom(c *gin.Context) {
	var body struct {
		Name  string `json:"name" binding:"required"`
		Lobby bool   `json:"lobby"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	room := h.orch.CreateRoom(sidOf(c), domain.RoomName(body.Name), body.Lobby)
	c.JSON(http.StatusCreated, room.Room())
}

func (h *handlers) destroyRoom(c *gin.Context) {
	if err := h.ctrl.DestroyRoom(sidOf(c), roomOf(c)); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) occupants(c *gin.Context) {
	occ, err := h.orch.LobbyOccupants(sidOf(c), roomOf(c))
	if err != nil {
		abort(c, err)
		return
	}
	if occ == nil {
		occ = []core.LobbyOccupant{}
	}
	c.JSON(http.StatusOK, occ)
}

func (h *handlers) toggleLobby(c *gin.Context) {
	var body struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if err := h.ctrl.ToggleLobby(sidOf(c), roomOf(c), *body.Enabled); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": roomOf(c), "lobby": *body.Enabled})
}

func (h *handlers) admit(c *gin.Context) {
	user := domain.UserID(c.Param("user"))
	if err := h.orch.AdmitFromLobby(sidOf(c), roomOf(c), user); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) deny(c *gin.Context) {
	user := domain.UserID(c.Param("user"))
	if err := h.orch.DenyFromLobby(sidOf(c), roomOf(c), user); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, orch.ErrRoomNotFound), errors.Is(err, muc.ErrOccupantNotFound):
		status = http.StatusNotFound
	case errors.Is(err, orch.ErrNotMember), errors.Is(err, orch.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, orch.ErrLobbyUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

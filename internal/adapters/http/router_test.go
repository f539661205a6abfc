package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/dkeye/VoiceLobby/internal/adapters/muc"
	"github.com/dkeye/VoiceLobby/internal/app"
	"github.com/dkeye/VoiceLobby/internal/app/orch"
	"github.com/dkeye/VoiceLobby/internal/config"
	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

type api struct {
	t    *testing.T
	r    *gin.Engine
	orch *orch.Orchestrator
}

func newAPI(t *testing.T) *api {
	gin.SetMode(gin.TestMode)
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   app.SimplePolicy{},
		Lobby:    muc.NewHub(),
		Addr:     app.Addressing{LobbyDomain: "lobby.voice", ConferenceDomain: "conference.voice"},
	}
	cfg := &config.Config{
		Mode:          "test",
		StaticPath:    t.TempDir(),
		Secret:        "test-secret",
		KnockLimit:    3,
		KnockInterval: 1,
	}
	return &api{t: t, r: SetupRouter(context.Background(), cfg, o), orch: o}
}

func (a *api) do(method, path, sid, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "ct", Value: sid})
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

// enter binds a session for sid and puts it in the room, as the signal
// channel would.
func (a *api) enter(sid core.SessionID, room domain.RoomID) {
	a.t.Helper()
	u, _ := a.orch.Registry.GetOrCreateUser(sid)
	a.orch.Registry.BindSignal(sid, core.NewMemberSession(domain.NewMember(u)), nil)
	if room == "" {
		return
	}
	if err := a.orch.Join(sid, room); err != nil {
		a.t.Fatal(err)
	}
}

func TestRoomsAPI(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/api/rooms", "", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("GET /api/rooms = %d %s", w.Code, w.Body)
	}
	if w.Header().Get("Set-Cookie") == "" {
		t.Error("client token cookie not issued")
	}

	w = a.do(http.MethodPost, "/api/rooms", "owner", `{"name":"standup","lobby":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api/rooms = %d %s", w.Code, w.Body)
	}
	var room domain.Room
	if err := json.Unmarshal(w.Body.Bytes(), &room); err != nil {
		t.Fatal(err)
	}
	want := domain.Room{ID: room.ID, Name: "standup", Owner: "owner", Lobby: true}
	if diff := cmp.Diff(want, room); diff != "" {
		t.Errorf("room (-want +got):\n%s", diff)
	}

	if w := a.do(http.MethodPost, "/api/rooms", "owner", `{"lobby":true}`); w.Code != http.StatusBadRequest {
		t.Errorf("POST without name = %d", w.Code)
	}
}

func TestLobbyModerationAPI(t *testing.T) {
	a := newAPI(t)
	a.enter("owner", "")
	room := a.orch.CreateRoom("owner", "standup", true).Room().ID
	lobbyPath := "/api/rooms/" + string(room) + "/lobby"

	if w := a.do(http.MethodGet, lobbyPath, "owner", ""); w.Code != http.StatusForbidden {
		t.Errorf("occupants before joining = %d", w.Code)
	}
	a.enter("owner", room)

	a.enter("guest", "")
	if _, err := a.orch.Knock("guest", room, nil, nil); err != nil {
		t.Fatal(err)
	}
	w := a.do(http.MethodGet, lobbyPath, "owner", "")
	var occ []core.LobbyOccupant
	if err := json.Unmarshal(w.Body.Bytes(), &occ); err != nil || len(occ) != 1 || occ[0].User != "guest" {
		t.Fatalf("occupants = %d %s", w.Code, w.Body)
	}

	if w := a.do(http.MethodPost, lobbyPath+"/guest/deny", "guest", ""); w.Code != http.StatusForbidden {
		t.Errorf("deny by waiting guest = %d", w.Code)
	}
	if w := a.do(http.MethodPost, lobbyPath+"/guest/deny", "owner", ""); w.Code != http.StatusNoContent {
		t.Errorf("deny = %d %s", w.Code, w.Body)
	}
	if w := a.do(http.MethodPost, lobbyPath+"/guest/admit", "owner", ""); w.Code != http.StatusNotFound {
		t.Errorf("admit after deny = %d", w.Code)
	}

	if w := a.do(http.MethodPut, lobbyPath, "owner", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("toggle without enabled = %d", w.Code)
	}
	if w := a.do(http.MethodPut, lobbyPath, "owner", `{"enabled":false}`); w.Code != http.StatusOK {
		t.Errorf("toggle = %d %s", w.Code, w.Body)
	}
	r, _ := a.orch.Rooms.GetRoom(room)
	if r.LobbyEnabled() {
		t.Error("lobby still enabled")
	}
}

func TestDestroyRoomAPI(t *testing.T) {
	a := newAPI(t)
	a.enter("owner", "")
	room := a.orch.CreateRoom("owner", "standup", true).Room().ID
	a.enter("owner", room)
	a.enter("member", room)

	path := "/api/rooms/" + string(room)
	if w := a.do(http.MethodDelete, path, "member", ""); w.Code != http.StatusForbidden {
		t.Errorf("destroy by member = %d", w.Code)
	}
	if w := a.do(http.MethodDelete, path, "owner", ""); w.Code != http.StatusNoContent {
		t.Errorf("destroy by owner = %d", w.Code)
	}
	if w := a.do(http.MethodDelete, path, "owner", ""); w.Code != http.StatusNotFound {
		t.Errorf("destroy twice = %d", w.Code)
	}
}

func TestMeAPI(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodPut, "/api/me", "s1", `{"name":"Zed"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /api/me = %d %s", w.Code, w.Body)
	}
	if !strings.Contains(strings.Join(w.Header().Values("Set-Cookie"), ";"), "VoiceSessions=") {
		t.Error("session cookie not saved")
	}

	w = a.do(http.MethodGet, "/api/me", "s1", "")
	var u domain.User
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(domain.User{ID: "s1", Username: "Zed"}, u); diff != "" {
		t.Errorf("me (-want +got):\n%s", diff)
	}

	if w := a.do(http.MethodPut, "/api/me", "s1", `{"name":"`+strings.Repeat("x", 40)+`"}`); w.Code != http.StatusBadRequest {
		t.Errorf("long name = %d", w.Code)
	}
}

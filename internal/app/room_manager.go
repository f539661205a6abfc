package app

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/VoiceLobby/internal/core"
	"github.com/dkeye/VoiceLobby/internal/domain"
)

const MaxRoomNameLen = 36

type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomManager() core.RoomManager {
	return &RoomManagerImpl{rooms: make(map[domain.RoomID]core.RoomService)}
}

func (f *RoomManagerImpl) CreateRoom(name domain.RoomName, owner domain.UserID, lobby bool) core.RoomService {
	if len(name) > MaxRoomNameLen {
		name = name[:MaxRoomNameLen]
	}
	room := core.NewRoomService(domain.Room{
		ID:    domain.RoomID(uuid.NewString()),
		Name:  name,
		Owner: owner,
		Lobby: lobby,
	})

	f.mu.Lock()
	f.rooms[room.Room().ID] = room
	f.mu.Unlock()

	log.Info().
		Str("module", "app.rooms").
		Str("room_id", string(room.Room().ID)).
		Str("name", string(name)).
		Bool("lobby", lobby).
		Msg("room created")
	return room
}

func (f *RoomManagerImpl) GetRoom(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{
			ID:          id,
			Name:        r.Room().Name,
			Lobby:       r.LobbyEnabled(),
			MemberCount: r.MemberCount(),
		})
	}
	f.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *RoomManagerImpl) StopRoom(id domain.RoomID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, id)
	log.Info().Str("module", "app.rooms").Str("room_id", string(id)).Msg("room stopped")
}

package match

import (
	"fmt"

	"github.com/google/uuid"

	"trunfo-server/internal/game"
)

// Room is one live match: two participants in seat order plus its state.
type Room struct {
	ID      string
	Players [2]string // Players[0] is seat 1
	State   *game.State
}

// Seat returns the seat (1 or 2) a participant occupies, or 0 if they are
// not in this room.
func (r *Room) Seat(participant string) int {
	switch participant {
	case r.Players[0]:
		return 1
	case r.Players[1]:
		return 2
	}
	return 0
}

// Registry owns every in-progress room. Rooms are removed when the match
// ends or a participant disconnects, so an id is never reused while live.
// Not safe for concurrent use on its own; the Core's mutex covers it.
type Registry struct {
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create stores a new room under a fresh id that cannot collide with any
// currently-live room.
func (g *Registry) Create(p1, p2 string, state *game.State) *Room {
	id := newRoomID()
	for g.rooms[id] != nil {
		id = newRoomID()
	}
	room := &Room{ID: id, Players: [2]string{p1, p2}, State: state}
	g.rooms[id] = room
	return room
}

func newRoomID() string {
	return fmt.Sprintf("room_%s", uuid.NewString()[:8])
}

func (g *Registry) Get(id string) (*Room, bool) {
	r, ok := g.rooms[id]
	return r, ok
}

func (g *Registry) Remove(id string) {
	delete(g.rooms, id)
}

// RoomsWith lists every room containing a participant. Normally zero or
// one, but the registry does not assume that.
func (g *Registry) RoomsWith(participant string) []*Room {
	var out []*Room
	for _, r := range g.rooms {
		if r.Seat(participant) != 0 {
			out = append(out, r)
		}
	}
	return out
}

func (g *Registry) Len() int { return len(g.rooms) }

func (g *Registry) forEach(f func(*Room)) {
	for _, r := range g.rooms {
		f(r)
	}
}

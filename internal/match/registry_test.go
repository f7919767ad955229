package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trunfo-server/internal/game"
)

func TestRegistry_CreateGetRemove(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("p1", "p2", &game.State{})

	assert.NotEmpty(t, room.ID)
	assert.Equal(t, 1, room.Seat("p1"))
	assert.Equal(t, 2, room.Seat("p2"))
	assert.Equal(t, 0, room.Seat("ghost"))

	got, ok := reg.Get(room.ID)
	require.True(t, ok)
	assert.Same(t, room, got)

	reg.Remove(room.ID)
	_, ok = reg.Get(room.ID)
	assert.False(t, ok)
	reg.Remove(room.ID) // idempotent
}

func TestRegistry_UniqueIDs(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		room := reg.Create("a", "b", &game.State{})
		assert.False(t, seen[room.ID])
		seen[room.ID] = true
	}
}

func TestRegistry_RoomsWith(t *testing.T) {
	reg := NewRegistry()
	r1 := reg.Create("p1", "p2", &game.State{})
	r2 := reg.Create("p3", "p1", &game.State{})
	reg.Create("p4", "p5", &game.State{})

	rooms := reg.RoomsWith("p1")
	require.Len(t, rooms, 2)
	ids := map[string]bool{rooms[0].ID: true, rooms[1].ID: true}
	assert.True(t, ids[r1.ID])
	assert.True(t, ids[r2.ID])

	assert.Empty(t, reg.RoomsWith("ghost"))
}

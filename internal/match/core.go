package match

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"trunfo-server/internal/catalog"
	"trunfo-server/internal/game"
	"trunfo-server/internal/stats"
)

// Scheduler defers work. The real one wraps time.AfterFunc; tests drive a
// manual one so stage timing is deterministic.
type Scheduler interface {
	After(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Notifier delivers match events back out to participants. Implemented by
// the websocket gateway.
type Notifier interface {
	MatchFound(participant, roomID string, seat int)
	GameState(roomID string, participants [2]string, snap game.Snapshot)
}

// Core is the matchmaking-and-session engine: the waiting queue, the room
// registry and the round sequencing. One mutex serializes every mutation —
// participant actions, disconnects and the scheduled resolution stages all
// run on a single logical timeline, so the per-room state never sees two
// writers. Scheduled callbacks re-fetch their room and stand down if it is
// gone or has moved on.
type Core struct {
	// Delays between the comparison being decided, the reveal hint, and
	// the authoritative card transfer. Exposed so tests can shrink them.
	RevealDelay  time.Duration
	ResolveDelay time.Duration

	mu       sync.Mutex
	queue    *Queue
	registry *Registry
	catalog  *catalog.Catalog
	rng      *rand.Rand
	sched    Scheduler
	notify   Notifier
	daily    *stats.Daily
	log      *logrus.Logger
}

func New(cat *catalog.Catalog, notify Notifier, daily *stats.Daily, log *logrus.Logger) *Core {
	return &Core{
		RevealDelay:  1500 * time.Millisecond,
		ResolveDelay: 2000 * time.Millisecond,
		queue:        NewQueue(),
		registry:     NewRegistry(),
		catalog:      cat,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		sched:        timerScheduler{},
		notify:       notify,
		daily:        daily,
		log:          log,
	}
}

// Join puts a participant in the waiting queue and pairs the two
// longest-waiting ones as soon as two are available.
func (c *Core) Join(participant string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queue.Enqueue(participant)
	p1, p2, ok := c.queue.TryPair()
	if !ok {
		c.log.Debugf("queue: %s waiting (len=%d)", participant, c.queue.Len())
		return
	}
	room := c.registry.Create(p1, p2, game.NewState(c.catalog.Cards, c.rng))
	c.log.WithField("room", room.ID).Infof("matchmaker: paired %s with %s", p1, p2)
	c.daily.MatchStarted()
	c.notify.MatchFound(p1, room.ID, 1)
	c.notify.MatchFound(p2, room.ID, 2)
	c.broadcast(room)
}

// ChooseAttribute handles a participant's attribute pick: the comparison is
// decided synchronously, then the reveal and the card transfer are applied
// by two scheduled stages. Stale or spoofed input is silently ignored.
func (c *Core) ChooseAttribute(participant, roomID, attr string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.Get(roomID)
	if !ok {
		return
	}
	seat := room.Seat(participant)
	if seat == 0 {
		return
	}
	rule, ok := c.catalog.Rule(attr)
	if !ok {
		return
	}
	if !room.State.ChooseAttribute(seat, attr, rule) {
		return
	}
	c.log.WithField("room", room.ID).Debugf("round: seat %d chose %q", seat, attr)
	c.broadcast(room)
	c.sched.After(c.RevealDelay, func() { c.revealStage(roomID) })
	c.sched.After(c.RevealDelay+c.ResolveDelay, func() { c.resolveStage(roomID) })
}

func (c *Core) revealStage(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.Get(roomID)
	if !ok || !room.State.MarkRevealed() {
		return
	}
	c.broadcast(room)
}

func (c *Core) resolveStage(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.Get(roomID)
	if !ok || !room.State.ResolveRound() {
		return
	}
	c.broadcast(room)
	if room.State.Phase == game.PhaseGameOver {
		c.log.WithField("room", room.ID).Infof("match over, winner=%v", seatOrDraw(room.State.Winner))
		c.daily.MatchFinished(room.State.Winner == nil)
		c.registry.Remove(room.ID)
	}
}

// Disconnect removes a participant from the queue and forfeits every live
// match they are in. It always wins over in-flight resolution stages: once
// the room is gone those callbacks find nothing to act on.
func (c *Core) Disconnect(participant string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queue.Remove(participant)
	for _, room := range c.registry.RoomsWith(participant) {
		if room.State.Forfeit(room.Seat(participant)) {
			c.log.WithField("room", room.ID).Infof("forfeit: %s disconnected, seat %d wins", participant, *room.State.Winner)
			c.daily.MatchForfeited()
			c.broadcast(room)
		}
		c.registry.Remove(room.ID)
	}
}

// broadcast sends the projected state to both participants. Caller holds
// the mutex.
func (c *Core) broadcast(room *Room) {
	c.notify.GameState(room.ID, room.Players, room.State.Snapshot())
}

func seatOrDraw(w *int) any {
	if w == nil {
		return "draw"
	}
	return *w
}

// RoomInfo is one entry of the debug room listing.
type RoomInfo struct {
	ID       string     `json:"id"`
	Players  [2]string  `json:"players"`
	Phase    game.Phase `json:"phase"`
	Seat     int        `json:"currentPlayer"`
	PotCount int        `json:"potCount"`
}

// DebugInfo reports the queue length and every live room.
func (c *Core) DebugInfo() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := make([]RoomInfo, 0, c.registry.Len())
	c.registry.forEach(func(r *Room) {
		list = append(list, RoomInfo{
			ID:       r.ID,
			Players:  r.Players,
			Phase:    r.State.Phase,
			Seat:     r.State.CurrentSeat,
			PotCount: len(r.State.Pot),
		})
	})
	return map[string]any{
		"queueLen": c.queue.Len(),
		"rooms":    list,
	}
}

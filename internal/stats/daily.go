package stats

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Counters are the per-day match totals. The day key is UTC.
type Counters struct {
	Date     string `json:"date"`
	Started  int    `json:"matchesStarted"`
	Finished int    `json:"matchesFinished"`
	Forfeits int    `json:"forfeits"`
	Draws    int    `json:"draws"`
}

// Daily keeps in-memory match counters for the current UTC day. Counters
// reset implicitly when the date rolls over.
type Daily struct {
	mu  sync.Mutex
	cur Counters
}

func NewDaily() *Daily {
	return &Daily{cur: Counters{Date: today()}}
}

func today() string { return time.Now().UTC().Format("2006-01-02") }

// roll resets the counters if the date changed. Caller holds the lock.
func (d *Daily) roll() {
	if t := today(); d.cur.Date != t {
		d.cur = Counters{Date: t}
	}
}

func (d *Daily) MatchStarted() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roll()
	d.cur.Started++
}

func (d *Daily) MatchFinished(draw bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roll()
	d.cur.Finished++
	if draw {
		d.cur.Draws++
	}
}

func (d *Daily) MatchForfeited() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roll()
	d.cur.Finished++
	d.cur.Forfeits++
}

// Today returns a copy of the current day's counters.
func (d *Daily) Today() Counters {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roll()
	return d.cur
}

// Handler serves the current counters as JSON.
func (d *Daily) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(d.Today())
	}
}

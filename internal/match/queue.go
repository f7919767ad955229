package match

// Queue is the FIFO of participants waiting for an opponent. Not safe for
// concurrent use on its own; the Core's mutex covers it.
type Queue struct {
	waiting []string
	queued  map[string]bool
}

func NewQueue() *Queue {
	return &Queue{queued: make(map[string]bool)}
}

// Enqueue appends a participant to the tail. Enqueuing someone already
// waiting is a no-op so a misbehaving client cannot corrupt the order.
func (q *Queue) Enqueue(participant string) {
	if q.queued[participant] {
		return
	}
	q.waiting = append(q.waiting, participant)
	q.queued[participant] = true
}

// TryPair removes and returns the two longest-waiting participants, oldest
// first, iff at least two are waiting.
func (q *Queue) TryPair() (p1, p2 string, ok bool) {
	if len(q.waiting) < 2 {
		return "", "", false
	}
	p1, p2 = q.waiting[0], q.waiting[1]
	q.waiting = q.waiting[2:]
	delete(q.queued, p1)
	delete(q.queued, p2)
	return p1, p2, true
}

// Remove deletes a participant if still waiting. Idempotent.
func (q *Queue) Remove(participant string) {
	if !q.queued[participant] {
		return
	}
	delete(q.queued, participant)
	for i, p := range q.waiting {
		if p == participant {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return
		}
	}
}

func (q *Queue) Len() int { return len(q.waiting) }

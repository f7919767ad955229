package game

import (
	"math/rand"

	"trunfo-server/internal/catalog"
)

// Phase is the coarse lifecycle of a match.
type Phase string

const (
	PhasePlaying   Phase = "playing"
	PhaseComparing Phase = "comparing"
	PhaseGameOver  Phase = "game_over"
)

// roundStage tracks where the current round sits inside the timed
// resolution protocol. The scheduled callbacks advance it; a callback that
// finds the stage already moved on (or the round gone) does nothing.
type roundStage int

const (
	stageIdle roundStage = iota
	stageSuspense
	stageRevealed
)

// Comparison records one attribute face-off. Winner is nil on a tie.
type Comparison struct {
	Attribute string
	Value1    float64
	Value2    float64
	Winner    *int
}

// State is the authoritative state of one match. It is pure data plus
// transition methods: no locks, no timers. The match core serializes all
// access to it.
type State struct {
	Phase       Phase
	CurrentSeat int
	Stocks      [2][]catalog.Card // Stocks[0] is seat 1; index 0 is the card in play
	Pot         []catalog.Card
	Comparison  *Comparison
	Reveal      bool
	Winner      *int // set in game_over; nil there means a draw

	stage roundStage
}

// NewState deals a fresh match: uniform shuffle of the deck, alternate
// split (even positions to seat 1, odd to seat 2), random starting seat.
func NewState(deck []catalog.Card, rng *rand.Rand) *State {
	shuffled := make([]catalog.Card, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s := &State{
		Phase:       PhasePlaying,
		CurrentSeat: 1 + rng.Intn(2),
	}
	for i, c := range shuffled {
		s.Stocks[i%2] = append(s.Stocks[i%2], c)
	}
	return s
}

// CardCount is the number of cards currently tracked by the match.
// It stays equal to the dealt deck size for the whole match.
func (s *State) CardCount() int {
	return len(s.Stocks[0]) + len(s.Stocks[1]) + len(s.Pot)
}

// ChooseAttribute runs the synchronous half of a round: it compares the
// top cards on the named attribute and moves the match into comparing.
// Stale input (wrong phase, wrong seat, empty stock) is a no-op returning
// false; the timed half must only be scheduled on true.
func (s *State) ChooseAttribute(seat int, attr string, rule catalog.AttributeRule) bool {
	if s.Phase != PhasePlaying || seat != s.CurrentSeat {
		return false
	}
	if len(s.Stocks[0]) == 0 || len(s.Stocks[1]) == 0 {
		return false
	}
	v1 := s.Stocks[0][0].Attrs[attr]
	v2 := s.Stocks[1][0].Attrs[attr]
	var winner *int
	switch {
	case v1 == v2:
		// tie: nobody wins, pot will grow
	case (rule.Direction == catalog.Max) == (v1 > v2):
		one := 1
		winner = &one
	default:
		two := 2
		winner = &two
	}
	s.Phase = PhaseComparing
	s.Comparison = &Comparison{Attribute: attr, Value1: v1, Value2: v2, Winner: winner}
	s.stage = stageSuspense
	return true
}

// MarkRevealed flips the reveal hint on. Valid only between the two timed
// stages of a round; anything else is a stale callback and a no-op.
func (s *State) MarkRevealed() bool {
	if s.Phase != PhaseComparing || s.stage != stageSuspense {
		return false
	}
	s.stage = stageRevealed
	s.Reveal = true
	return true
}

// ResolveRound applies the authoritative outcome of the current
// comparison: the played cards (plus any accumulated pot) go to the
// winner's stock tail, or into the pot on a tie. Returns false on a stale
// callback.
func (s *State) ResolveRound() bool {
	if s.Phase != PhaseComparing || s.stage != stageRevealed || s.Comparison == nil {
		return false
	}
	played1, played2 := s.Stocks[0][0], s.Stocks[1][0]
	s.Stocks[0] = s.Stocks[0][1:]
	s.Stocks[1] = s.Stocks[1][1:]
	pile := append([]catalog.Card{played1, played2}, s.Pot...)
	s.Pot = nil

	if w := s.Comparison.Winner; w != nil {
		s.Stocks[*w-1] = append(s.Stocks[*w-1], pile...)
		s.CurrentSeat = *w
	} else {
		s.Pot = pile
	}

	if len(s.Stocks[0]) == 0 || len(s.Stocks[1]) == 0 {
		s.Phase = PhaseGameOver
		switch {
		case len(s.Stocks[0]) > len(s.Stocks[1]):
			one := 1
			s.Winner = &one
		case len(s.Stocks[1]) > len(s.Stocks[0]):
			two := 2
			s.Winner = &two
		default:
			// both empty at once: a draw
			s.Winner = nil
		}
	} else {
		s.Phase = PhasePlaying
	}

	s.Comparison = nil
	s.Reveal = false
	s.stage = stageIdle
	return true
}

// Forfeit ends the match in favour of the seat that stayed. No-op if the
// match is already over.
func (s *State) Forfeit(leaverSeat int) bool {
	if s.Phase == PhaseGameOver {
		return false
	}
	winner := 3 - leaverSeat
	s.Phase = PhaseGameOver
	s.Winner = &winner
	s.Comparison = nil
	s.Reveal = false
	s.stage = stageIdle
	return true
}

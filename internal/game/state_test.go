package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trunfo-server/internal/catalog"
)

var (
	ruleMax = catalog.AttributeRule{Direction: catalog.Max}
	ruleMin = catalog.AttributeRule{Direction: catalog.Min}
)

func card(id string, speed float64) catalog.Card {
	return catalog.Card{ID: id, Name: id, Attrs: map[string]float64{"speed": speed}}
}

func deck(speeds ...float64) []catalog.Card {
	out := make([]catalog.Card, len(speeds))
	for i, v := range speeds {
		out[i] = card(fmt.Sprintf("c%d", i), v)
	}
	return out
}

// playRound drives one full round through the sub-stage sequence.
func playRound(t *testing.T, s *State, attr string, rule catalog.AttributeRule) {
	t.Helper()
	require.True(t, s.ChooseAttribute(s.CurrentSeat, attr, rule))
	require.True(t, s.MarkRevealed())
	require.True(t, s.ResolveRound())
}

func TestNewState_Deal(t *testing.T) {
	d := deck(1, 2, 3, 4, 5, 6, 7)
	s := NewState(d, rand.New(rand.NewSource(42)))

	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Contains(t, []int{1, 2}, s.CurrentSeat)
	assert.Equal(t, len(d), s.CardCount())
	// odd deck: stocks differ by at most one, seat 1 gets the extra card
	assert.Equal(t, 4, len(s.Stocks[0]))
	assert.Equal(t, 3, len(s.Stocks[1]))
	assert.Empty(t, s.Pot)
	assert.Nil(t, s.Comparison)
	assert.False(t, s.Reveal)
	assert.Nil(t, s.Winner)
}

func TestNewState_SeededDealIsReproducible(t *testing.T) {
	d := deck(1, 2, 3, 4, 5, 6)
	a := NewState(d, rand.New(rand.NewSource(7)))
	b := NewState(d, rand.New(rand.NewSource(7)))
	assert.Equal(t, a.Stocks, b.Stocks)
	assert.Equal(t, a.CurrentSeat, b.CurrentSeat)
}

func TestChooseAttribute_Directions(t *testing.T) {
	t.Run("max: larger value wins", func(t *testing.T) {
		s := &State{Phase: PhasePlaying, CurrentSeat: 1,
			Stocks: [2][]catalog.Card{{card("a", 5)}, {card("b", 3)}}}
		require.True(t, s.ChooseAttribute(1, "speed", ruleMax))
		assert.Equal(t, PhaseComparing, s.Phase)
		require.NotNil(t, s.Comparison)
		assert.Equal(t, 5.0, s.Comparison.Value1)
		assert.Equal(t, 3.0, s.Comparison.Value2)
		require.NotNil(t, s.Comparison.Winner)
		assert.Equal(t, 1, *s.Comparison.Winner)
	})

	t.Run("min: smaller value wins", func(t *testing.T) {
		s := &State{Phase: PhasePlaying, CurrentSeat: 1,
			Stocks: [2][]catalog.Card{{card("a", 5)}, {card("b", 3)}}}
		require.True(t, s.ChooseAttribute(1, "speed", ruleMin))
		require.NotNil(t, s.Comparison.Winner)
		assert.Equal(t, 2, *s.Comparison.Winner)
	})

	t.Run("equal values tie", func(t *testing.T) {
		s := &State{Phase: PhasePlaying, CurrentSeat: 2,
			Stocks: [2][]catalog.Card{{card("a", 4)}, {card("b", 4)}}}
		require.True(t, s.ChooseAttribute(2, "speed", ruleMax))
		assert.Nil(t, s.Comparison.Winner)
		assert.Equal(t, 2, s.CurrentSeat)
	})
}

func TestChooseAttribute_StaleInputIsNoop(t *testing.T) {
	s := &State{Phase: PhasePlaying, CurrentSeat: 1,
		Stocks: [2][]catalog.Card{{card("a", 5)}, {card("b", 3)}}}

	// wrong seat
	assert.False(t, s.ChooseAttribute(2, "speed", ruleMax))
	assert.Equal(t, PhasePlaying, s.Phase)

	// wrong phase
	require.True(t, s.ChooseAttribute(1, "speed", ruleMax))
	assert.False(t, s.ChooseAttribute(1, "speed", ruleMax))

	// empty stock
	empty := &State{Phase: PhasePlaying, CurrentSeat: 1,
		Stocks: [2][]catalog.Card{{card("a", 5)}, nil}}
	assert.False(t, empty.ChooseAttribute(1, "speed", ruleMax))
}

func TestResolveRound_DecisiveTransfer(t *testing.T) {
	s := &State{Phase: PhasePlaying, CurrentSeat: 2,
		Stocks: [2][]catalog.Card{{card("hi", 5)}, {card("lo", 3)}}}

	playRound(t, s, "speed", ruleMax)

	assert.Equal(t, PhaseGameOver, s.Phase)
	require.NotNil(t, s.Winner)
	assert.Equal(t, 1, *s.Winner)
	assert.Len(t, s.Stocks[0], 2)
	assert.Empty(t, s.Stocks[1])
	// winner's tail order is [own played card, opponent's, ...pot]
	assert.Equal(t, "hi", s.Stocks[0][0].ID)
	assert.Equal(t, "lo", s.Stocks[0][1].ID)
	assert.Nil(t, s.Comparison)
	assert.False(t, s.Reveal)
	assert.Equal(t, 2, s.CardCount())
}

func TestResolveRound_WinnerTakesTurn(t *testing.T) {
	s := &State{Phase: PhasePlaying, CurrentSeat: 1, Stocks: [2][]catalog.Card{
		{card("a1", 1), card("a2", 9)},
		{card("b1", 6), card("b2", 2)},
	}}

	playRound(t, s, "speed", ruleMax)

	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, 2, s.CurrentSeat)
	assert.Len(t, s.Stocks[1], 3)
	assert.Equal(t, 4, s.CardCount())
}

func TestResolveRound_TiesAccumulatePot(t *testing.T) {
	// two tied rounds, then a decisive one that claims everything
	s := &State{Phase: PhasePlaying, CurrentSeat: 2, Stocks: [2][]catalog.Card{
		{card("a1", 4), card("a2", 7), card("a3", 9)},
		{card("b1", 4), card("b2", 7), card("b3", 1)},
	}}

	playRound(t, s, "speed", ruleMax)
	assert.Len(t, s.Pot, 2)
	assert.Equal(t, 2, s.CurrentSeat)

	playRound(t, s, "speed", ruleMax)
	assert.Len(t, s.Pot, 4)
	assert.Equal(t, 2, s.CurrentSeat)
	assert.Equal(t, 6, s.CardCount())

	playRound(t, s, "speed", ruleMax)
	assert.Equal(t, PhaseGameOver, s.Phase)
	require.NotNil(t, s.Winner)
	assert.Equal(t, 1, *s.Winner)
	assert.Len(t, s.Stocks[0], 6)
	assert.Empty(t, s.Pot)
}

func TestResolveRound_SimultaneousExhaustionIsDraw(t *testing.T) {
	s := &State{Phase: PhasePlaying, CurrentSeat: 1,
		Stocks: [2][]catalog.Card{{card("a", 4)}, {card("b", 4)}}}

	playRound(t, s, "speed", ruleMax)

	assert.Equal(t, PhaseGameOver, s.Phase)
	assert.Nil(t, s.Winner)
	assert.Len(t, s.Pot, 2)
	assert.Equal(t, 2, s.CardCount())
}

func TestStageCallbacksAreOrdered(t *testing.T) {
	s := &State{Phase: PhasePlaying, CurrentSeat: 1,
		Stocks: [2][]catalog.Card{{card("a", 5), card("x", 1)}, {card("b", 3), card("y", 2)}}}

	// resolving before the reveal stage is a stale callback
	assert.False(t, s.ResolveRound())
	require.True(t, s.ChooseAttribute(1, "speed", ruleMax))
	assert.False(t, s.ResolveRound())
	require.True(t, s.MarkRevealed())
	assert.True(t, s.Reveal)
	assert.False(t, s.MarkRevealed())
	require.True(t, s.ResolveRound())
	assert.False(t, s.Reveal)
}

func TestForfeit(t *testing.T) {
	s := NewState(deck(1, 2, 3, 4), rand.New(rand.NewSource(1)))
	require.True(t, s.Forfeit(1))
	assert.Equal(t, PhaseGameOver, s.Phase)
	require.NotNil(t, s.Winner)
	assert.Equal(t, 2, *s.Winner)

	// already over
	assert.False(t, s.Forfeit(2))
	assert.Equal(t, 2, *s.Winner)
}

func TestDeckConservationOverFullMatch(t *testing.T) {
	d := deck(3, 1, 4, 1, 5, 9, 2, 6, 5, 3)
	s := NewState(d, rand.New(rand.NewSource(99)))
	for rounds := 0; s.Phase != PhaseGameOver && rounds < 1000; rounds++ {
		playRound(t, s, "speed", ruleMax)
		assert.Equal(t, len(d), s.CardCount())
	}
}

func TestSnapshot_Projection(t *testing.T) {
	s := &State{Phase: PhasePlaying, CurrentSeat: 1, Stocks: [2][]catalog.Card{
		{card("a1", 5), card("a2", 2)},
		{card("b1", 3)},
	}, Pot: []catalog.Card{card("p", 1)}}

	snap := s.Snapshot()
	assert.Equal(t, PhasePlaying, snap.GamePhase)
	assert.Equal(t, 1, snap.CurrentPlayer)
	require.NotNil(t, snap.Player1Card)
	assert.Equal(t, "a1", snap.Player1Card.ID)
	require.NotNil(t, snap.Player2Card)
	assert.Equal(t, "b1", snap.Player2Card.ID)
	assert.Equal(t, 2, snap.Player1CardCount)
	assert.Equal(t, 1, snap.Player2CardCount)
	assert.Equal(t, 1, snap.PotCount)
	assert.Nil(t, snap.CurrentComparison)
	assert.Nil(t, snap.RoundWinner)
	assert.False(t, snap.ShowResults)

	require.True(t, s.ChooseAttribute(1, "speed", ruleMax))
	require.True(t, s.MarkRevealed())
	snap = s.Snapshot()
	require.NotNil(t, snap.CurrentComparison)
	assert.Equal(t, "speed", snap.CurrentComparison.Attribute)
	require.NotNil(t, snap.RoundWinner)
	assert.Equal(t, 1, *snap.RoundWinner)
	assert.True(t, snap.ShowResults)
}

func TestSnapshot_EmptyStockHasNoCard(t *testing.T) {
	s := &State{Phase: PhaseGameOver, CurrentSeat: 1,
		Stocks: [2][]catalog.Card{{card("a", 5)}, nil}}
	one := 1
	s.Winner = &one

	snap := s.Snapshot()
	assert.Nil(t, snap.Player2Card)
	require.NotNil(t, snap.GameWinner)
	assert.Equal(t, 1, *snap.GameWinner)
}

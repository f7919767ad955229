package game

import "trunfo-server/internal/catalog"

// Snapshot is the client-facing projection of a match. It never carries a
// full stock: each side sees only the two face-up cards and counts.
type Snapshot struct {
	GamePhase         Phase           `json:"gamePhase"`
	CurrentPlayer     int             `json:"currentPlayer"`
	Player1Card       *catalog.Card   `json:"player1Card"`
	Player2Card       *catalog.Card   `json:"player2Card"`
	Player1CardCount  int             `json:"player1CardCount"`
	Player2CardCount  int             `json:"player2CardCount"`
	PotCount          int             `json:"potCount"`
	CurrentComparison *ComparisonView `json:"currentComparison"`
	RoundWinner       *int            `json:"roundWinner"`
	GameWinner        *int            `json:"gameWinner"`
	ShowResults       bool            `json:"showResults"`
}

// ComparisonView is the wire form of a Comparison.
type ComparisonView struct {
	Attribute    string  `json:"attribute"`
	Player1Value float64 `json:"player1Value"`
	Player2Value float64 `json:"player2Value"`
	Winner       *int    `json:"winner"`
}

// Snapshot projects the state for broadcast.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		GamePhase:        s.Phase,
		CurrentPlayer:    s.CurrentSeat,
		Player1CardCount: len(s.Stocks[0]),
		Player2CardCount: len(s.Stocks[1]),
		PotCount:         len(s.Pot),
		GameWinner:       s.Winner,
		ShowResults:      s.Reveal,
	}
	if len(s.Stocks[0]) > 0 {
		c := s.Stocks[0][0]
		snap.Player1Card = &c
	}
	if len(s.Stocks[1]) > 0 {
		c := s.Stocks[1][0]
		snap.Player2Card = &c
	}
	if s.Comparison != nil {
		snap.CurrentComparison = &ComparisonView{
			Attribute:    s.Comparison.Attribute,
			Player1Value: s.Comparison.Value1,
			Player2Value: s.Comparison.Value2,
			Winner:       s.Comparison.Winner,
		}
		snap.RoundWinner = s.Comparison.Winner
	}
	return snap
}

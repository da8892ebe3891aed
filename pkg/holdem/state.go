package holdem

import (
	"pokerroom-server/pkg/deck"
)

// State is the public view of a hand. It never contains hole cards.
type State struct {
	Pot             int         `json:"pot"`
	CommunityCards  deck.Hand   `json:"communityCards"`
	CurrentTurnSeat int         `json:"currentTurnSeat"`
	Stage           Stage       `json:"stage"`
	CurrentBet      int         `json:"currentBet"`
	Seats           []*SeatInfo `json:"seats"`
	Finished        bool        `json:"finished"`
	Results         []*Result   `json:"results,omitempty"`
}

// SeatInfo is the public per-seat view of a hand
type SeatInfo struct {
	SeatIndex   int  `json:"seatIndex"`
	Bet         int  `json:"bet"`
	Contributed int  `json:"contributed"`
	Folded      bool `json:"folded"`
	AllIn       bool `json:"allIn"`
}

// State returns the public state of the hand
func (g *Game) State() *State {
	seats := make([]*SeatInfo, 0, NumSeats)
	for _, seat := range g.seatsInHand() {
		seats = append(seats, &SeatInfo{
			SeatIndex:   seat.ID(),
			Bet:         seat.bet,
			Contributed: seat.contributed,
			Folded:      seat.folded,
			AllIn:       seat.allIn,
		})
	}

	return &State{
		Pot:             g.pot,
		CommunityCards:  g.community.Clone(),
		CurrentTurnSeat: g.currentTurnSeat,
		Stage:           g.stage,
		CurrentBet:      g.currentBet,
		Seats:           seats,
		Finished:        g.finished,
		Results:         g.Results(),
	}
}

// HoleCards is the private per-seat view: only that seat's own two cards.
// Returns nil if the seat is not in the hand.
func (g *Game) HoleCards(seatIndex int) deck.Hand {
	if seatIndex < 0 || seatIndex >= NumSeats {
		return nil
	}

	seat := g.seats[seatIndex]
	if seat == nil {
		return nil
	}

	return seat.holeCards.Clone()
}

// CurrentTurn returns the seat index on the clock, or -1 if no seat is
func (g *Game) CurrentTurn() int {
	return g.currentTurnSeat
}

// SeatFolded returns true if the seat is in the hand and has folded
func (g *Game) SeatFolded(seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= NumSeats {
		return false
	}

	seat := g.seats[seatIndex]
	return seat != nil && seat.folded
}

// SeatAllIn returns true if the seat is in the hand and is all-in
func (g *Game) SeatAllIn(seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= NumSeats {
		return false
	}

	seat := g.seats[seatIndex]
	return seat != nil && seat.allIn
}

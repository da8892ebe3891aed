package holdem

import (
	"pokerroom-server/pkg/deck"
)

// Participant is the mutable view of a seated player the engine borrows for
// the duration of one hand. The room keeps ownership of seat identity and
// chips; the engine only reads and adjusts the chip count. All hand-scoped
// state (hole cards, folds, bets) lives in the engine and is discarded with it.
type Participant interface {
	// ID returns the seat index, 0 through NumSeats-1
	ID() int

	// Name returns the display name used in log messages
	Name() string

	// Chips returns the remaining chip stack
	Chips() int

	// AdjustChips adds the amount (negative for bets) to the chip stack
	AdjustChips(amount int)
}

// seatState is the engine's per-seat hand state
type seatState struct {
	Participant

	folded    bool
	allIn     bool
	holeCards deck.Hand

	// bet is the amount wagered in the current stage
	bet int
	// contributed is the cumulative amount wagered across the whole hand
	contributed int
}

// canAct returns true if the seat can fold, check, call, or raise
func (s *seatState) canAct() bool {
	return !s.folded && !s.allIn
}

func (s *seatState) newStage() {
	s.bet = 0
}

// Package holdem implements a server-authoritative no-limit Texas Hold'em
// hand: blind posting, the four betting rounds, turn rotation, all-in
// side pots, and showdown settlement.
package holdem

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"pokerroom-server/pkg/deck"
	"pokerroom-server/pkg/holdem/action"
	"pokerroom-server/pkg/protocol"
)

// NumSeats is the number of seats at the table
const NumSeats = 9

// noSeat marks the absence of a seat index
const noSeat = -1

// ErrHandOver is an error when an action is attempted after the hand ended
var ErrHandOver = errors.New("hand is over")

// ErrNotYourTurn is an error when a seat acts out of turn
var ErrNotYourTurn = errors.New("it is not your turn")

// ErrCannotCheck is an error when a check is attempted with an active bet
var ErrCannotCheck = errors.New("you cannot check with an active bet")

// Comparator picks the co-winners out of a set of 7-card showdown hands,
// keyed by seat index. It is the engine's only knowledge of hand ranking.
type Comparator interface {
	Winners(hands map[int]deck.Hand) ([]int, error)
}

// Options configures the blinds for a hand
type Options struct {
	SmallBlind int
	BigBlind   int
}

// Game is a single hand of Texas Hold'em. It must only be used from a single
// goroutine; the room's session run loop serializes all access.
type Game struct {
	logger     logrus.FieldLogger
	options    Options
	deck       *deck.Deck
	comparator Comparator

	seats      [NumSeats]*seatState
	dealerSeat int

	community       deck.Hand
	pot             int
	stage           Stage
	currentBet      int
	currentTurnSeat int
	lastRaiserSeat  int
	actionCounter   int

	finished bool
	results  []*Result

	logChan chan []*protocol.LogMessage
}

// Result records a seat's winnings at settlement
type Result struct {
	SeatIndex int `json:"seatIndex"`
	Winnings  int `json:"winnings"`
}

// NewGame returns a new hand for the given participants. The participants
// must be the funded, occupied seats; dealerSeat is the seat holding the
// dealer button after rotation.
func NewGame(logger logrus.FieldLogger, participants []Participant, dealerSeat int, opts Options, comparator Comparator) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if len(participants) < 2 {
		return nil, errors.New("there must be at least two seats with chips")
	}

	if dealerSeat < 0 || dealerSeat >= NumSeats {
		return nil, fmt.Errorf("dealer seat %d is out of range", dealerSeat)
	}

	if comparator == nil {
		return nil, errors.New("comparator is required")
	}

	g := &Game{
		logger:          logger,
		options:         opts,
		deck:            deck.New(),
		comparator:      comparator,
		dealerSeat:      dealerSeat,
		community:       make(deck.Hand, 0, 5),
		stage:           StagePreFlop,
		currentTurnSeat: noSeat,
		lastRaiserSeat:  noSeat,
		logChan:         make(chan []*protocol.LogMessage, 256),
	}

	for _, p := range participants {
		index := p.ID()
		if index < 0 || index >= NumSeats {
			return nil, fmt.Errorf("seat index %d is out of range", index)
		}

		if g.seats[index] != nil {
			return nil, fmt.Errorf("seat %d is specified twice", index)
		}

		if p.Chips() <= 0 {
			return nil, fmt.Errorf("seat %d has no chips", index)
		}

		g.seats[index] = &seatState{Participant: p}
	}

	return g, nil
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be > 0")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be >= small blind")
	}

	return nil
}

// Start shuffles and deals the hand: blinds are posted, every seat gets two
// hole cards and the seat after the big blind is first to act.
func (g *Game) Start() error {
	g.deck.Shuffle()

	if err := g.postBlinds(); err != nil {
		return err
	}

	if err := g.dealHoleCards(); err != nil {
		return err
	}

	g.sendLogMessage("New hand dealt (blinds ${%d}/${%d})", g.options.SmallBlind, g.options.BigBlind)

	// the blinds alone can put every seat all-in, leaving nobody on the
	// clock; run the board out immediately
	if g.canActCount() == 0 {
		g.finishAllIn()
	}

	return nil
}

// postBlinds forces the two seats after the dealer to open the pot. A blind
// that exceeds the seat's stack puts that seat all-in for less, but the
// current bet is still the nominal big blind.
func (g *Game) postBlinds() error {
	smallBlind := g.nextSeat(g.dealerSeat)
	if smallBlind == noSeat {
		return errors.New("no seat can post the small blind")
	}

	g.wager(smallBlind, g.options.SmallBlind)

	bigBlind := g.nextSeat(smallBlind)
	if bigBlind == noSeat {
		return errors.New("no seat can post the big blind")
	}

	g.wager(bigBlind, g.options.BigBlind)

	g.currentBet = g.options.BigBlind
	g.lastRaiserSeat = bigBlind
	g.currentTurnSeat = g.nextSeat(bigBlind)

	return nil
}

func (g *Game) dealHoleCards() error {
	for _, seat := range g.seatsInHand() {
		for i := 0; i < 2; i++ {
			card, err := g.deck.Draw()
			if err != nil {
				return err
			}

			seat.holeCards.AddCard(card)
		}
	}

	return nil
}

// wager moves chips from the seat into the pot, capped at the seat's stack.
// The amount is incremental on top of anything the seat already wagered.
func (g *Game) wager(seatIndex, amount int) {
	seat := g.seats[seatIndex]
	if seat == nil {
		return
	}

	if amount >= seat.Chips() {
		amount = seat.Chips()
		seat.allIn = true
	}

	seat.AdjustChips(-1 * amount)
	seat.bet += amount
	seat.contributed += amount
	g.pot += amount
}

// Action performs the seat's action. A non-nil error means the action was
// rejected and no state changed.
func (g *Game) Action(seatIndex int, act action.Action, amount int) error {
	if g.finished {
		return ErrHandOver
	}

	if seatIndex != g.currentTurnSeat {
		return ErrNotYourTurn
	}

	seat := g.seats[seatIndex]
	if seat == nil || !seat.canAct() {
		return ErrNotYourTurn
	}

	logAmount := amount

	switch act {
	case action.Fold:
		seat.folded = true
	case action.Check:
		if seat.bet != g.currentBet {
			return ErrCannotCheck
		}
	case action.Call:
		callAmount := g.currentBet - seat.bet
		if callAmount <= 0 {
			// nothing owed: the call is accepted as a check
			act = action.Check
			break
		}

		g.wager(seatIndex, callAmount)
		logAmount = seat.bet
	case action.Raise:
		// amount is the new total stage wager ("raise to")
		if amount <= g.currentBet {
			return fmt.Errorf("raise must be greater than the current bet of ${%d}", g.currentBet)
		}

		needed := amount - seat.bet
		if needed > seat.Chips() {
			return fmt.Errorf("raise of ${%d} exceeds your remaining chips", amount)
		}

		g.wager(seatIndex, needed)
		g.currentBet = amount
		g.lastRaiserSeat = seatIndex
	default:
		return fmt.Errorf("unknown action: %s", string(act))
	}

	g.actionCounter++
	g.sendLogMessage("%s %s", seat.Name(), act.LogMessage(logAmount))
	g.advanceTurn()

	return nil
}

// AutoAct performs a forced action on the seat currently on the clock:
// a check when legal, otherwise a fold. Used by the per-turn deadline.
func (g *Game) AutoAct() (action.Action, error) {
	seatIndex := g.currentTurnSeat
	if g.finished || seatIndex == noSeat {
		return "", ErrHandOver
	}

	act := action.Fold
	if g.seats[seatIndex].bet == g.currentBet {
		act = action.Check
	}

	return act, g.Action(seatIndex, act, 0)
}

// advanceTurn decides what happens after every legal action, in order:
// run out the board if nobody can act, settle uncontested if only one seat
// remains, advance the stage if betting converged, otherwise move the turn.
func (g *Game) advanceTurn() {
	if g.canActCount() == 0 {
		g.finishAllIn()
		return
	}

	if g.remainingCount() == 1 {
		g.settleUncontested()
		return
	}

	if g.actionCounter >= g.canActCount() && g.betsMatched() {
		g.advanceStage()
		return
	}

	g.currentTurnSeat = g.nextSeat(g.currentTurnSeat)
}

// betsMatched returns true when every seat that can still act has wagered
// exactly the current bet this stage. An unmatched raise always leaves at
// least one such seat below the current bet.
func (g *Game) betsMatched() bool {
	for _, seat := range g.seatsInHand() {
		if seat.canAct() && seat.bet != g.currentBet {
			return false
		}
	}

	return true
}

// advanceStage completes a betting round: stage-scoped state resets, the
// next community cards are dealt and action resumes after the dealer.
// Completing the river goes to showdown instead.
func (g *Game) advanceStage() {
	if g.stage == StageRiver {
		g.showdown()
		return
	}

	g.currentBet = 0
	g.lastRaiserSeat = noSeat
	g.actionCounter = 0
	for _, seat := range g.seatsInHand() {
		seat.newStage()
	}

	g.dealCommunityCards(g.stage)
	g.stage++
	g.currentTurnSeat = g.nextSeat(g.dealerSeat)
}

// finishAllIn deals out the rest of the board with no further betting, then
// goes to showdown. Runs as a loop over the remaining stages.
func (g *Game) finishAllIn() {
	g.currentTurnSeat = noSeat

	for g.stage < StageRiver {
		g.dealCommunityCards(g.stage)
		g.stage++
	}

	g.showdown()
}

// dealCommunityCards deals the street that follows the given stage:
// three cards after pre-flop, then one for the turn and one for the river
func (g *Game) dealCommunityCards(after Stage) {
	count := 1
	if after == StagePreFlop {
		count = 3
	}

	for i := 0; i < count; i++ {
		card, err := g.deck.Draw()
		if err != nil {
			// a 52-card deck always covers 9 seats plus the board
			panic(fmt.Sprintf("deck exhausted dealing community cards: %v", err))
		}

		g.community.AddCard(card)
	}
}

// nextSeat scans clockwise from the given seat for the next one that can
// still act, skipping empty, folded, and all-in seats. Returns noSeat after
// a full wrap with no match.
func (g *Game) nextSeat(from int) int {
	for i := 1; i <= NumSeats; i++ {
		index := (from + i) % NumSeats
		if seat := g.seats[index]; seat != nil && seat.canAct() {
			return index
		}
	}

	return noSeat
}

// seatsInHand returns the seats dealt into this hand in clockwise seat order
func (g *Game) seatsInHand() []*seatState {
	seats := make([]*seatState, 0, NumSeats)
	for _, seat := range g.seats {
		if seat != nil {
			seats = append(seats, seat)
		}
	}

	return seats
}

func (g *Game) canActCount() int {
	count := 0
	for _, seat := range g.seatsInHand() {
		if seat.canAct() {
			count++
		}
	}

	return count
}

// remainingCount is the number of seats still in contention for the pot
func (g *Game) remainingCount() int {
	count := 0
	for _, seat := range g.seatsInHand() {
		if !seat.folded {
			count++
		}
	}

	return count
}

// Finished returns true once the pot has been settled
func (g *Game) Finished() bool {
	return g.finished
}

// Results returns the settlement results, or nil if the hand is still going
func (g *Game) Results() []*Result {
	if !g.finished {
		return nil
	}

	return g.results
}

// Pot returns the total amount wagered so far
func (g *Game) Pot() int {
	return g.pot
}

// LogChan returns a channel log messages are sent on
func (g *Game) LogChan() <-chan []*protocol.LogMessage {
	return g.logChan
}

func (g *Game) sendLogMessage(format string, a ...interface{}) {
	msg := protocol.NewLogMessage(format, a...)

	select {
	case g.logChan <- []*protocol.LogMessage{msg}:
	default:
		g.logger.Warn("log channel is full")
	}
}

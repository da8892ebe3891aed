package holdem

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"pokerroom-server/pkg/deck"
	"pokerroom-server/pkg/holdem/action"
)

type testParticipant struct {
	id    int
	chips int
}

func (t *testParticipant) ID() int {
	return t.id
}

func (t *testParticipant) Name() string {
	return fmt.Sprintf("player-%d", t.id)
}

func (t *testParticipant) Chips() int {
	return t.chips
}

func (t *testParticipant) AdjustChips(amount int) {
	t.chips += amount
}

func setupParticipants(chips ...int) []Participant {
	p := make([]Participant, len(chips))
	for i, c := range chips {
		p[i] = &testParticipant{
			id:    i,
			chips: c,
		}
	}

	return p
}

// rankedComparator awards each pot to the first seat in the ranking that is
// eligible; with no ranking, everyone ties
type rankedComparator struct {
	ranking []int
	calls   int
}

func (r *rankedComparator) Winners(hands map[int]deck.Hand) ([]int, error) {
	r.calls++

	for _, seatIndex := range r.ranking {
		if _, ok := hands[seatIndex]; ok {
			return []int{seatIndex}, nil
		}
	}

	winners := make([]int, 0, len(hands))
	for seatIndex := range hands {
		winners = append(winners, seatIndex)
	}

	return winners, nil
}

// tieComparator splits each pot between the given seats when eligible
type tieComparator struct {
	seats []int
}

func (c *tieComparator) Winners(hands map[int]deck.Hand) ([]int, error) {
	winners := make([]int, 0, len(c.seats))
	for _, seatIndex := range c.seats {
		if _, ok := hands[seatIndex]; ok {
			winners = append(winners, seatIndex)
		}
	}

	if len(winners) == 0 {
		for seatIndex := range hands {
			winners = append(winners, seatIndex)
		}
	}

	return winners, nil
}

func setupGame(t *testing.T, dealerSeat int, comparator Comparator, chips ...int) (*Game, []Participant) {
	t.Helper()

	participants := setupParticipants(chips...)
	game, err := NewGame(logrus.StandardLogger(), participants, dealerSeat, Options{SmallBlind: 10, BigBlind: 20}, comparator)
	if err != nil {
		panic(err)
	}

	if err := game.Start(); err != nil {
		panic(err)
	}

	return game, participants
}

func assertAction(t *testing.T, game *Game, seatIndex int, act action.Action, msgAndArgs ...interface{}) {
	t.Helper()
	assert.NoError(t, game.Action(seatIndex, act, 0), msgAndArgs...)
}

func assertRaise(t *testing.T, game *Game, seatIndex, amount int, msgAndArgs ...interface{}) {
	t.Helper()
	assert.NoError(t, game.Action(seatIndex, action.Raise, amount), msgAndArgs...)
}

// checkAround checks with every seat on the clock until the hand finishes
func checkAround(t *testing.T, game *Game) {
	t.Helper()

	for i := 0; i < 100; i++ {
		if game.Finished() {
			return
		}

		assertAction(t, game, game.CurrentTurn(), action.Check)
	}

	t.Fatal("hand never finished")
}

func totalChips(participants []Participant) int {
	total := 0
	for _, p := range participants {
		total += p.Chips()
	}

	return total
}

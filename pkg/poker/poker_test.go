package poker

import (
	"github.com/stretchr/testify/assert"
	"testing"

	"pokerroom-server/pkg/deck"
)

func hand(s string) deck.Hand {
	return deck.CardsFromString(s)
}

func TestEval7_Winners(t *testing.T) {
	a := assert.New(t)

	// board: 2c,7d,9h,10s,14d
	hands := map[int]deck.Hand{
		// pair of aces
		1: hand("14c,3h,2c,7d,9h,10s,14d"),
		// pair of sevens
		4: hand("7c,4h,2c,7d,9h,10s,14d"),
	}

	winners, err := Eval7{}.Winners(hands)
	a.NoError(err)
	a.Equal([]int{1}, winners)
}

func TestEval7_Winners_split(t *testing.T) {
	a := assert.New(t)

	// both seats play the board: broadway on board
	board := "10c,11c,12d,13h,14s"
	hands := map[int]deck.Hand{
		2: hand("2c,3d," + board),
		5: hand("4h,5s," + board),
	}

	winners, err := Eval7{}.Winners(hands)
	a.NoError(err)
	a.ElementsMatch([]int{2, 5}, winners)
}

func TestEval7_Winners_errors(t *testing.T) {
	a := assert.New(t)

	_, err := Eval7{}.Winners(nil)
	a.Equal(ErrNoHands, err)

	_, err = Eval7{}.Winners(map[int]deck.Hand{1: hand("2c,3c")})
	a.EqualError(err, "hand must have 7 cards, got 2")
}

func TestDescribe(t *testing.T) {
	a := assert.New(t)

	desc, err := Describe(hand("14c,14d,14h,14s,9c,2d,3h"))
	a.NoError(err)
	a.NotEmpty(desc)

	_, err = Describe(hand("2c"))
	a.Error(err)
}

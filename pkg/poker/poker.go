// Package poker scores 7-card Texas Hold'em hands.
//
// The hand engine treats hand ranking as an external concern: it hands this
// package every showdown hand (two hole cards plus the five community cards)
// and gets back the subset of co-winners. Scoring is delegated to
// github.com/paulhankin/poker's 7-card evaluator.
package poker

import (
	"errors"
	"fmt"

	ph "github.com/paulhankin/poker"

	"pokerroom-server/pkg/deck"
)

// ErrNoHands is an error when a showdown is attempted with no hands
var ErrNoHands = errors.New("no hands to compare")

// Eval7 scores 7-card hands
type Eval7 struct{}

// Winners returns the keys of the hands that tie for the best rank.
// Every hand must contain exactly seven cards.
func (Eval7) Winners(hands map[int]deck.Hand) ([]int, error) {
	if len(hands) == 0 {
		return nil, ErrNoHands
	}

	var best int16
	var winners []int
	for key, hand := range hands {
		cards, err := convertHand(hand)
		if err != nil {
			return nil, err
		}

		score := ph.Eval7(&cards)
		if winners == nil || score > best {
			best = score
			winners = []int{key}
		} else if score == best {
			winners = append(winners, key)
		}
	}

	return winners, nil
}

// Describe returns a human-readable description of the best five-card hand
// that can be made from the seven cards (e.g. "full house")
func Describe(hand deck.Hand) (string, error) {
	cards, err := convertHand(hand)
	if err != nil {
		return "", err
	}

	return ph.Describe(cards[:])
}

func convertHand(hand deck.Hand) ([7]ph.Card, error) {
	var cards [7]ph.Card
	if len(hand) != len(cards) {
		return cards, fmt.Errorf("hand must have %d cards, got %d", len(cards), len(hand))
	}

	for i, c := range hand {
		card, err := convertCard(c)
		if err != nil {
			return cards, err
		}

		cards[i] = card
	}

	return cards, nil
}

func convertCard(c *deck.Card) (ph.Card, error) {
	var suit ph.Suit
	switch c.Suit {
	case deck.Clubs:
		suit = ph.Club
	case deck.Diamonds:
		suit = ph.Diamond
	case deck.Hearts:
		suit = ph.Heart
	case deck.Spades:
		suit = ph.Spade
	default:
		var zero ph.Card
		return zero, fmt.Errorf("unknown suit: %s", c.Suit)
	}

	// the evaluator ranks aces as 1
	rank := c.Rank
	if rank == deck.Ace {
		rank = 1
	}

	return ph.MakeCard(suit, ph.Rank(rank))
}

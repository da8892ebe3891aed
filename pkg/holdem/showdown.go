package holdem

import (
	"sort"

	"pokerroom-server/pkg/deck"
)

// settleUncontested pays the whole pot to the last seat still in the hand.
// The comparator is never consulted and no hole cards are revealed.
func (g *Game) settleUncontested() {
	var winner *seatState
	for _, seat := range g.seatsInHand() {
		if !seat.folded {
			winner = seat
			break
		}
	}

	if winner == nil {
		// remainingCount() == 1 guarantees a winner
		panic("no seat left to win the pot")
	}

	g.payout(map[int]int{winner.ID(): g.pot})
	g.sendLogMessage("%s won ${%d} uncontested", winner.Name(), g.pot)
	g.finish()
}

// showdown scores every pot tier and pays the winners. Integer splits leave
// a remainder; it goes to the eligible winner earliest in clockwise order
// from the seat after the dealer button, so no chips are ever destroyed.
func (g *Game) showdown() {
	contributions := make(map[int]int)
	for _, seat := range g.seatsInHand() {
		if seat.contributed > 0 {
			contributions[seat.ID()] = seat.contributed
		}
	}

	winnings := make(map[int]int)
	for _, pot := range buildSidePots(contributions) {
		hands := g.showdownHands(pot.Eligible)

		if len(hands) == 0 {
			// every eligible seat folded; the tier goes to the first seat
			// still in the hand so the chips aren't lost
			for _, seat := range g.clockwiseFromDealer() {
				if !seat.folded {
					winnings[seat.ID()] += pot.Amount
					break
				}
			}
			continue
		}

		winners, err := g.comparator.Winners(hands)
		if err != nil || len(winners) == 0 {
			// the comparator is deterministic over well-formed hands; treat a
			// failure like a tie between all eligible seats rather than
			// destroying the pot
			g.logger.WithError(err).Error("hand comparator failed")
			winners = make([]int, 0, len(hands))
			for seatIndex := range hands {
				winners = append(winners, seatIndex)
			}
		}

		g.sortClockwiseFromDealer(winners)

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for i, seatIndex := range winners {
			amount := share
			if i == 0 {
				amount += remainder
			}

			winnings[seatIndex] += amount
		}
	}

	g.payout(winnings)

	for _, seat := range g.clockwiseFromDealer() {
		if amount, ok := winnings[seat.ID()]; ok && amount > 0 {
			g.sendLogMessage("%s won ${%d}", seat.Name(), amount)
		}
	}

	g.finish()
}

// showdownHands builds the 7-card hands for the eligible seats that have not
// folded. Folded seats never score, no matter what they contributed.
func (g *Game) showdownHands(eligible []int) map[int]deck.Hand {
	hands := make(map[int]deck.Hand)
	for _, seatIndex := range eligible {
		seat := g.seats[seatIndex]
		if seat == nil || seat.folded {
			continue
		}

		hand := seat.holeCards.Clone()
		hand = append(hand, g.community...)
		hands[seatIndex] = hand
	}

	return hands
}

func (g *Game) payout(winnings map[int]int) {
	g.results = make([]*Result, 0, len(winnings))
	for _, seat := range g.clockwiseFromDealer() {
		amount, ok := winnings[seat.ID()]
		if !ok || amount == 0 {
			continue
		}

		seat.AdjustChips(amount)
		g.results = append(g.results, &Result{
			SeatIndex: seat.ID(),
			Winnings:  amount,
		})
	}
}

func (g *Game) finish() {
	g.currentTurnSeat = noSeat
	g.finished = true
}

// clockwiseFromDealer returns the seats in hand ordered clockwise starting
// at the seat after the dealer button
func (g *Game) clockwiseFromDealer() []*seatState {
	seats := g.seatsInHand()
	sort.Slice(seats, func(i, j int) bool {
		return g.clockwiseDistance(seats[i].ID()) < g.clockwiseDistance(seats[j].ID())
	})

	return seats
}

func (g *Game) sortClockwiseFromDealer(seatIndexes []int) {
	sort.Slice(seatIndexes, func(i, j int) bool {
		return g.clockwiseDistance(seatIndexes[i]) < g.clockwiseDistance(seatIndexes[j])
	})
}

func (g *Game) clockwiseDistance(seatIndex int) int {
	return (seatIndex - g.dealerSeat - 1 + NumSeats) % NumSeats
}

package holdem

import "sort"

// Pot is one tier of the pot. Seats are eligible for every tier at or below
// their own total contribution, which is how unequal all-in amounts are
// isolated into side pots.
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// buildSidePots partitions the total contributions into tiers. Each distinct
// contribution level above the previous one forms a pot of
// (level delta) x (number of seats contributing at least that much), eligible
// only to those seats. The tier amounts always sum to the full pot.
func buildSidePots(contributions map[int]int) []*Pot {
	type seatContribution struct {
		seatIndex int
		amount    int
	}

	sorted := make([]seatContribution, 0, len(contributions))
	for seatIndex, amount := range contributions {
		sorted = append(sorted, seatContribution{seatIndex: seatIndex, amount: amount})
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].amount == sorted[j].amount {
			return sorted[i].seatIndex < sorted[j].seatIndex
		}

		return sorted[i].amount < sorted[j].amount
	})

	pots := make([]*Pot, 0, 1)
	previous := 0
	for i, c := range sorted {
		delta := c.amount - previous
		if delta <= 0 {
			continue
		}

		eligible := make([]int, 0, len(sorted)-i)
		for _, e := range sorted[i:] {
			eligible = append(eligible, e.seatIndex)
		}

		pots = append(pots, &Pot{
			Amount:   delta * len(eligible),
			Eligible: eligible,
		})

		previous = c.amount
	}

	return pots
}

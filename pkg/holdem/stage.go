package holdem

import "encoding/json"

// Stage represents a community-card reveal phase of a hand
type Stage int

// constants for Stage
// A hand moves through the stages strictly in order
const (
	StagePreFlop Stage = iota
	StageFlop
	StageTurn
	StageRiver
)

func (s Stage) String() string {
	switch s {
	case StagePreFlop:
		return "pre-flop"
	case StageFlop:
		return "flop"
	case StageTurn:
		return "turn"
	case StageRiver:
		return "river"
	}

	return ""
}

// MarshalJSON encodes JSON
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(s),
		Name: s.String(),
	})
}

package room

import "pokerroom-server/pkg/holdem"

// State is the per-viewer snapshot of a room. Hole cards are never in here;
// a seated viewer gets its own cards through a separate private message.
type State struct {
	ID         string            `json:"id"`
	GameType   string            `json:"gameType"`
	Status     Status            `json:"status"`
	Settings   Settings          `json:"settings"`
	DealerSeat int               `json:"dealerSeat"`
	Seats      []*SeatState      `json:"seats"`
	Audience   []*audienceMember `json:"audience"`
	IsHost     bool              `json:"isHost"`
}

// SeatState is the public view of one seat
type SeatState struct {
	Index       int    `json:"index"`
	DisplayName string `json:"displayName"`
	Chips       int    `json:"chips"`
	IsViewer    bool   `json:"isViewer"`
}

// PublicState returns the room as seen by the given connection. Only the
// matching connection learns it is the host.
func (r *Room) PublicState(viewerID string) *State {
	seats := make([]*SeatState, 0, NumSeats)
	for _, seat := range r.seats {
		if seat == nil {
			continue
		}

		seats = append(seats, &SeatState{
			Index:       seat.Index,
			DisplayName: seat.DisplayName,
			Chips:       seat.Chips(),
			IsViewer:    seat.ConnectionID == viewerID,
		})
	}

	audience := make([]*audienceMember, len(r.audience))
	copy(audience, r.audience)

	return &State{
		ID:         r.id,
		GameType:   r.gameType,
		Status:     r.status,
		Settings:   r.settings,
		DealerSeat: r.dealerSeat,
		Seats:      seats,
		Audience:   audience,
		IsHost:     r.IsHost(viewerID),
	}
}

// GameState returns the public state of the active hand, or nil while the
// room is waiting
func (r *Room) GameState() *holdem.State {
	if r.game == nil {
		return nil
	}

	return r.game.State()
}

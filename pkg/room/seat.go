package room

// Seat is an occupied playing position. The room owns the seat's identity and
// chips; during a hand the engine borrows it through holdem.Participant and
// adjusts the chips in place.
type Seat struct {
	Index        int    `json:"index"`
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`

	chips int
}

// ID returns the seat's position at the table
func (s *Seat) ID() int {
	return s.Index
}

// Name returns the occupant's display name
func (s *Seat) Name() string {
	return s.DisplayName
}

// Chips returns the seat's current stack
func (s *Seat) Chips() int {
	return s.chips
}

// AdjustChips adds the amount to the seat's stack. Negative amounts move
// chips into the pot.
func (s *Seat) AdjustChips(amount int) {
	s.chips += amount
}

// audienceMember is a participant in the room without a seat. Chips are
// assigned by the host here before the member sits down.
type audienceMember struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
	Chips        int    `json:"chips"`
}

package room

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"pokerroom-server/pkg/deck"
)

// firstSeatComparator awards every pot to the lowest eligible seat
type firstSeatComparator struct{}

func (firstSeatComparator) Winners(hands map[int]deck.Hand) ([]int, error) {
	best := -1
	for seatIndex := range hands {
		if best < 0 || seatIndex < best {
			best = seatIndex
		}
	}

	return []int{best}, nil
}

func newTestRoom() *Room {
	return New(logrus.StandardLogger(), "ABC123", "texas-holdem", "host")
}

func seatedRoom(t *testing.T, chips ...int) *Room {
	t.Helper()
	a := assert.New(t)

	r := newTestRoom()
	for i, c := range chips {
		connectionID := "host"
		if i > 0 {
			connectionID = string(rune('a' + i))
			r.AddToAudience(connectionID)
		}

		a.NoError(r.AssignChips("host", connectionID, c))
		a.NoError(r.TakeSeat(connectionID, i))
	}

	return r
}

func TestNew(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom()

	a.Equal("ABC123", r.ID())
	a.Equal("texas-holdem", r.GameType())
	a.Equal(StatusWaiting, r.Status())
	a.True(r.IsHost("host"))
	a.False(r.IsHost("guest"))

	// the host starts in the audience
	a.Equal(1, r.TotalUsers())
}

func TestRoom_SetDisplayName(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom()
	r.AddToAudience("guest")

	a.NoError(r.SetDisplayName("host", "Alice"))
	a.Equal(ErrNameTaken, r.SetDisplayName("guest", "Alice"))
	a.NoError(r.SetDisplayName("guest", "Bob"))

	// renaming yourself to your own name is fine
	a.NoError(r.SetDisplayName("host", "Alice"))

	// renaming releases the old name
	a.NoError(r.SetDisplayName("host", "Carol"))
	a.NoError(r.SetDisplayName("guest", "Alice"))

	a.EqualError(r.SetDisplayName("host", ""), "name must not be empty")
	a.Equal(ErrNotInAudience, r.SetDisplayName("stranger", "Dave"))
}

func TestRoom_EnsureDisplayName(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom()

	r.EnsureDisplayName("host")
	name := r.audienceMember("host").DisplayName
	a.NotEmpty(name)

	// a second call keeps the assigned name
	r.EnsureDisplayName("host")
	a.Equal(name, r.audienceMember("host").DisplayName)

	// an explicit name is never replaced
	r.AddToAudience("guest")
	a.NoError(r.SetDisplayName("guest", "Bob"))
	r.EnsureDisplayName("guest")
	a.Equal("Bob", r.audienceMember("guest").DisplayName)
}

func TestRoom_AssignChips(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom()
	r.AddToAudience("guest")

	a.Equal(ErrNotHost, r.AssignChips("guest", "guest", 500))
	a.EqualError(r.AssignChips("host", "host", -1), "chips must not be negative")
	a.EqualError(r.AssignChips("host", "stranger", 500), "connection stranger is not in the audience")

	a.NoError(r.AssignChips("host", "guest", 500))
	a.Equal(500, r.audienceMember("guest").Chips)

	// assignment overwrites, it does not add
	a.NoError(r.AssignChips("host", "guest", 200))
	a.Equal(200, r.audienceMember("guest").Chips)
}

func TestRoom_TakeSeat(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom()
	r.AddToAudience("guest")

	a.EqualError(r.TakeSeat("host", -1), "seat -1 is out of range")
	a.EqualError(r.TakeSeat("host", NumSeats), "seat 9 is out of range")
	a.Equal(ErrNotInAudience, r.TakeSeat("stranger", 0))
	a.Equal(ErrNoChipsAssigned, r.TakeSeat("guest", 0))

	a.NoError(r.AssignChips("host", "guest", 500))
	a.NoError(r.TakeSeat("guest", 0))
	a.Equal(ErrSeatOccupied, r.TakeSeat("host", 0))

	// the seat carries the chips; the audience entry is gone
	a.Equal(500, r.seats[0].Chips())
	a.Nil(r.audienceMember("guest"))
	a.Equal(2, r.TotalUsers())
}

func TestRoom_RemoveUser(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom()
	r.AddToAudience("guest")
	a.NoError(r.SetDisplayName("guest", "Bob"))
	a.NoError(r.AssignChips("host", "guest", 100))
	a.NoError(r.TakeSeat("guest", 3))

	r.RemoveUser("guest")
	a.Nil(r.seats[3])
	a.Equal(1, r.TotalUsers())

	// the name is free again
	a.NoError(r.SetDisplayName("host", "Bob"))
}

func TestRoom_UpdateSettings(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom()

	a.Equal(ErrNotHost, r.UpdateSettings("guest", Settings{SmallBlind: 5, BigBlind: 10}))
	a.EqualError(r.UpdateSettings("host", Settings{SmallBlind: 0, BigBlind: 10}), "invalid blinds")
	a.EqualError(r.UpdateSettings("host", Settings{SmallBlind: 20, BigBlind: 10}), "invalid blinds")

	a.NoError(r.UpdateSettings("host", Settings{SmallBlind: 5, BigBlind: 10, AutoStart: true}))
	a.Equal(Settings{SmallBlind: 5, BigBlind: 10, AutoStart: true}, r.settings)
}

func TestRoom_RotateDealer(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom()

	// nobody seated: the button stays put
	before := r.dealerSeat
	r.RotateDealer()
	a.Equal(before, r.dealerSeat)

	r = seatedRoom(t, 100, 100, 100)
	a.Equal(NumSeats-1, r.dealerSeat)

	r.RotateDealer()
	a.Equal(0, r.dealerSeat)
	r.RotateDealer()
	a.Equal(1, r.dealerSeat)
	r.RotateDealer()
	a.Equal(2, r.dealerSeat)
	r.RotateDealer()
	a.Equal(0, r.dealerSeat)
}

func TestRoom_StartGame(t *testing.T) {
	a := assert.New(t)
	comparator := firstSeatComparator{}

	r := seatedRoom(t, 1000)
	a.Equal(ErrNotHost, r.StartGame("guest", comparator))
	a.EqualError(r.StartGame("host", comparator), "at least two seats need chips to start")

	r = seatedRoom(t, 1000, 1000)
	a.NoError(r.StartGame("host", comparator))
	a.Equal(StatusPlaying, r.Status())
	a.NotNil(r.Game())
	a.Equal(0, r.dealerSeat)

	// no hand on top of a hand
	a.Equal(ErrRoomInProgress, r.StartGame("host", comparator))

	// chips can't move mid-hand
	a.Equal(ErrRoomInProgress, r.AssignChips("host", "host", 1))

	r.EndGame()
	a.Equal(StatusWaiting, r.Status())
	a.Nil(r.Game())
	a.Nil(r.GameState())
}

func TestRoom_CanAutoStart(t *testing.T) {
	a := assert.New(t)
	r := seatedRoom(t, 1000, 1000)
	a.False(r.CanAutoStart())

	a.NoError(r.UpdateSettings("host", Settings{SmallBlind: 25, BigBlind: 50, AutoStart: true}))
	a.True(r.CanAutoStart())

	a.NoError(r.StartGame("host", firstSeatComparator{}))
	a.False(r.CanAutoStart())
}

func TestRoom_PublicState(t *testing.T) {
	a := assert.New(t)
	r := seatedRoom(t, 1000, 500)
	a.NoError(r.SetDisplayName("host", "Alice"))

	state := r.PublicState("host")
	a.True(state.IsHost)
	a.Equal(StatusWaiting, state.Status)
	a.Len(state.Seats, 2)
	a.Equal("Alice", state.Seats[0].DisplayName)
	a.True(state.Seats[0].IsViewer)
	a.False(state.Seats[1].IsViewer)

	state = r.PublicState("b")
	a.False(state.IsHost)
	a.True(state.Seats[1].IsViewer)
}

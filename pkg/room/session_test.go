package room

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"pokerroom-server/pkg/protocol"
)

// expectResponse reads the client's send queue until a response with the
// given key arrives
func expectResponse(t *testing.T, c *Client, key string) *protocol.Response {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-c.SendChan():
			res, ok := msg.(*protocol.Response)
			if !ok {
				continue
			}

			if res.Key == key {
				return res
			}
		case <-deadline:
			t.Fatalf("did not receive a %q response in time", key)
			return nil
		}
	}
}

func sendCommand(c *Client, action string, data protocol.AdditionalData) {
	c.ReceivedMessage(&protocol.PayloadIn{
		Action:         action,
		AdditionalData: data,
		Context:        "test-context",
	})
}

// drainClient discards everything already queued for the client
func drainClient(c *Client) {
	for {
		select {
		case <-c.SendChan():
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

func expectOK(t *testing.T, c *Client) {
	t.Helper()

	res := expectResponse(t, c, "status")
	assert.Equal(t, "OK", res.Value)
	assert.Equal(t, "test-context", res.Context)
}

func connectClients(t *testing.T, m *Manager) (*Room, *Client, *Client) {
	t.Helper()
	a := assert.New(t)

	room, err := m.CreateRoom("texas-holdem", "host")
	a.NoError(err)

	host := NewClient(nil, "host", room.ID())
	m.ClientConnected(host)
	expectResponse(t, host, "roomState")

	guest := NewClient(nil, "guest", room.ID())
	m.ClientConnected(guest)
	expectResponse(t, guest, "roomState")

	return room, host, guest
}

func seatBothPlayers(t *testing.T, host, guest *Client) {
	t.Helper()

	sendCommand(host, "assignChips", protocol.AdditionalData{"targetId": "host", "amount": float64(1000)})
	expectOK(t, host)
	sendCommand(host, "assignChips", protocol.AdditionalData{"targetId": "guest", "amount": float64(1000)})
	expectOK(t, host)

	sendCommand(host, "takeSeat", protocol.AdditionalData{"seatIndex": float64(0)})
	expectOK(t, host)
	sendCommand(guest, "takeSeat", protocol.AdditionalData{"seatIndex": float64(1)})
	expectOK(t, guest)
}

func TestSession_commands(t *testing.T) {
	a := assert.New(t)
	m := newTestManager()
	m.Start()

	_, host, guest := connectClients(t, m)

	sendCommand(guest, "setDisplayName", protocol.AdditionalData{"name": "Bob"})
	expectOK(t, guest)

	// duplicate names are rejected
	sendCommand(host, "setDisplayName", protocol.AdditionalData{"name": "Bob"})
	res := expectResponse(t, host, "error")
	a.Equal(ErrNameTaken.Error(), res.Value)

	// only the host assigns chips
	sendCommand(guest, "assignChips", protocol.AdditionalData{"targetId": "guest", "amount": float64(500)})
	res = expectResponse(t, guest, "error")
	a.Equal(ErrNotHost.Error(), res.Value)

	seatBothPlayers(t, host, guest)
	drainClient(guest)

	sendCommand(guest, "setDisplayName", protocol.AdditionalData{"name": "Bobby"})
	state := expectResponse(t, guest, "roomState").Data.(*State)
	a.Len(state.Seats, 2)
	a.False(state.IsHost)
}

func TestSession_playHand(t *testing.T) {
	a := assert.New(t)
	m := newTestManager()
	m.Start()

	room, host, guest := connectClients(t, m)
	seatBothPlayers(t, host, guest)

	sendCommand(host, "startGame", protocol.AdditionalData{})
	expectResponse(t, host, "gameState")
	expectOK(t, host)
	a.Len(expectResponse(t, guest, "holeCards").Data, 2)

	// heads-up: the small blind acts first and folds the hand away
	sendCommand(guest, "fold", protocol.AdditionalData{})
	expectResponse(t, host, "logs")
	ended := expectResponse(t, host, "gameEnded")
	a.NotNil(ended.Data)
	expectResponse(t, host, "roomState")

	// the room is back in the lobby with the pot settled
	expectOK(t, guest)
	a.Equal(StatusWaiting, room.Status())
}

func TestSession_turnDeadline(t *testing.T) {
	a := assert.New(t)
	m := NewManager(logrus.StandardLogger(), firstSeatComparator{}, Options{
		TurnTimeout: 25 * time.Millisecond,
	})
	m.Start()

	room, host, guest := connectClients(t, m)
	seatBothPlayers(t, host, guest)

	sendCommand(host, "startGame", protocol.AdditionalData{})
	expectOK(t, host)

	// nobody acts: the deadline folds the small blind and ends the hand
	expectResponse(t, guest, "gameEnded")
	expectResponse(t, guest, "roomState")
	a.Equal(StatusWaiting, room.Status())
}

func TestSession_autoStart(t *testing.T) {
	m := newTestManager()
	m.Start()

	_, host, guest := connectClients(t, m)
	seatBothPlayers(t, host, guest)

	sendCommand(host, "updateSettings", protocol.AdditionalData{
		"smallBlind": float64(25),
		"bigBlind":   float64(50),
		"autoStart":  true,
	})
	expectOK(t, host)

	sendCommand(host, "startGame", protocol.AdditionalData{})
	expectOK(t, host)
	expectResponse(t, guest, "gameState")

	sendCommand(guest, "fold", protocol.AdditionalData{})
	expectResponse(t, guest, "gameEnded")

	// the next hand deals itself
	expectResponse(t, guest, "gameState")
	expectResponse(t, guest, "holeCards")
}

func TestSession_hostDisconnectDestroysRoom(t *testing.T) {
	a := assert.New(t)
	m := newTestManager()
	m.Start()

	room, host, guest := connectClients(t, m)

	m.ClientDisconnected(host)

	res := expectResponse(t, guest, "roomClosed")
	a.Equal("the host left the room", res.Value)

	select {
	case <-guest.Close:
	case <-time.After(2 * time.Second):
		t.Fatal("guest connection was not closed")
	}

	_, err := m.Get(room.ID())
	a.Equal(ErrRoomNotFound, err)
}

func TestSession_lastClientCleansUpRoom(t *testing.T) {
	a := assert.New(t)
	m := newTestManager()
	m.Start()

	room, host, guest := connectClients(t, m)

	m.ClientDisconnected(guest)
	expectResponse(t, host, "roomState")

	m.ClientDisconnected(host)

	a.Eventually(func() bool {
		_, err := m.Get(room.ID())
		return err == ErrRoomNotFound
	}, 2*time.Second, 10*time.Millisecond)
}

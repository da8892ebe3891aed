package room

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pokerroom-server/internal/util"
	"pokerroom-server/pkg/holdem"
)

// ErrRoomNotFound is an error when the room code does not exist
var ErrRoomNotFound = errors.New("room not found")

// Options configures the room manager
type Options struct {
	// TurnTimeout is how long a seat may sit on the clock before the hand
	// checks or folds for it. Zero disables the deadline.
	TurnTimeout time.Duration

	// StartGameDelay is how long an auto-start room waits between hands
	StartGameDelay time.Duration
}

// Manager is the process-scoped room registry. It creates and destroys rooms
// by code and dispatches connecting clients to each room's session.
type Manager struct {
	logger     logrus.FieldLogger
	options    Options
	comparator holdem.Comparator

	mu    sync.RWMutex
	rooms map[string]*Room

	// sessions is only touched from the run loop
	sessions   map[string]*Session
	connect    chan *Client
	disconnect chan *Client
}

// RoomInfo is one row in the room listing
type RoomInfo struct {
	ID       string `json:"id"`
	GameType string `json:"gameType"`
	Status   Status `json:"status"`
	Users    int    `json:"users"`
}

// NewManager returns a new manager scoring showdowns with the given
// comparator
func NewManager(logger logrus.FieldLogger, comparator holdem.Comparator, options Options) *Manager {
	return &Manager{
		logger:     logger,
		options:    options,
		comparator: comparator,
		rooms:      make(map[string]*Room),
		sessions:   make(map[string]*Session),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
	}
}

// Start starts the manager's dispatch run loop
func (m *Manager) Start() {
	go m.runLoop()
}

// CreateRoom creates a new room with a unique code, hosted by the given
// connection
func (m *Manager) CreateRoom(gameType, hostID string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i < 10; i++ {
		code := util.RoomCode()
		if _, found := m.rooms[code]; found {
			continue
		}

		room := New(m.logger, code, gameType, hostID)
		m.rooms[code] = room
		m.logger.WithFields(logrus.Fields{
			"room": code,
			"host": hostID,
		}).Info("room created")

		return room, nil
	}

	return nil, errors.New("could not generate a unique room code")
}

// Get returns the room with the given code
func (m *Manager) Get(id string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, found := m.rooms[id]
	if !found {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

// List returns a listing of every room
func (m *Manager) List() []*RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*RoomInfo, 0, len(m.rooms))
	for _, room := range m.rooms {
		list = append(list, &RoomInfo{
			ID:       room.ID(),
			GameType: room.GameType(),
			Status:   room.Status(),
			Users:    room.TotalUsers(),
		})
	}

	return list
}

// Delete removes the room from the registry
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
}

// CleanupIfEmpty deletes the room if no connections remain in it. Returns
// true if the room was deleted.
func (m *Manager) CleanupIfEmpty(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, found := m.rooms[id]
	if !found {
		return false
	}

	if room.TotalUsers() > 0 {
		return false
	}

	delete(m.rooms, id)
	m.logger.WithField("room", id).Info("empty room removed")
	return true
}

// ClientConnected dispatches a connecting client to its room's session
func (m *Manager) ClientConnected(client *Client) {
	m.connect <- client
}

// ClientDisconnected is called when a client's websocket goes away
func (m *Manager) ClientDisconnected(client *Client) {
	m.disconnect <- client
}

func (m *Manager) runLoop() {
	for {
		select {
		case client := <-m.connect:
			m.handleConnect(client)
		case client := <-m.disconnect:
			m.handleDisconnect(client)
		}
	}
}

func (m *Manager) handleConnect(client *Client) {
	m.logger.WithField("client", client.String()).Debug("client connected")

	room, err := m.Get(client.roomID)
	if err != nil {
		client.CloseError = err
		close(client.Close)
		return
	}

	session, found := m.sessions[client.roomID]
	if !found {
		session = newSession(m, room)
		session.Start()
		m.sessions[client.roomID] = session
	}

	session.AddClient(client)
}

func (m *Manager) handleDisconnect(client *Client) {
	m.logger.WithField("client", client.String()).Debug("client disconnected")

	session, found := m.sessions[client.roomID]
	if !found {
		return
	}

	room := session.room
	if room.IsHost(client.ConnectionID) {
		// the room dies with its host
		session.Destroy("the host left the room")
		delete(m.sessions, client.roomID)
		m.Delete(client.roomID)
		return
	}

	if session.RemoveClient(client) {
		session.Stop()
		delete(m.sessions, client.roomID)
		m.CleanupIfEmpty(client.roomID)
	}
}

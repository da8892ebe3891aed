package room

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pokerroom-server/pkg/holdem/action"
	"pokerroom-server/pkg/protocol"
)

const logMessageLimit = 25

// Session is the per-room run loop. Every room and game mutation funnels
// through it, so concurrent actions from different connections are applied
// one at a time.
type Session struct {
	manager *Manager
	room    *Room
	logger  logrus.FieldLogger

	lock    sync.RWMutex
	clients map[*Client]bool

	execInRunLoop chan func()
	done          chan bool
	closing       bool

	logMessages []*protocol.LogMessage

	turnTimer  *time.Timer
	startTimer *time.Timer
}

func newSession(manager *Manager, room *Room) *Session {
	return &Session{
		manager:       manager,
		room:          room,
		logger:        manager.logger.WithField("room", room.ID()),
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		done:          make(chan bool),
		turnTimer:     newStoppedTimer(),
		startTimer:    newStoppedTimer(),
	}
}

func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}

	return t
}

// Start starts the session run loop
func (s *Session) Start() {
	go s.runLoop()
}

// Stop terminates the run loop after everything already queued has been
// applied
func (s *Session) Stop() {
	s.execInRunLoop <- func() {
		s.closing = true
	}

	<-s.done
}

// Destroy notifies every client that the room is gone, then stops the
// session
func (s *Session) Destroy(reason string) {
	s.execInRunLoop <- func() {
		for _, client := range s.Clients() {
			client.Send(&protocol.Response{
				Key:   "roomClosed",
				Value: reason,
			})

			// buffer the reason so the write pump sees it before the
			// channel close
			client.Close <- reason
			close(client.Close)
		}

		s.closing = true
	}

	<-s.done
}

func (s *Session) runLoop() {
	defer close(s.done)
	s.logger.Debug("starting session run loop")

	for {
		select {
		case fn := <-s.execInRunLoop:
			fn()
			if s.closing {
				s.logger.Debug("terminating session run loop")
				return
			}
		case <-s.turnTimer.C:
			s.handleTurnTimeout()
		case <-s.startTimer.C:
			s.handleAutoStart()
		}
	}
}

// Clients returns the clients connected at the time of the call
func (s *Session) Clients() []*Client {
	s.lock.RLock()
	defer s.lock.RUnlock()

	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}

	return clients
}

// AddClient adds a client to the session and puts its connection in the
// room's audience. Must return quickly.
func (s *Session) AddClient(client *Client) {
	s.lock.Lock()
	client.session = s
	s.clients[client] = true
	s.lock.Unlock()

	s.execInRunLoop <- func() {
		s.room.AddToAudience(client.ConnectionID)
		s.room.EnsureDisplayName(client.ConnectionID)
		s.sendRoomState()

		if s.logMessages != nil {
			client.Send(&protocol.Response{Key: "logs", Data: s.logMessages})
		}

		if s.room.Game() == nil {
			return
		}

		client.Send(&protocol.Response{Key: "gameState", Data: s.room.GameState()})
		if seatIndex, ok := s.room.SeatIndexFor(client.ConnectionID); ok {
			client.Send(&protocol.Response{Key: "holeCards", Data: s.room.Game().HoleCards(seatIndex)})
		}
	}
}

// RemoveClient removes a client and its connection from the room. Returns
// true when this was the session's last client.
func (s *Session) RemoveClient(client *Client) (lastClient bool) {
	s.lock.Lock()
	delete(s.clients, client)
	nClients := len(s.clients)
	s.lock.Unlock()

	s.execInRunLoop <- func() {
		s.room.RemoveUser(client.ConnectionID)
		s.sendRoomState()
	}

	return nClients == 0
}

// ReceivedMessage is called when a client sends a command. Must return
// quickly; all work happens in the run loop.
func (s *Session) ReceivedMessage(c *Client, msg *protocol.PayloadIn) {
	s.execInRunLoop <- func() {
		if err := s.handleMessage(c, msg); err != nil {
			c.Send(protocol.Error(msg.Context, err))
			return
		}

		c.Send(protocol.OK(msg.Context))
	}
}

// handleMessage runs a client command. A non-nil error is relayed to the
// sender; room and game state are untouched on failure.
func (s *Session) handleMessage(c *Client, msg *protocol.PayloadIn) error {
	switch msg.Action {
	case "setDisplayName":
		name, _ := msg.AdditionalData.GetString("name")
		if err := s.room.SetDisplayName(c.ConnectionID, name); err != nil {
			return err
		}

	case "assignChips":
		target, ok := msg.AdditionalData.GetString("targetId")
		if !ok {
			return errors.New("could not obtain targetId")
		}

		amount, ok := msg.AdditionalData.GetInt("amount")
		if !ok {
			return errors.New("could not obtain amount")
		}

		if err := s.room.AssignChips(c.ConnectionID, target, amount); err != nil {
			return err
		}

	case "takeSeat":
		seatIndex, ok := msg.AdditionalData.GetInt("seatIndex")
		if !ok {
			return errors.New("could not obtain seatIndex")
		}

		if err := s.room.TakeSeat(c.ConnectionID, seatIndex); err != nil {
			return err
		}

	case "updateSettings":
		settings := s.room.settings
		if smallBlind, ok := msg.AdditionalData.GetInt("smallBlind"); ok {
			settings.SmallBlind = smallBlind
		}

		if bigBlind, ok := msg.AdditionalData.GetInt("bigBlind"); ok {
			settings.BigBlind = bigBlind
		}

		if autoStart, ok := msg.AdditionalData.GetBool("autoStart"); ok {
			settings.AutoStart = autoStart
		}

		if err := s.room.UpdateSettings(c.ConnectionID, settings); err != nil {
			return err
		}

	case "startGame":
		if err := s.room.StartGame(c.ConnectionID, s.manager.comparator); err != nil {
			return err
		}

		s.logger.Info("hand started")
		s.afterGameEvent()
		s.sendRoomState()
		return nil

	default:
		return s.handleGameAction(c, msg)
	}

	s.sendRoomState()
	return nil
}

func (s *Session) handleGameAction(c *Client, msg *protocol.PayloadIn) error {
	act, err := action.FromString(msg.Action)
	if err != nil {
		s.logger.WithField("msg", msg).Warn("unknown message")
		return err
	}

	game := s.room.Game()
	if game == nil {
		return errors.New("no hand is in progress")
	}

	seatIndex, ok := s.room.SeatIndexFor(c.ConnectionID)
	if !ok {
		return errors.New("you are not seated")
	}

	amount, _ := msg.AdditionalData.GetInt("amount")
	if err := game.Action(seatIndex, act, amount); err != nil {
		return err
	}

	s.afterGameEvent()
	return nil
}

// afterGameEvent runs after every mutation of the hand: the game log and
// state are pushed out and either the turn deadline is re-armed or the
// finished hand is wound down.
func (s *Session) afterGameEvent() {
	game := s.room.Game()
	if game == nil {
		return
	}

	s.drainGameLogs()

	if game.Finished() {
		s.sendGameEnded()
		s.room.EndGame()
		s.sendRoomState()
		s.stopTimer(s.turnTimer)
		s.scheduleAutoStart()
		return
	}

	s.sendGameState()
	s.resetTurnTimer()
}

func (s *Session) handleTurnTimeout() {
	game := s.room.Game()
	if game == nil || game.Finished() {
		return
	}

	act, err := game.AutoAct()
	if err != nil {
		s.logger.WithError(err).Error("could not auto-act")
		return
	}

	s.logger.WithField("action", act).Info("turn deadline forced an action")
	s.afterGameEvent()
}

func (s *Session) handleAutoStart() {
	if !s.room.CanAutoStart() {
		return
	}

	if err := s.room.StartNextGame(s.manager.comparator); err != nil {
		s.logger.WithError(err).Error("could not auto-start the next hand")
		return
	}

	s.logger.Info("hand auto-started")
	s.afterGameEvent()
	s.sendRoomState()
}

func (s *Session) resetTurnTimer() {
	s.stopTimer(s.turnTimer)
	if timeout := s.manager.options.TurnTimeout; timeout > 0 {
		s.turnTimer.Reset(timeout)
	}
}

func (s *Session) scheduleAutoStart() {
	if !s.room.CanAutoStart() {
		return
	}

	s.stopTimer(s.startTimer)
	s.startTimer.Reset(s.manager.options.StartGameDelay)
}

func (s *Session) stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

// addLogMessages appends to the room's capped game log.
// Note: this must only be called from within the run loop
func (s *Session) addLogMessages(messages []*protocol.LogMessage) {
	m := append(s.logMessages, messages...)
	if count := len(m); count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	s.logMessages = m
}

func (s *Session) drainGameLogs() {
	game := s.room.Game()
	if game == nil {
		return
	}

	var drained []*protocol.LogMessage
	for {
		select {
		case messages := <-game.LogChan():
			drained = append(drained, messages...)
		default:
			if len(drained) == 0 {
				return
			}

			s.addLogMessages(drained)
			for _, client := range s.Clients() {
				client.Send(&protocol.Response{Key: "logs", Data: drained})
			}

			return
		}
	}
}

// sendRoomState pushes each client its own view of the room.
// Note: must only be called from within the run loop
func (s *Session) sendRoomState() {
	for _, client := range s.Clients() {
		client.Send(&protocol.Response{
			Key:  "roomState",
			Data: s.room.PublicState(client.ConnectionID),
		})
	}
}

// sendGameState pushes the public hand state to everyone and each seated
// client its own hole cards.
// Note: must only be called from within the run loop
func (s *Session) sendGameState() {
	game := s.room.Game()
	if game == nil {
		return
	}

	state := s.room.GameState()
	for _, client := range s.Clients() {
		client.Send(&protocol.Response{Key: "gameState", Data: state})
		if seatIndex, ok := s.room.SeatIndexFor(client.ConnectionID); ok {
			client.Send(&protocol.Response{Key: "holeCards", Data: game.HoleCards(seatIndex)})
		}
	}
}

// Note: must only be called from within the run loop
func (s *Session) sendGameEnded() {
	game := s.room.Game()
	if game == nil {
		return
	}

	state := game.State()
	for _, client := range s.Clients() {
		client.Send(&protocol.Response{Key: "gameEnded", Data: state})
	}
}

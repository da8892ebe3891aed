// Package room implements poker rooms: the seat and audience model, a
// process-scoped room registry, and the per-room session run loop that
// serializes every mutation.
package room

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"pokerroom-server/internal/util"
	"pokerroom-server/pkg/holdem"
)

// NumSeats is the number of seats in a room
const NumSeats = holdem.NumSeats

// Status is the room's lifecycle state
type Status string

// Status constants
const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
)

// Common room operation errors
var (
	ErrNotHost         = errors.New("only the host may do that")
	ErrRoomInProgress  = errors.New("a hand is in progress")
	ErrNotInAudience   = errors.New("you are not in the audience")
	ErrSeatOccupied    = errors.New("that seat is occupied")
	ErrNoChipsAssigned = errors.New("you have no chips assigned")
	ErrNameTaken       = errors.New("that name is already taken")
)

// Settings are the host-tunable room settings. They can only change while
// the room is waiting for the next hand.
type Settings struct {
	SmallBlind int  `json:"smallBlind"`
	BigBlind   int  `json:"bigBlind"`
	AutoStart  bool `json:"autoStart"`
}

// DefaultSettings returns the settings a new room starts with
func DefaultSettings() Settings {
	return Settings{
		SmallBlind: 25,
		BigBlind:   50,
	}
}

// Room holds the seats, audience, and settings for one table. A Room is not
// safe for concurrent use; every access goes through the room's session run
// loop.
type Room struct {
	id       string
	gameType string
	hostID   string

	logger logrus.FieldLogger

	status     Status
	seats      [NumSeats]*Seat
	audience   []*audienceMember
	usedNames  map[string]string
	settings   Settings
	dealerSeat int

	game *holdem.Game
}

// New returns a new waiting room hosted by the given connection. The host
// starts in the audience like everyone else.
func New(logger logrus.FieldLogger, id, gameType, hostID string) *Room {
	r := &Room{
		id:         id,
		gameType:   gameType,
		hostID:     hostID,
		logger:     logger.WithField("room", id),
		status:     StatusWaiting,
		usedNames:  make(map[string]string),
		settings:   DefaultSettings(),
		dealerSeat: NumSeats - 1,
	}

	r.AddToAudience(hostID)
	return r
}

// ID returns the room code
func (r *Room) ID() string {
	return r.id
}

// GameType returns the game the room was created for
func (r *Room) GameType() string {
	return r.gameType
}

// Status returns whether the room is waiting or mid-hand
func (r *Room) Status() Status {
	return r.status
}

// Game returns the active hand, or nil while waiting
func (r *Room) Game() *holdem.Game {
	return r.game
}

// IsHost returns true if the connection created the room
func (r *Room) IsHost(connectionID string) bool {
	return connectionID == r.hostID
}

// AddToAudience registers a connection as an audience member. Adding a
// connection already present is a no-op.
func (r *Room) AddToAudience(connectionID string) {
	if r.audienceMember(connectionID) != nil {
		return
	}

	r.audience = append(r.audience, &audienceMember{ConnectionID: connectionID})
}

// EnsureDisplayName gives the connection a random display name if it has
// not picked one yet
func (r *Room) EnsureDisplayName(connectionID string) {
	member := r.audienceMember(connectionID)
	if member == nil || member.DisplayName != "" {
		return
	}

	name := util.GetRandomName()
	for i := 2; r.usedNames[name] != ""; i++ {
		name = fmt.Sprintf("%s %d", util.GetRandomName(), i)
	}

	member.DisplayName = name
	r.usedNames[name] = connectionID
}

// SetDisplayName sets the connection's name, unique within the room. The
// previous name, if any, is released.
func (r *Room) SetDisplayName(connectionID, name string) error {
	if name == "" {
		return errors.New("name must not be empty")
	}

	if owner, ok := r.usedNames[name]; ok && owner != connectionID {
		return ErrNameTaken
	}

	member := r.audienceMember(connectionID)
	seat := r.seatFor(connectionID)
	if member == nil && seat == nil {
		return ErrNotInAudience
	}

	if member != nil {
		r.releaseName(member.DisplayName)
		member.DisplayName = name
	}

	if seat != nil {
		r.releaseName(seat.DisplayName)
		seat.DisplayName = name
	}

	r.usedNames[name] = connectionID
	return nil
}

// AssignChips sets an audience member's stack to the given amount. Host
// only, and only between hands.
func (r *Room) AssignChips(requesterID, targetID string, amount int) error {
	if !r.IsHost(requesterID) {
		return ErrNotHost
	}

	if r.status != StatusWaiting {
		return ErrRoomInProgress
	}

	if amount < 0 {
		return errors.New("chips must not be negative")
	}

	member := r.audienceMember(targetID)
	if member == nil {
		return fmt.Errorf("connection %s is not in the audience", targetID)
	}

	member.Chips = amount
	return nil
}

// TakeSeat moves an audience member with assigned chips into the given seat
func (r *Room) TakeSeat(connectionID string, seatIndex int) error {
	if seatIndex < 0 || seatIndex >= NumSeats {
		return fmt.Errorf("seat %d is out of range", seatIndex)
	}

	if r.seats[seatIndex] != nil {
		return ErrSeatOccupied
	}

	member := r.audienceMember(connectionID)
	if member == nil {
		return ErrNotInAudience
	}

	if member.Chips <= 0 {
		return ErrNoChipsAssigned
	}

	r.seats[seatIndex] = &Seat{
		Index:        seatIndex,
		ConnectionID: connectionID,
		DisplayName:  member.DisplayName,
		chips:        member.Chips,
	}
	r.removeFromAudience(connectionID)

	return nil
}

// RemoveUser removes the connection from the audience and vacates any seat
// it holds, releasing the display name. Removal is eager; a seat lost
// mid-hand is folded by the turn deadline when its turn comes up.
func (r *Room) RemoveUser(connectionID string) {
	if member := r.audienceMember(connectionID); member != nil {
		r.releaseName(member.DisplayName)
		r.removeFromAudience(connectionID)
	}

	if seat := r.seatFor(connectionID); seat != nil {
		r.releaseName(seat.DisplayName)
		r.seats[seat.Index] = nil
	}
}

// UpdateSettings replaces the room settings. Host only, between hands.
func (r *Room) UpdateSettings(requesterID string, settings Settings) error {
	if !r.IsHost(requesterID) {
		return ErrNotHost
	}

	if r.status != StatusWaiting {
		return ErrRoomInProgress
	}

	if settings.SmallBlind <= 0 || settings.BigBlind < settings.SmallBlind {
		return errors.New("invalid blinds")
	}

	r.settings = settings
	return nil
}

// RotateDealer advances the dealer button to the next occupied seat. With no
// occupied seats the button stays put.
func (r *Room) RotateDealer() {
	if next, ok := r.nextOccupiedSeat(r.dealerSeat); ok {
		r.dealerSeat = next
	}
}

// StartGame deals a new hand. The requester must be the host, the room must
// be waiting, and at least two seats must hold chips. The dealer button
// advances only when the hand actually starts.
func (r *Room) StartGame(requesterID string, comparator holdem.Comparator) error {
	if !r.IsHost(requesterID) {
		return ErrNotHost
	}

	return r.startGame(comparator)
}

// StartNextGame deals the next hand without a host check, for the
// auto-start timer.
func (r *Room) StartNextGame(comparator holdem.Comparator) error {
	return r.startGame(comparator)
}

func (r *Room) startGame(comparator holdem.Comparator) error {
	if r.status != StatusWaiting {
		return ErrRoomInProgress
	}

	participants := r.fundedSeats()
	if len(participants) < 2 {
		return errors.New("at least two seats need chips to start")
	}

	dealerSeat, ok := r.nextOccupiedSeat(r.dealerSeat)
	if !ok {
		return errors.New("no occupied seats")
	}

	game, err := holdem.NewGame(r.logger, participants, dealerSeat, holdem.Options{
		SmallBlind: r.settings.SmallBlind,
		BigBlind:   r.settings.BigBlind,
	}, comparator)
	if err != nil {
		return err
	}

	if err := game.Start(); err != nil {
		return err
	}

	r.dealerSeat = dealerSeat
	r.game = game
	r.status = StatusPlaying

	return nil
}

// EndGame discards the settled hand and returns the room to the lobby. All
// hand-scoped state lives in the engine, so dropping it clears the hole
// cards, bets, and fold flags in one move.
func (r *Room) EndGame() {
	r.game = nil
	r.status = StatusWaiting
}

// SeatIndexFor returns the seat index held by the connection
func (r *Room) SeatIndexFor(connectionID string) (int, bool) {
	if seat := r.seatFor(connectionID); seat != nil {
		return seat.Index, true
	}

	return 0, false
}

// CanAutoStart returns true if the room settings call for dealing the next
// hand automatically
func (r *Room) CanAutoStart() bool {
	return r.settings.AutoStart && r.status == StatusWaiting && len(r.fundedSeats()) >= 2
}

// TotalUsers counts every connection in the room, seated or not
func (r *Room) TotalUsers() int {
	count := len(r.audience)
	for _, seat := range r.seats {
		if seat != nil {
			count++
		}
	}

	return count
}

func (r *Room) fundedSeats() []holdem.Participant {
	participants := make([]holdem.Participant, 0, NumSeats)
	for _, seat := range r.seats {
		if seat != nil && seat.Chips() > 0 {
			participants = append(participants, seat)
		}
	}

	return participants
}

func (r *Room) nextOccupiedSeat(from int) (int, bool) {
	for i := 1; i <= NumSeats; i++ {
		index := (from + i) % NumSeats
		if r.seats[index] != nil {
			return index, true
		}
	}

	return 0, false
}

func (r *Room) audienceMember(connectionID string) *audienceMember {
	for _, member := range r.audience {
		if member.ConnectionID == connectionID {
			return member
		}
	}

	return nil
}

func (r *Room) removeFromAudience(connectionID string) {
	for i, member := range r.audience {
		if member.ConnectionID == connectionID {
			r.audience = append(r.audience[:i], r.audience[i+1:]...)
			return
		}
	}
}

func (r *Room) seatFor(connectionID string) *Seat {
	for _, seat := range r.seats {
		if seat != nil && seat.ConnectionID == connectionID {
			return seat
		}
	}

	return nil
}

func (r *Room) releaseName(name string) {
	if name != "" {
		delete(r.usedNames, name)
	}
}

// Package mux provides the HTTP surface: room creation and listing, the
// health check, and the websocket endpoint every room participant speaks
// through.
package mux

import (
	"net/http"
	"sync"
	"time"

	gmux "github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"pokerroom-server/internal/config"
	"pokerroom-server/pkg/poker"
	"pokerroom-server/pkg/room"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	manager *room.Manager

	// roomCreateDelay is the minimum duration between two room create
	// events from a single remote address
	roomCreateDelay time.Duration

	lastCreateLock sync.Mutex
	lastCreate     map[string]time.Time
}

// NewMux returns a new HTTP mux
func NewMux(version string) *Mux {
	cfg := config.Instance()
	manager := room.NewManager(logrus.StandardLogger(), poker.Eval7{}, room.Options{
		TurnTimeout:    cfg.TurnTimeoutDuration(),
		StartGameDelay: cfg.StartGameDelayDuration(),
	})
	manager.Start()

	this := &Mux{
		Router:          gmux.NewRouter(),
		version:         version,
		manager:         manager,
		roomCreateDelay: time.Minute,
		lastCreate:      make(map[string]time.Time),
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodPost).Path("/room").Handler(this.postRoom())
	r.Methods(http.MethodGet).Path("/room").Handler(this.getRoom())

	rr := r.PathPrefix("/room/{code:[A-Z0-9]{6}}").Subrouter()
	rr.Methods(http.MethodGet).Path("").Handler(this.getRoomCode())
	rr.Methods(http.MethodGet).Path("/ws").Handler(this.getRoomCodeWS())

	return this
}

// canCreateRoom enforces the per-address room creation delay
func (m *Mux) canCreateRoom(addr string) bool {
	m.lastCreateLock.Lock()
	defer m.lastCreateLock.Unlock()

	if last, found := m.lastCreate[addr]; found && time.Since(last) < m.roomCreateDelay {
		return false
	}

	m.lastCreate[addr] = time.Now()
	return true
}

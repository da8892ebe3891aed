package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"
	"github.com/google/uuid"
)

type postRoomPayload struct {
	GameType string `json:"gameType"`
}

type postRoomResponse struct {
	ID string `json:"id"`

	// HostID is the connection id the creator must present on the
	// websocket to be recognized as the host
	HostID string `json:"hostId"`
}

func (m *Mux) postRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.canCreateRoom(remoteAddr(r)) {
			writeJSONError(w, http.StatusTooManyRequests, nil)
			return
		}

		var payload postRoomPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		if payload.GameType == "" {
			payload.GameType = "texas-holdem"
		}

		hostID := uuid.New().String()
		rm, err := m.manager.CreateRoom(payload.GameType, hostID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, postRoomResponse{
			ID:     rm.ID(),
			HostID: hostID,
		})
	}
}

func (m *Mux) getRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.manager.List())
	}
}

func (m *Mux) getRoomCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := gmux.Vars(r)["code"]
		rm, err := m.manager.Get(code)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		writeJSON(w, http.StatusOK, roomInfoResponse{
			ID:       rm.ID(),
			GameType: rm.GameType(),
			Status:   string(rm.Status()),
		})
	}
}

type roomInfoResponse struct {
	ID       string `json:"id"`
	GameType string `json:"gameType"`
	Status   string `json:"status"`
}

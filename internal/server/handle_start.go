package server

import (
	"net/http"

	"github.com/emberworks/ignitehunt/internal/hunt"
)

type StartResponse struct {
	Started         bool `json:"started"`
	TimeLeftSeconds int  `json:"timeLeftSeconds"`
}

// handleGameStart anchors the shared countdown. Only the first call moves
// the clock; everyone after that just joins the running game.
func handleGameStart(mgr *Manager, sessions SessionStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := teamFromRequest(r, sessions); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var anchored bool
		var left int
		err := mgr.Update(r.Context(), func(s *hunt.Session) error {
			anchored = mgr.Engine().Start(s)
			left = int(mgr.Engine().TimeLeft(s).Seconds())
			return nil
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if anchored {
			broker.Broadcast(Event{Type: eventGameStarted})
		}

		writeJSON(w, http.StatusOK, StartResponse{Started: true, TimeLeftSeconds: left})
	}
}

package server

import (
	"net/http"

	"github.com/emberworks/ignitehunt/internal/hunt"
)

type LeaderboardResponse struct {
	Standings       []hunt.Standing `json:"standings"`
	IsGameStarted   bool            `json:"isGameStarted"`
	TimeLeftSeconds int             `json:"timeLeftSeconds"`
}

func handleLeaderboard(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp LeaderboardResponse
		mgr.View(func(s *hunt.Session) {
			resp = LeaderboardResponse{
				Standings:       hunt.Rank(s.Teams),
				IsGameStarted:   s.IsGameStarted,
				TimeLeftSeconds: int(mgr.Engine().TimeLeft(s).Seconds()),
			}
		})
		writeJSON(w, http.StatusOK, resp)
	}
}

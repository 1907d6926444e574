package server

import (
	"net/http"
	"strings"

	"github.com/emberworks/ignitehunt/internal/hunt"
)

type LoginRequest struct {
	Team     string `json:"team"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	IsFinished bool   `json:"isFinished"`
}

func handleLogin(mgr *Manager, sessions SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Team = strings.TrimSpace(req.Team)
		if req.Team == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "team and password are required")
			return
		}

		var team hunt.Team
		var ok bool
		mgr.View(func(s *hunt.Session) {
			team, ok = hunt.Authenticate(s.Teams, req.Team, req.Password)
		})
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := sessions.Create(r.Context(), team.ID, roleTeam)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			Token:      token,
			TeamID:     team.ID,
			TeamName:   team.Name,
			IsFinished: team.IsFinished,
		})
	}
}

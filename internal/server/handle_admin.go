package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/emberworks/ignitehunt/internal/hunt"
)

type AdminLoginRequest struct {
	Password string `json:"password"`
}

func handleAdminLogin(sessions SessionStore, adminHash []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminLoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := bcrypt.CompareHashAndPassword(adminHash, []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := sessions.Create(r.Context(), "", roleAdmin)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(24 * time.Hour / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleAdminLogout(sessions SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(adminCookieName); err == nil && cookie.Value != "" {
			sessions.Delete(r.Context(), cookie.Value)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// handleAdminTeams exposes the full team records, progress and passwords
// included. Admin-only by routing.
func handleAdminTeams(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var teams []hunt.Team
		mgr.View(func(s *hunt.Session) {
			teams = append([]hunt.Team{}, s.Teams...)
		})
		writeJSON(w, http.StatusOK, teams)
	}
}

// handleAdminClues exposes the catalog with answers and QR tokens.
func handleAdminClues(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var clues []hunt.Clue
		mgr.View(func(s *hunt.Session) {
			clues = append([]hunt.Clue{}, s.Clues...)
		})
		writeJSON(w, http.StatusOK, clues)
	}
}

// handleAdminAdvance bypasses the riddle for a stuck team.
func handleAdminAdvance(mgr *Manager, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")

		var team hunt.Team
		err := mgr.Update(r.Context(), func(s *hunt.Session) error {
			if err := mgr.Engine().ForceAdvance(s, teamID); err != nil {
				return err
			}
			team = *s.Team(teamID)
			return nil
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}

		broker.Publish(teamID, Event{
			Type:      eventQuestionSolved,
			TeamID:    teamID,
			TeamName:  team.Name,
			ClueIndex: team.CurrentClueIndex,
			Points:    team.Points,
		})
		writeJSON(w, http.StatusOK, team)
	}
}

type AdminPointsRequest struct {
	Delta int `json:"delta"`
}

func handleAdminPoints(mgr *Manager, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")

		var req AdminPointsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Delta == 0 {
			writeError(w, http.StatusBadRequest, "delta must be non-zero")
			return
		}

		var total int
		err := mgr.Update(r.Context(), func(s *hunt.Session) error {
			var inner error
			total, inner = mgr.Engine().AwardPoints(s, teamID, req.Delta)
			return inner
		})
		if errors.Is(err, hunt.ErrNegativeScore) {
			writeError(w, http.StatusBadRequest, "points cannot go negative")
			return
		}
		if err != nil {
			writeEngineError(w, err)
			return
		}

		broker.Publish(teamID, Event{
			Type:   eventPointsAwarded,
			TeamID: teamID,
			Points: total,
		})
		writeJSON(w, http.StatusOK, map[string]int{"points": total})
	}
}

// handleAdminReset erases the snapshot and all login sessions and rebuilds
// the game from the catalog. Destructive and immediate.
func handleAdminReset(mgr *Manager, sessions SessionStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		broker.Broadcast(Event{Type: eventGameReset})

		if err := mgr.Reset(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := sessions.DeleteAll(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	}
}

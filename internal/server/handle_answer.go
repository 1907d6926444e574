package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/emberworks/ignitehunt/internal/hunt"
)

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type AnswerResponse struct {
	Correct      bool   `json:"correct"`
	Points       int    `json:"points"`
	LocationHint string `json:"locationHint,omitempty"`
}

func handleAnswer(mgr *Manager, sessions SessionStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := teamFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Answer) == "" {
			writeError(w, http.StatusBadRequest, "answer is required")
			return
		}

		var res hunt.AnswerResult
		var teamName string
		var clueIndex int
		err = mgr.Update(r.Context(), func(s *hunt.Session) error {
			team := s.Team(sess.TeamID)
			if team != nil {
				teamName = team.Name
				clueIndex = team.CurrentClueIndex
			}
			var inner error
			res, inner = mgr.Engine().SubmitAnswer(s, sess.TeamID, req.Answer)
			return inner
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}

		if res.Correct {
			broker.Publish(sess.TeamID, Event{
				Type:      eventQuestionSolved,
				TeamID:    sess.TeamID,
				TeamName:  teamName,
				ClueIndex: clueIndex,
				Points:    res.Points,
			})
		} else {
			broker.Publish(sess.TeamID, Event{
				Type:      eventWrongAnswer,
				TeamID:    sess.TeamID,
				TeamName:  teamName,
				ClueIndex: clueIndex,
			})
		}

		writeJSON(w, http.StatusOK, AnswerResponse{
			Correct:      res.Correct,
			Points:       res.Points,
			LocationHint: res.LocationHint,
		})
	}
}

// writeEngineError maps progression-engine errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hunt.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, "team not found")
	case errors.Is(err, hunt.ErrNotStarted):
		writeError(w, http.StatusConflict, "game has not started")
	case errors.Is(err, hunt.ErrTimeExpired):
		writeError(w, http.StatusConflict, "game time has expired")
	case errors.Is(err, hunt.ErrFinished):
		writeError(w, http.StatusConflict, "team has already finished")
	case errors.Is(err, hunt.ErrWrongStep):
		writeError(w, http.StatusConflict, "wrong step for this action")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

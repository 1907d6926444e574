package server

import (
	"net/http"

	"github.com/emberworks/ignitehunt/internal/hunt"
)

type ClueView struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Question     string `json:"question,omitempty"`
	LocationHint string `json:"locationHint,omitempty"`
}

type GameStateResponse struct {
	TeamID           string          `json:"teamId"`
	TeamName         string          `json:"teamName"`
	Points           int             `json:"points"`
	CurrentClueIndex int             `json:"currentClueIndex"`
	TotalClues       int             `json:"totalClues"`
	ClueStep         hunt.Step       `json:"clueStep"`
	IsFinished       bool            `json:"isFinished"`
	FinishTime       int64           `json:"finishTime,omitempty"`
	IsGameStarted    bool            `json:"isGameStarted"`
	TimeLeftSeconds  int             `json:"timeLeftSeconds"`
	CurrentClue      *ClueView       `json:"currentClue,omitempty"`
	Progress         []hunt.Progress `json:"progress"`
}

// handleGameState returns the caller's view of the hunt. The riddle is only
// shown during QUESTION and the location hint only after it is solved, so a
// team cannot read ahead.
func handleGameState(mgr *Manager, sessions SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := teamFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var resp GameStateResponse
		var found bool
		mgr.View(func(s *hunt.Session) {
			team := s.Team(sess.TeamID)
			if team == nil {
				return
			}
			found = true

			resp = GameStateResponse{
				TeamID:           team.ID,
				TeamName:         team.Name,
				Points:           team.Points,
				CurrentClueIndex: team.CurrentClueIndex,
				TotalClues:       len(s.Clues),
				ClueStep:         team.ClueStep,
				IsFinished:       team.IsFinished,
				FinishTime:       team.FinishTime,
				IsGameStarted:    s.IsGameStarted,
				TimeLeftSeconds:  int(mgr.Engine().TimeLeft(s).Seconds()),
				Progress:         append([]hunt.Progress{}, team.Progress...),
			}

			if !team.IsFinished {
				if clue := s.CurrentClue(team); clue != nil {
					cv := &ClueView{ID: clue.ID, Title: clue.Title}
					if team.ClueStep == hunt.StepQuestion {
						cv.Question = clue.Question
					} else {
						cv.LocationHint = clue.LocationHint
					}
					resp.CurrentClue = cv
				}
			}
		})

		if !found {
			writeError(w, http.StatusNotFound, "team not found")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/emberworks/ignitehunt/internal/hunt"
	"github.com/emberworks/ignitehunt/internal/scan"
)

type ScanRequest struct {
	Code string `json:"code"`
}

type ScanResponse struct {
	Correct  bool      `json:"correct"`
	Bonus    bool      `json:"bonus,omitempty"`
	Points   int       `json:"points"`
	Finished bool      `json:"finished,omitempty"`
	NextClue *ClueView `json:"nextClue,omitempty"`
}

// handleScan accepts a QR payload from any input path: live scanner,
// manual entry, or a code decoded from an uploaded image.
func handleScan(mgr *Manager, sessions SessionStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := teamFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req ScanRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Code = strings.TrimSpace(req.Code)
		if req.Code == "" {
			writeError(w, http.StatusBadRequest, "code is required")
			return
		}

		submitScan(w, r, mgr, broker, sess.TeamID, req.Code)
	}
}

// handleScanImage decodes a QR code out of an uploaded PNG/JPEG, then feeds
// the payload through the same scan submission path. Fallback for devices
// without camera access.
func handleScanImage(mgr *Manager, sessions SessionStore, broker *Broker) http.HandlerFunc {
	decoder := scan.NewZXingDecoder()

	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := teamFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		if err := r.ParseMultipartForm(8 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "image file is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, 8<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading image")
			return
		}

		code, err := scan.DecodeImageBytes(decoder, data)
		if errors.Is(err, scan.ErrNoCode) {
			scanDecodes.WithLabelValues("no_code").Inc()
			writeError(w, http.StatusUnprocessableEntity, "no QR code found in image")
			return
		}
		if err != nil {
			scanDecodes.WithLabelValues("error").Inc()
			writeError(w, http.StatusBadRequest, "could not read image")
			return
		}
		scanDecodes.WithLabelValues("ok").Inc()

		submitScan(w, r, mgr, broker, sess.TeamID, strings.ToUpper(code))
	}
}

func submitScan(w http.ResponseWriter, r *http.Request, mgr *Manager, broker *Broker, teamID, code string) {
	var res hunt.ScanResult
	var teamName string
	var clueIndex int
	err := mgr.Update(r.Context(), func(s *hunt.Session) error {
		team := s.Team(teamID)
		if team != nil {
			teamName = team.Name
			clueIndex = team.CurrentClueIndex
		}
		var inner error
		res, inner = mgr.Engine().SubmitScan(s, teamID, code)
		return inner
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if res.Correct {
		ev := Event{
			Type:      eventCodeScanned,
			TeamID:    teamID,
			TeamName:  teamName,
			ClueIndex: clueIndex,
			Points:    res.Points,
			Bonus:     res.Bonus,
		}
		if res.Finished {
			ev.Type = eventTeamFinished
			broker.Broadcast(ev)
		} else {
			broker.Publish(teamID, ev)
		}
	} else {
		broker.Publish(teamID, Event{
			Type:      eventWrongCode,
			TeamID:    teamID,
			TeamName:  teamName,
			ClueIndex: clueIndex,
		})
	}

	resp := ScanResponse{
		Correct:  res.Correct,
		Bonus:    res.Bonus,
		Points:   res.Points,
		Finished: res.Finished,
	}
	if res.NextClue != nil {
		resp.NextClue = &ClueView{
			ID:       res.NextClue.ID,
			Title:    res.NextClue.Title,
			Question: res.NextClue.Question,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

package hunt

import "time"

// Step is where a team stands inside its current clue: first the riddle,
// then the hunt for the QR code at the physical location.
type Step string

const (
	StepQuestion Step = "QUESTION"
	StepScan     Step = "SCAN"
)

// Clue is one riddle+location unit. The catalog order defines the hunt
// sequence; clues are immutable once loaded.
type Clue struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Question     string `json:"question" yaml:"question"`
	Answer       string `json:"answer" yaml:"answer"`
	QRCodeID     string `json:"qrCodeId" yaml:"qrCodeId"`
	LocationHint string `json:"locationHint" yaml:"locationHint"`
}

// Progress records when a team got through each half of a clue.
// Timestamps are unix milliseconds; zero means not yet.
type Progress struct {
	ClueID           string `json:"clueId"`
	QuestionSolvedAt int64  `json:"questionSolvedAt,omitempty"`
	QRScannedAt      int64  `json:"qrScannedAt,omitempty"`
}

// Team is one registry entry expanded into a mutable progress record.
// Only the progression engine (and the admin console) mutates it.
type Team struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Password         string     `json:"password"`
	CurrentClueIndex int        `json:"currentClueIndex"`
	Points           int        `json:"points"`
	ClueStep         Step       `json:"clueStep"`
	IsFinished       bool       `json:"isFinished"`
	FinishTime       int64      `json:"finishTime,omitempty"`
	Progress         []Progress `json:"progress"`
}

// Session is the complete game state: every team, the clue catalog, and the
// countdown anchor. It is persisted wholesale after every mutation.
type Session struct {
	Teams         []Team `json:"teams"`
	Clues         []Clue `json:"clues"`
	IsGameStarted bool   `json:"isGameStarted"`
	GameStartTime int64  `json:"gameStartTime,omitempty"`
}

// Team returns a pointer into the session's team list, or nil.
func (s *Session) Team(id string) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// CurrentClue returns the clue the team is working on, or nil once the
// index has run past the catalog.
func (s *Session) CurrentClue(t *Team) *Clue {
	if t.CurrentClueIndex < 0 || t.CurrentClueIndex >= len(s.Clues) {
		return nil
	}
	return &s.Clues[t.CurrentClueIndex]
}

// Config holds the game tuning knobs.
type Config struct {
	GameDuration  time.Duration
	PointsPerStep int
	FirstBonus    int
}

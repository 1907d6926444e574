package hunt

import (
	"errors"
	"strings"

	"github.com/jonboulle/clockwork"
)

var (
	ErrNotStarted    = errors.New("game has not started")
	ErrTimeExpired   = errors.New("game time has expired")
	ErrFinished      = errors.New("team has already finished")
	ErrTeamNotFound  = errors.New("team not found")
	ErrWrongStep     = errors.New("operation does not match current step")
	ErrNegativeScore = errors.New("points cannot go negative")
)

// Engine advances teams through the QUESTION -> SCAN state machine and
// keeps score. It mutates the session aggregate passed to it; the caller
// owns persistence.
type Engine struct {
	cfg   Config
	clock clockwork.Clock
}

func NewEngine(cfg Config, clock clockwork.Clock) *Engine {
	return &Engine{cfg: cfg, clock: clock}
}

func (e *Engine) Config() Config { return e.cfg }

// Start anchors the countdown. The first call wins; later calls are no-ops
// so a second team pressing start cannot reset the clock.
func (e *Engine) Start(s *Session) bool {
	if s.IsGameStarted {
		return false
	}
	s.IsGameStarted = true
	s.GameStartTime = e.clock.Now().UnixMilli()
	return true
}

// AnswerResult reports the outcome of a riddle submission.
type AnswerResult struct {
	Correct      bool
	Points       int
	LocationHint string
}

// SubmitAnswer compares candidate against the current clue's canonical
// answer, case-insensitively and ignoring surrounding whitespace. A match
// moves the team to the SCAN step and awards the per-step points. A miss
// leaves the team record untouched.
func (e *Engine) SubmitAnswer(s *Session, teamID, candidate string) (AnswerResult, error) {
	team, clue, err := e.active(s, teamID)
	if err != nil {
		return AnswerResult{}, err
	}
	if team.ClueStep != StepQuestion {
		return AnswerResult{}, ErrWrongStep
	}

	if !strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(clue.Answer)) {
		return AnswerResult{Correct: false, Points: team.Points}, nil
	}

	team.ClueStep = StepScan
	team.Points += e.cfg.PointsPerStep
	slot := e.progressSlot(team, clue)
	slot.QuestionSolvedAt = e.clock.Now().UnixMilli()

	return AnswerResult{
		Correct:      true,
		Points:       team.Points,
		LocationHint: clue.LocationHint,
	}, nil
}

// ScanResult reports the outcome of a QR code submission.
type ScanResult struct {
	Correct  bool
	Bonus    bool
	Points   int
	Finished bool
	NextClue *Clue
}

// SubmitScan compares the scanned code against the current clue's QR token.
// On a match it awards the per-step points plus the first-finisher bonus if
// no other team is strictly further along, then either advances to the next
// clue or, on the last one, marks the team finished.
func (e *Engine) SubmitScan(s *Session, teamID, code string) (ScanResult, error) {
	team, clue, err := e.active(s, teamID)
	if err != nil {
		return ScanResult{}, err
	}
	if team.ClueStep != StepScan {
		return ScanResult{}, ErrWrongStep
	}

	if strings.ToUpper(strings.TrimSpace(code)) != clue.QRCodeID {
		return ScanResult{Correct: false, Points: team.Points}, nil
	}

	// A team is "first" if nobody else has passed its pre-advance index.
	// Relative rank at the moment of scan; no lock needed since the session
	// manager serializes mutations.
	bonus := true
	for i := range s.Teams {
		other := &s.Teams[i]
		if other.ID != team.ID && other.CurrentClueIndex > team.CurrentClueIndex {
			bonus = false
			break
		}
	}

	team.Points += e.cfg.PointsPerStep
	if bonus {
		team.Points += e.cfg.FirstBonus
	}
	slot := e.progressSlot(team, clue)
	slot.QRScannedAt = e.clock.Now().UnixMilli()

	res := ScanResult{Correct: true, Bonus: bonus, Points: team.Points}

	if team.CurrentClueIndex == len(s.Clues)-1 {
		team.IsFinished = true
		team.FinishTime = e.clock.Now().UnixMilli()
		res.Finished = true
		return res, nil
	}

	team.CurrentClueIndex++
	team.ClueStep = StepQuestion
	res.NextClue = &s.Clues[team.CurrentClueIndex]
	return res, nil
}

// ForceAdvance bypasses the riddle for a team stuck on QUESTION, awarding
// the per-step points as if it had been solved. Admin override.
func (e *Engine) ForceAdvance(s *Session, teamID string) error {
	team := s.Team(teamID)
	if team == nil {
		return ErrTeamNotFound
	}
	if team.IsFinished {
		return ErrFinished
	}
	if team.ClueStep != StepQuestion {
		return ErrWrongStep
	}
	clue := s.CurrentClue(team)
	if clue == nil {
		return ErrWrongStep
	}

	team.ClueStep = StepScan
	team.Points += e.cfg.PointsPerStep
	slot := e.progressSlot(team, clue)
	slot.QuestionSolvedAt = e.clock.Now().UnixMilli()
	return nil
}

// AwardPoints adjusts a team's score directly. Admin override; the total
// may not go negative.
func (e *Engine) AwardPoints(s *Session, teamID string, delta int) (int, error) {
	team := s.Team(teamID)
	if team == nil {
		return 0, ErrTeamNotFound
	}
	if team.Points+delta < 0 {
		return team.Points, ErrNegativeScore
	}
	team.Points += delta
	return team.Points, nil
}

// active fetches the team and its current clue after checking the gates
// every play operation shares: game started, time remaining, not finished.
func (e *Engine) active(s *Session, teamID string) (*Team, *Clue, error) {
	team := s.Team(teamID)
	if team == nil {
		return nil, nil, ErrTeamNotFound
	}
	if !s.IsGameStarted {
		return nil, nil, ErrNotStarted
	}
	if e.TimeLeft(s) <= 0 {
		return nil, nil, ErrTimeExpired
	}
	if team.IsFinished {
		return nil, nil, ErrFinished
	}
	clue := s.CurrentClue(team)
	if clue == nil {
		return nil, nil, ErrFinished
	}
	return team, clue, nil
}

// progressSlot returns the progress entry for the team's current clue,
// growing the slice as needed.
func (e *Engine) progressSlot(team *Team, clue *Clue) *Progress {
	for len(team.Progress) <= team.CurrentClueIndex {
		team.Progress = append(team.Progress, Progress{})
	}
	slot := &team.Progress[team.CurrentClueIndex]
	slot.ClueID = clue.ID
	return slot
}

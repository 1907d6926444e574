package hunt

import "time"

// TimeLeft derives the remaining play time from the persisted start anchor,
// clamped at zero. Because it recomputes from wall clock on every call, a
// process restart neither pauses nor resets the countdown. Before the game
// starts the full duration is reported.
func (e *Engine) TimeLeft(s *Session) time.Duration {
	if !s.IsGameStarted || s.GameStartTime == 0 {
		return e.cfg.GameDuration
	}
	elapsed := e.clock.Now().Sub(time.UnixMilli(s.GameStartTime))
	left := e.cfg.GameDuration - elapsed
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the countdown has run out.
func (e *Engine) Expired(s *Session) bool {
	return s.IsGameStarted && e.TimeLeft(s) <= 0
}

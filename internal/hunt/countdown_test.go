package hunt

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestTimeLeftClampsAtZero(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := NewEngine(Config{GameDuration: 90 * time.Minute, PointsPerStep: 10, FirstBonus: 5}, clock)

	sess := NewSession(DefaultCatalog())
	sess.IsGameStarted = true
	sess.GameStartTime = clock.Now().Add(-5400 * time.Second).UnixMilli()

	if left := engine.TimeLeft(&sess); left != 0 {
		t.Errorf("expected 0 remaining after full duration elapsed, got %v", left)
	}
	if !engine.Expired(&sess) {
		t.Error("expected Expired")
	}
}

func TestTimeLeftAnchoredToWallClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := NewEngine(Config{GameDuration: 90 * time.Minute, PointsPerStep: 10, FirstBonus: 5}, clock)

	sess := NewSession(DefaultCatalog())
	engine.Start(&sess)

	clock.Advance(30 * time.Minute)
	if left := engine.TimeLeft(&sess); left != 60*time.Minute {
		t.Errorf("expected 60m remaining, got %v", left)
	}

	// A "reload" recomputes from the same anchor.
	clock.Advance(15 * time.Minute)
	if left := engine.TimeLeft(&sess); left != 45*time.Minute {
		t.Errorf("expected 45m remaining, got %v", left)
	}
}

func TestTimeLeftBeforeStart(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := NewEngine(Config{GameDuration: 90 * time.Minute}, clock)

	sess := NewSession(DefaultCatalog())
	if left := engine.TimeLeft(&sess); left != 90*time.Minute {
		t.Errorf("expected full duration before start, got %v", left)
	}
	if engine.Expired(&sess) {
		t.Error("unstarted game should not be expired")
	}
}

package hunt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogValid(t *testing.T) {
	c := DefaultCatalog()
	if err := c.Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
	if len(c.Clues) != 5 || len(c.Teams) != 8 {
		t.Errorf("expected 5 clues and 8 teams, got %d/%d", len(c.Clues), len(c.Teams))
	}
}

func TestNewSessionInitializesTeams(t *testing.T) {
	sess := NewSession(DefaultCatalog())

	for _, team := range sess.Teams {
		if team.CurrentClueIndex != 0 || team.Points != 0 {
			t.Errorf("team %s: expected index 0 and 0 points, got %d/%d", team.ID, team.CurrentClueIndex, team.Points)
		}
		if team.ClueStep != StepQuestion {
			t.Errorf("team %s: expected QUESTION step, got %s", team.ID, team.ClueStep)
		}
		if team.IsFinished {
			t.Errorf("team %s: expected not finished", team.ID)
		}
		if len(team.Progress) != 0 {
			t.Errorf("team %s: expected empty progress", team.ID)
		}
	}
	if sess.IsGameStarted {
		t.Error("new session should not be started")
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
clues:
  - id: c1
    title: First
    question: "2+2?"
    answer: "4"
    qrCodeId: C1_QR
    locationHint: by the door
teams:
  - id: t1
    name: Alpha
    password: pw
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(c.Clues) != 1 || c.Clues[0].QRCodeID != "C1_QR" {
		t.Errorf("unexpected clues: %+v", c.Clues)
	}
	if len(c.Teams) != 1 || c.Teams[0].Name != "Alpha" {
		t.Errorf("unexpected teams: %+v", c.Teams)
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	c := DefaultCatalog()
	c.Clues[1].QRCodeID = c.Clues[0].QRCodeID
	if err := c.Validate(); err == nil {
		t.Error("expected error for duplicate qrCodeId")
	}
}

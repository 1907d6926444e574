package hunt

import "testing"

func TestRankOrdersByPointsThenIndex(t *testing.T) {
	teams := []Team{
		{ID: "a", Name: "A", Points: 30, CurrentClueIndex: 2},
		{ID: "b", Name: "B", Points: 50, CurrentClueIndex: 1},
		{ID: "c", Name: "C", Points: 50, CurrentClueIndex: 3},
		{ID: "d", Name: "D", Points: 10, CurrentClueIndex: 0},
	}

	got := Rank(teams)

	wantOrder := []string{"c", "b", "a", "d"}
	for i, id := range wantOrder {
		if got[i].TeamID != id {
			t.Errorf("position %d: expected team %s, got %s", i, id, got[i].TeamID)
		}
		if got[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, got[i].Rank)
		}
	}
}

func TestRankStableOnFullTies(t *testing.T) {
	teams := []Team{
		{ID: "x", Points: 20, CurrentClueIndex: 1},
		{ID: "y", Points: 20, CurrentClueIndex: 1},
	}
	got := Rank(teams)
	if got[0].TeamID != "x" || got[1].TeamID != "y" {
		t.Errorf("full tie should keep registry order, got %s then %s", got[0].TeamID, got[1].TeamID)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	teams := []Team{
		{ID: "a", Points: 1},
		{ID: "b", Points: 2},
	}
	Rank(teams)
	if teams[0].ID != "a" {
		t.Error("Rank reordered the input slice")
	}
}

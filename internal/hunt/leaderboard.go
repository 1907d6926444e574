package hunt

import "sort"

// Standing is one leaderboard row.
type Standing struct {
	Rank             int    `json:"rank"`
	TeamID           string `json:"teamId"`
	Name             string `json:"name"`
	Points           int    `json:"points"`
	CurrentClueIndex int    `json:"currentClueIndex"`
	IsFinished       bool   `json:"isFinished"`
	FinishTime       int64  `json:"finishTime,omitempty"`
}

// Rank orders teams by points descending, then clue index descending.
// Remaining ties keep registry order (stable sort); no further key is
// defined. Pure projection over the team list.
func Rank(teams []Team) []Standing {
	standings := make([]Standing, len(teams))
	for i, t := range teams {
		standings[i] = Standing{
			TeamID:           t.ID,
			Name:             t.Name,
			Points:           t.Points,
			CurrentClueIndex: t.CurrentClueIndex,
			IsFinished:       t.IsFinished,
			FinishTime:       t.FinishTime,
		}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		return standings[i].CurrentClueIndex > standings[j].CurrentClueIndex
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

package hunt

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TeamSeed is a registry entry before it is expanded into a progress record.
type TeamSeed struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

// Catalog is the fixed hunt definition: the ordered clue list and the team
// registry. Loaded once at startup.
type Catalog struct {
	Clues []Clue     `yaml:"clues"`
	Teams []TeamSeed `yaml:"teams"`
}

// LoadCatalog reads a catalog from a YAML file. An empty path returns the
// built-in default hunt.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks the catalog is playable.
func (c Catalog) Validate() error {
	if len(c.Clues) == 0 {
		return errors.New("catalog has no clues")
	}
	if len(c.Teams) == 0 {
		return errors.New("catalog has no teams")
	}
	clueIDs := make(map[string]bool, len(c.Clues))
	qrIDs := make(map[string]bool, len(c.Clues))
	for i, cl := range c.Clues {
		switch {
		case cl.ID == "":
			return fmt.Errorf("clue %d: missing id", i)
		case cl.Answer == "":
			return fmt.Errorf("clue %q: missing answer", cl.ID)
		case cl.QRCodeID == "":
			return fmt.Errorf("clue %q: missing qrCodeId", cl.ID)
		case clueIDs[cl.ID]:
			return fmt.Errorf("clue %q: duplicate id", cl.ID)
		case qrIDs[cl.QRCodeID]:
			return fmt.Errorf("clue %q: duplicate qrCodeId %q", cl.ID, cl.QRCodeID)
		}
		clueIDs[cl.ID] = true
		qrIDs[cl.QRCodeID] = true
	}
	teamIDs := make(map[string]bool, len(c.Teams))
	for i, t := range c.Teams {
		if t.ID == "" || t.Name == "" {
			return fmt.Errorf("team %d: missing id or name", i)
		}
		if teamIDs[t.ID] {
			return fmt.Errorf("team %q: duplicate id", t.ID)
		}
		teamIDs[t.ID] = true
	}
	return nil
}

// NewSession expands the registry into fresh team records: everyone at the
// first clue's riddle with zero points.
func NewSession(c Catalog) Session {
	teams := make([]Team, len(c.Teams))
	for i, seed := range c.Teams {
		teams[i] = Team{
			ID:       seed.ID,
			Name:     seed.Name,
			Password: seed.Password,
			ClueStep: StepQuestion,
			Progress: []Progress{},
		}
	}
	clues := make([]Clue, len(c.Clues))
	copy(clues, c.Clues)
	return Session{Teams: teams, Clues: clues}
}

// DefaultCatalog is the built-in campus hunt used when no catalog file is
// configured: five riddles and eight teams.
func DefaultCatalog() Catalog {
	return Catalog{
		Clues: []Clue{
			{
				ID:           "clue-1",
				Title:        "The Burning Gates",
				Question:     "I have keys but no locks. I have a space but no room. You can enter, but never leave. What am I?",
				Answer:       "keyboard",
				QRCodeID:     "CLUE_1_QR",
				LocationHint: "Find the glowing screen in the main computer lab.",
			},
			{
				ID:           "clue-2",
				Title:        "Echoes of Wisdom",
				Question:     "The more of me there is, the less you see. What am I?",
				Answer:       "darkness",
				QRCodeID:     "CLUE_2_QR",
				LocationHint: "Search the dimmest corner of the library basement.",
			},
			{
				ID:           "clue-3",
				Title:        "Fluid Ambition",
				Question:     "I can run but not walk. I have a mouth but never talk. I have a bed but never sleep. What am I?",
				Answer:       "river",
				QRCodeID:     "CLUE_3_QR",
				LocationHint: "Near the campus fountain where students gather.",
			},
			{
				ID:           "clue-4",
				Title:        "Iron Resolve",
				Question:     "What gets wetter and wetter the more it dries?",
				Answer:       "towel",
				QRCodeID:     "CLUE_4_QR",
				LocationHint: "The locker rooms in the sports complex.",
			},
			{
				ID:           "clue-5",
				Title:        "Eternal Flame",
				Question:     "I am not alive, but I grow; I don't have lungs, but I need air; I don't have a mouth, but water kills me. What am I?",
				Answer:       "fire",
				QRCodeID:     "CLUE_5_QR",
				LocationHint: "The outdoor amphitheater, center stage.",
			},
		},
		Teams: []TeamSeed{
			{ID: "t1", Name: "Phoenix Squad", Password: "student"},
			{ID: "t2", Name: "Blaze Runners", Password: "student"},
			{ID: "t3", Name: "Inferno Kings", Password: "student"},
			{ID: "t4", Name: "Ember Knights", Password: "student"},
			{ID: "t5", Name: "Pyros", Password: "student"},
			{ID: "t6", Name: "Solar Flare", Password: "student"},
			{ID: "t7", Name: "Dragon Breath", Password: "student"},
			{ID: "t8", Name: "Volcano Force", Password: "student"},
		},
	}
}

package rotation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/courtday/courtday/internal/models"
)

func pattern14() models.RotationPattern {
	return models.RotationPattern{
		CourtCount:  1,
		PlayerCount: 4,
		Rounds: []models.RotationRound{
			{Courts: []models.CourtAssignment{{Court: 1, TeamA: []int{1, 2}, TeamB: []int{3, 4}}}},
			{Courts: []models.CourtAssignment{{Court: 1, TeamA: []int{1, 3}, TeamB: []int{2, 4}}}},
			{Courts: []models.CourtAssignment{{Court: 1, TeamA: []int{1, 4}, TeamB: []int{2, 3}}}},
		},
	}
}

func TestLookup(t *testing.T) {
	c, err := NewCatalogue([]models.RotationPattern{pattern14()})
	if err != nil {
		t.Fatalf("NewCatalogue: %v", err)
	}

	p, err := c.Lookup(1, 4)
	if err != nil {
		t.Fatalf("Lookup(1, 4): %v", err)
	}
	if len(p.Rounds) != 3 {
		t.Errorf("got %d rounds, want 3", len(p.Rounds))
	}

	if _, err := c.Lookup(2, 9); !errors.Is(err, ErrNoPattern) {
		t.Errorf("Lookup(2, 9) err = %v, want ErrNoPattern", err)
	}
}

func TestNewCatalogueRejectsBadPatterns(t *testing.T) {
	tcs := []struct {
		name   string
		mutate func(*models.RotationPattern)
	}{
		{
			name:   "position out of range",
			mutate: func(p *models.RotationPattern) { p.Rounds[0].Courts[0].TeamA = []int{1, 5} },
		},
		{
			name:   "position plays twice in one round",
			mutate: func(p *models.RotationPattern) { p.Rounds[0].Courts[0].TeamB = []int{1, 3} },
		},
		{
			name:   "court out of range",
			mutate: func(p *models.RotationPattern) { p.Rounds[0].Courts[0].Court = 2 },
		},
		{
			name:   "empty team",
			mutate: func(p *models.RotationPattern) { p.Rounds[0].Courts[0].TeamB = nil },
		},
		{
			name:   "no rounds",
			mutate: func(p *models.RotationPattern) { p.Rounds = nil },
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			p := pattern14()
			tc.mutate(&p)
			if _, err := NewCatalogue([]models.RotationPattern{p}); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestNewCatalogueRejectsDuplicateKey(t *testing.T) {
	if _, err := NewCatalogue([]models.RotationPattern{pattern14(), pattern14()}); err == nil {
		t.Error("expected duplicate key error, got nil")
	}
}

func TestLoadCatalogue(t *testing.T) {
	yml := `
patterns:
  - courts: 1
    players: 4
    rounds:
      - courts:
          - { court: 1, team_a: [1, 2], team_b: [3, 4] }
      - courts:
          - { court: 1, team_a: [1, 3], team_b: [2, 4] }
`
	path := filepath.Join(t.TempDir(), "rotations.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalogue(path)
	if err != nil {
		t.Fatalf("LoadCatalogue: %v", err)
	}
	if c.Size() != 1 {
		t.Errorf("got %d patterns, want 1", c.Size())
	}
	p, err := c.Lookup(1, 4)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got := p.Rounds[1].Courts[0].TeamA; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("round 2 team A = %v, want [1 3]", got)
	}
}

func TestLoadCatalogueShippedFile(t *testing.T) {
	c, err := LoadCatalogue(filepath.Join("..", "..", "config", "rotations.yaml"))
	if err != nil {
		t.Fatalf("shipped catalogue does not load: %v", err)
	}
	for _, k := range [][2]int{{1, 2}, {1, 4}, {1, 5}, {2, 8}, {3, 12}} {
		if _, err := c.Lookup(k[0], k[1]); err != nil {
			t.Errorf("shipped catalogue missing pattern for %d courts, %d players", k[0], k[1])
		}
	}
}

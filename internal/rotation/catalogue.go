package rotation

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/courtday/courtday/internal/models"
)

// ErrNoPattern is returned when no curated pattern exists for a
// (court_count, player_count) pair. This is a configuration gap, not a
// recoverable runtime condition: there is no algorithmic fallback.
var ErrNoPattern = errors.New("no rotation pattern for court/player count")

type key struct {
	courts  int
	players int
}

// Catalogue holds the curated rotation patterns, keyed by
// (court_count, player_count).
type Catalogue struct {
	patterns map[key]models.RotationPattern
}

type catalogueFile struct {
	Patterns []models.RotationPattern `yaml:"patterns"`
}

// LoadCatalogue reads a YAML pattern file and validates every entry.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rotation catalogue: %w", err)
	}

	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rotation catalogue: %w", err)
	}

	return NewCatalogue(file.Patterns)
}

// NewCatalogue builds a catalogue from already-decoded patterns.
func NewCatalogue(patterns []models.RotationPattern) (*Catalogue, error) {
	c := &Catalogue{patterns: make(map[key]models.RotationPattern, len(patterns))}
	for _, p := range patterns {
		if err := validatePattern(p); err != nil {
			return nil, fmt.Errorf("invalid pattern (%d courts, %d players): %w", p.CourtCount, p.PlayerCount, err)
		}
		k := key{courts: p.CourtCount, players: p.PlayerCount}
		if _, dup := c.patterns[k]; dup {
			return nil, fmt.Errorf("duplicate pattern for %d courts, %d players", p.CourtCount, p.PlayerCount)
		}
		c.patterns[k] = p
	}
	return c, nil
}

// Lookup returns the pattern for the given court and player counts.
// A missing pattern is a hard error; callers must not fall back.
func (c *Catalogue) Lookup(courtCount, playerCount int) (models.RotationPattern, error) {
	p, ok := c.patterns[key{courts: courtCount, players: playerCount}]
	if !ok {
		return models.RotationPattern{}, fmt.Errorf("%w: %d courts, %d players", ErrNoPattern, courtCount, playerCount)
	}
	return p, nil
}

// Size returns the number of loaded patterns.
func (c *Catalogue) Size() int {
	return len(c.patterns)
}

func validatePattern(p models.RotationPattern) error {
	if p.CourtCount < 1 {
		return fmt.Errorf("court count must be >= 1")
	}
	if p.PlayerCount < 2 {
		return fmt.Errorf("player count must be >= 2")
	}
	if len(p.Rounds) == 0 {
		return fmt.Errorf("pattern has no rounds")
	}
	for ri, round := range p.Rounds {
		if len(round.Courts) == 0 {
			return fmt.Errorf("round %d has no courts", ri+1)
		}
		seenCourts := make(map[int]bool)
		seenPositions := make(map[int]bool)
		for _, ct := range round.Courts {
			if ct.Court < 1 || ct.Court > p.CourtCount {
				return fmt.Errorf("round %d: court %d out of range", ri+1, ct.Court)
			}
			if seenCourts[ct.Court] {
				return fmt.Errorf("round %d: court %d assigned twice", ri+1, ct.Court)
			}
			seenCourts[ct.Court] = true
			if len(ct.TeamA) == 0 || len(ct.TeamB) == 0 {
				return fmt.Errorf("round %d court %d: empty team", ri+1, ct.Court)
			}
			for _, pos := range ct.TeamA {
				if err := checkPosition(pos, p.PlayerCount, seenPositions); err != nil {
					return fmt.Errorf("round %d court %d: %w", ri+1, ct.Court, err)
				}
			}
			for _, pos := range ct.TeamB {
				if err := checkPosition(pos, p.PlayerCount, seenPositions); err != nil {
					return fmt.Errorf("round %d court %d: %w", ri+1, ct.Court, err)
				}
			}
		}
	}
	return nil
}

func checkPosition(pos, playerCount int, seen map[int]bool) error {
	if pos < 1 || pos > playerCount {
		return fmt.Errorf("position %d out of range", pos)
	}
	if seen[pos] {
		return fmt.Errorf("position %d plays twice in one round", pos)
	}
	seen[pos] = true
	return nil
}

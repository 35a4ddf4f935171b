package models

// RotationPattern is curated lookup data keyed by (court_count, player_count):
// an ordered list of rounds, each assigning two 1-indexed position groups to
// every court in play. Patterns are authored out-of-band; the engine never
// derives rotations algorithmically.
type RotationPattern struct {
	CourtCount  int             `yaml:"courts" json:"court_count"`
	PlayerCount int             `yaml:"players" json:"player_count"`
	Rounds      []RotationRound `yaml:"rounds" json:"rounds"`
}

// RotationRound is one round of court assignments.
type RotationRound struct {
	Courts []CourtAssignment `yaml:"courts" json:"courts"`
}

// CourtAssignment pairs two position groups on one court. Positions are
// 1-indexed into the ordered attendee roster.
type CourtAssignment struct {
	Court int   `yaml:"court" json:"court"`
	TeamA []int `yaml:"team_a" json:"team_a"`
	TeamB []int `yaml:"team_b" json:"team_b"`
}

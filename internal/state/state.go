package state

import (
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/pkg/models"
)

// MatchDefaults seeds the descriptive fields of a fresh scoreboard
type MatchDefaults struct {
	MatchName   string
	MatchVenue  string
	MatchType   string
	BattingTeam string
	BowlingTeam string
}

// DefaultMatchDefaults returns the descriptors used when nothing is configured
func DefaultMatchDefaults() MatchDefaults {
	return MatchDefaults{
		MatchName:   "Cricket World Cup 2025",
		MatchVenue:  "Melbourne Cricket Ground",
		MatchType:   "T20",
		BattingTeam: "Team 1",
		BowlingTeam: "Team 2",
	}
}

// NewMatchState builds a zeroed scoreboard with the first batsman on strike
func NewMatchState(d MatchDefaults) models.MatchState {
	return models.MatchState{
		MatchName:  d.MatchName,
		MatchVenue: d.MatchVenue,
		MatchType:  d.MatchType,
		BattingTeam: models.BattingTeam{
			Name: d.BattingTeam,
		},
		BowlingTeam: models.BowlingTeam{
			Name: d.BowlingTeam,
		},
		Batsmen: [2]models.Batsman{
			{Name: "Batsman 1", OnStrike: true},
			{Name: "Batsman 2"},
		},
		Bowler:      models.Bowler{Name: "Bowler"},
		CurrentOver: []models.BallEvent{},
	}
}

// DefaultMatchState returns NewMatchState(DefaultMatchDefaults())
func DefaultMatchState() models.MatchState {
	return NewMatchState(DefaultMatchDefaults())
}

// Clone returns a copy of s that shares no memory with it
func Clone(s models.MatchState) models.MatchState {
	out := s

	if s.BattingTeam.Target != nil {
		target := *s.BattingTeam.Target
		out.BattingTeam.Target = &target
	}
	if s.RequiredRunRate != nil {
		rrr := *s.RequiredRunRate
		out.RequiredRunRate = &rrr
	}

	out.CurrentOver = make([]models.BallEvent, len(s.CurrentOver))
	copy(out.CurrentOver, s.CurrentOver)

	return out
}

// Store holds the single live scoreboard.
// It is not safe for concurrent use; the processor serializes access.
type Store struct {
	current models.MatchState
}

// New creates a store seeded with a copy of initial
func New(initial models.MatchState) *Store {
	return &Store{current: Clone(initial)}
}

// Current returns a copy of the live state
func (s *Store) Current() models.MatchState {
	return Clone(s.current)
}

// Replace swaps the live state for a copy of next
func (s *Store) Replace(next models.MatchState) {
	s.current = Clone(next)
}

// Mutate applies fn to the live state in place
func (s *Store) Mutate(fn func(*models.MatchState)) {
	fn(&s.current)
}

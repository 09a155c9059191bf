package commands

import (
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/pkg/models"
)

// Command is one operator instruction. The set of implementations is closed.
type Command interface {
	// Type returns the wire name of the command
	Type() string
	isCommand()
}

// Runs records a scoring delivery
type Runs struct {
	Value int
}

// Wicket records a dismissal on a legal delivery
type Wicket struct{}

// Extras records one run conceded as an extra
type Extras struct {
	Kind models.ExtraKind
}

// Rotate swaps the batsman on strike
type Rotate struct{}

// CompleteOver closes the current over
type CompleteOver struct{}

// UpdateTeams replaces the match and team descriptors
type UpdateTeams struct {
	BattingTeam models.TeamDetails
	BowlingTeam models.TeamDetails
	MatchName   string
	MatchVenue  string
	MatchType   string
}

// UpdatePlayers replaces the names of the players in the middle.
// Slot 0 is on strike only when Striker equals Batsman1.
type UpdatePlayers struct {
	Batsman1 string
	Batsman2 string
	Bowler   string
	Striker  string
}

// SetTarget sets the chase target. A nil Value clears it.
type SetTarget struct {
	Value *int
}

// Undo restores the previous snapshot
type Undo struct{}

func (Runs) Type() string          { return models.CommandRuns }
func (Wicket) Type() string        { return models.CommandWicket }
func (Extras) Type() string        { return models.CommandExtras }
func (Rotate) Type() string        { return models.CommandRotate }
func (CompleteOver) Type() string  { return models.CommandOver }
func (UpdateTeams) Type() string   { return models.CommandUpdateTeams }
func (UpdatePlayers) Type() string { return models.CommandUpdatePlayers }
func (SetTarget) Type() string     { return models.CommandSetTarget }
func (Undo) Type() string          { return models.CommandUndo }

func (Runs) isCommand()          {}
func (Wicket) isCommand()        {}
func (Extras) isCommand()        {}
func (Rotate) isCommand()        {}
func (CompleteOver) isCommand()  {}
func (UpdateTeams) isCommand()   {}
func (UpdatePlayers) isCommand() {}
func (SetTarget) isCommand()     {}
func (Undo) isCommand()          {}

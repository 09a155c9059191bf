package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MatchState is the full scoreboard pushed to viewers
type MatchState struct {
	MatchName       string      `json:"matchName"`
	MatchVenue      string      `json:"matchVenue"`
	MatchType       string      `json:"matchType"`
	BattingTeam     BattingTeam `json:"battingTeam"`
	BowlingTeam     BowlingTeam `json:"bowlingTeam"`
	Batsmen         [2]Batsman  `json:"batsmen"`
	Bowler          Bowler      `json:"bowler"`
	CurrentOver     []BallEvent `json:"currentOver"`
	RequiredRunRate *float64    `json:"requiredRunRate"`
}

// BattingTeam holds the innings totals
type BattingTeam struct {
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Overs   int    `json:"overs"`
	Balls   int    `json:"balls"` // legal deliveries only
	Target  *int   `json:"target"`
}

// BowlingTeam identifies the fielding side
type BowlingTeam struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Batsman is one of the two players at the crease
type Batsman struct {
	Name     string `json:"name"`
	Runs     int    `json:"runs"`
	Balls    int    `json:"balls"`
	Fours    int    `json:"fours"`
	Sixes    int    `json:"sixes"`
	OnStrike bool   `json:"onStrike"`
}

// Bowler is the player currently bowling
type Bowler struct {
	Name    string `json:"name"`
	Overs   int    `json:"overs"`
	Balls   int    `json:"balls"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
}

// StrikerIndex returns the slot of the batsman currently on strike
func (s MatchState) StrikerIndex() int {
	if s.Batsmen[0].OnStrike {
		return 0
	}
	return 1
}

// BallKind discriminates the BallEvent variants
type BallKind string

const (
	BallRuns   BallKind = "runs"
	BallWicket BallKind = "wicket"
	BallExtra  BallKind = "extras"
)

// ExtraKind is the type of extra conceded
type ExtraKind string

const (
	ExtraWide   ExtraKind = "wide"
	ExtraNoBall ExtraKind = "no-ball"
	ExtraBye    ExtraKind = "bye"
	ExtraLegBye ExtraKind = "leg-bye"
)

// Valid reports whether k is one of the four known extras
func (k ExtraKind) Valid() bool {
	switch k {
	case ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
		return true
	}
	return false
}

// BallEvent is one delivery in the current over.
// Runs is set for BallRuns, Extra for BallExtra; BallWicket carries nothing.
type BallEvent struct {
	Kind  BallKind
	Runs  int
	Extra ExtraKind
}

// RunsBall creates a scoring delivery event
func RunsBall(runs int) BallEvent {
	return BallEvent{Kind: BallRuns, Runs: runs}
}

// WicketBall creates a dismissal event
func WicketBall() BallEvent {
	return BallEvent{Kind: BallWicket}
}

// ExtraBall creates an extras event
func ExtraBall(kind ExtraKind) BallEvent {
	return BallEvent{Kind: BallExtra, Extra: kind}
}

// CountsAsDelivery reports whether the event was a runs or wicket ball
func (b BallEvent) CountsAsDelivery() bool {
	return b.Kind == BallRuns || b.Kind == BallWicket
}

type ballEventJSON struct {
	Type  BallKind        `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes the event as {"type":..., "value":...}
func (b BallEvent) MarshalJSON() ([]byte, error) {
	out := ballEventJSON{Type: b.Kind}
	switch b.Kind {
	case BallRuns:
		out.Value = json.RawMessage(strconv.Itoa(b.Runs))
	case BallExtra:
		v, err := json.Marshal(string(b.Extra))
		if err != nil {
			return nil, err
		}
		out.Value = v
	case BallWicket:
	default:
		return nil, fmt.Errorf("unknown ball kind %q", b.Kind)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the {"type":..., "value":...} form
func (b *BallEvent) UnmarshalJSON(data []byte) error {
	var in ballEventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*b = BallEvent{Kind: in.Type}
	switch in.Type {
	case BallRuns:
		return json.Unmarshal(in.Value, &b.Runs)
	case BallExtra:
		var kind string
		if err := json.Unmarshal(in.Value, &kind); err != nil {
			return err
		}
		b.Extra = ExtraKind(kind)
		return nil
	case BallWicket:
		return nil
	default:
		return fmt.Errorf("unknown ball kind %q", in.Type)
	}
}

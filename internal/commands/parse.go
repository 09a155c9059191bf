package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/pkg/models"
)

// ErrMalformedCommand is returned for messages that cannot become a Command
var ErrMalformedCommand = errors.New("malformed command")

// Parse decodes a raw wire message into a Command
func Parse(data []byte) (Command, error) {
	var msg models.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCommand, err)
	}
	return FromMessage(msg)
}

// FromMessage validates an already decoded message and converts it
func FromMessage(msg models.ClientMessage) (Command, error) {
	switch msg.Type {
	case models.CommandRuns:
		var runs int
		if !hasValue(msg.Value) {
			return nil, fmt.Errorf("%w: runs requires a value", ErrMalformedCommand)
		}
		if err := json.Unmarshal(msg.Value, &runs); err != nil {
			return nil, fmt.Errorf("%w: runs value: %v", ErrMalformedCommand, err)
		}
		return Runs{Value: runs}, nil

	case models.CommandWicket:
		return Wicket{}, nil

	case models.CommandExtras:
		var kind string
		if err := json.Unmarshal(msg.Value, &kind); err != nil {
			return nil, fmt.Errorf("%w: extras value: %v", ErrMalformedCommand, err)
		}
		if !models.ExtraKind(kind).Valid() {
			return nil, fmt.Errorf("%w: unknown extras kind %q", ErrMalformedCommand, kind)
		}
		return Extras{Kind: models.ExtraKind(kind)}, nil

	case models.CommandRotate:
		return Rotate{}, nil

	case models.CommandOver:
		return CompleteOver{}, nil

	case models.CommandUpdateTeams:
		if msg.BattingTeam == nil || msg.BowlingTeam == nil {
			return nil, fmt.Errorf("%w: updateTeams requires battingTeam and bowlingTeam", ErrMalformedCommand)
		}
		return UpdateTeams{
			BattingTeam: *msg.BattingTeam,
			BowlingTeam: *msg.BowlingTeam,
			MatchName:   msg.MatchName,
			MatchVenue:  msg.MatchVenue,
			MatchType:   msg.MatchType,
		}, nil

	case models.CommandUpdatePlayers:
		return UpdatePlayers{
			Batsman1: msg.Batsman1,
			Batsman2: msg.Batsman2,
			Bowler:   msg.Bowler,
			Striker:  msg.Striker,
		}, nil

	case models.CommandSetTarget:
		target, err := parseTarget(msg.Value)
		if err != nil {
			return nil, err
		}
		return SetTarget{Value: target}, nil

	case models.CommandUndo:
		return Undo{}, nil

	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformedCommand)

	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedCommand, msg.Type)
	}
}

// parseTarget accepts an integer or any falsy JSON value (absent, null,
// false, 0, ""). Falsy values and non-positive integers clear the target.
func parseTarget(raw json.RawMessage) (*int, error) {
	if !hasValue(raw) {
		return nil, nil
	}

	switch string(bytes.TrimSpace(raw)) {
	case "false", `""`:
		return nil, nil
	}

	var target int
	if err := json.Unmarshal(raw, &target); err != nil {
		return nil, fmt.Errorf("%w: setTarget value: %v", ErrMalformedCommand, err)
	}
	if target <= 0 {
		return nil, nil
	}
	return &target, nil
}

func hasValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

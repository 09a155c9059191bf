package models

import (
	"encoding/json"
	"time"
)

// Message types for WebSocket communication
const (
	MessageTypeInit   = "init"
	MessageTypeUpdate = "update"
)

// Command types accepted from operators
const (
	CommandRuns          = "runs"
	CommandWicket        = "wicket"
	CommandExtras        = "extras"
	CommandRotate        = "rotate"
	CommandOver          = "over"
	CommandUpdateTeams   = "updateTeams"
	CommandUpdatePlayers = "updatePlayers"
	CommandSetTarget     = "setTarget"
	CommandUndo          = "undo"
)

// ClientMessage represents a command from an operator to the server.
// Fields are flat on the wire; which ones are meaningful depends on Type.
type ClientMessage struct {
	Type string `json:"type"`

	// Value carries the runs scored, the extras kind or the target.
	// It is kept raw so its shape can be checked per command type.
	Value json.RawMessage `json:"value,omitempty"`

	// updateTeams
	BattingTeam *TeamDetails `json:"battingTeam,omitempty"`
	BowlingTeam *TeamDetails `json:"bowlingTeam,omitempty"`
	MatchName   string       `json:"matchName,omitempty"`
	MatchVenue  string       `json:"matchVenue,omitempty"`
	MatchType   string       `json:"matchType,omitempty"`

	// updatePlayers
	Batsman1 string `json:"batsman1,omitempty"`
	Batsman2 string `json:"batsman2,omitempty"`
	Bowler   string `json:"bowler,omitempty"`
	Striker  string `json:"striker,omitempty"`
}

// TeamDetails is the name/logo pair carried by updateTeams
type TeamDetails struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string     `json:"type"`
	Data MatchState `json:"data"`
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"` // Percentage
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

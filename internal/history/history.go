package history

import (
	"errors"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/state"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/pkg/models"
)

// MaxHistory is the number of snapshots kept for undo
const MaxHistory = 20

// ErrEmptyHistory is returned by Pop when there is nothing to undo
var ErrEmptyHistory = errors.New("history is empty")

// Stack is a bounded stack of scoreboard snapshots, oldest first
type Stack struct {
	entries []models.MatchState
	max     int
}

// NewStack creates an empty stack holding at most MaxHistory snapshots
func NewStack() *Stack {
	return &Stack{
		entries: make([]models.MatchState, 0, MaxHistory+1),
		max:     MaxHistory,
	}
}

// Snapshot stores a deep copy of s, evicting the oldest entry when full
func (h *Stack) Snapshot(s models.MatchState) {
	h.entries = append(h.entries, state.Clone(s))
	if len(h.entries) > h.max {
		h.entries[0] = models.MatchState{}
		h.entries = h.entries[1:]
	}
}

// Pop removes and returns the most recent snapshot
func (h *Stack) Pop() (models.MatchState, error) {
	if len(h.entries) == 0 {
		return models.MatchState{}, ErrEmptyHistory
	}

	last := h.entries[len(h.entries)-1]
	h.entries[len(h.entries)-1] = models.MatchState{}
	h.entries = h.entries[:len(h.entries)-1]
	return last, nil
}

// Len returns the number of stored snapshots
func (h *Stack) Len() int {
	return len(h.entries)
}

// Clear drops every snapshot
func (h *Stack) Clear() {
	h.entries = h.entries[:0]
}

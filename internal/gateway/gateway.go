package gateway

import (
	"fmt"
	"sync"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/state"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/pkg/models"
)

// Receiver accepts scoreboard updates. Deliver must not block.
type Receiver interface {
	Deliver(state models.MatchState)
}

// ReceiverFunc adapts a function to Receiver
type ReceiverFunc func(state models.MatchState)

// Deliver calls f(state)
func (f ReceiverFunc) Deliver(state models.MatchState) {
	f(state)
}

// Gateway fans every update out to its receivers
type Gateway struct {
	receivers []Receiver
	mu        sync.RWMutex
}

// New creates a gateway delivering to receivers in order
func New(receivers ...Receiver) *Gateway {
	return &Gateway{receivers: receivers}
}

// Add registers another receiver
func (g *Gateway) Add(r Receiver) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.receivers = append(g.receivers, r)
}

// Broadcast hands each receiver its own copy of s.
// A receiver that panics is logged and skipped.
func (g *Gateway) Broadcast(s models.MatchState) {
	g.mu.RLock()
	receivers := make([]Receiver, len(g.receivers))
	copy(receivers, g.receivers)
	g.mu.RUnlock()

	for _, r := range receivers {
		deliver(r, state.Clone(s))
	}
}

func deliver(r Receiver, s models.MatchState) {
	defer func() {
		if err := recover(); err != nil {
			fmt.Printf("⚠️  Receiver %T failed: %v\n", r, err)
		}
	}()
	r.Deliver(s)
}

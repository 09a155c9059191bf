package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/pkg/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Buffer size for updates waiting to be written
	queueSize = 256

	// Approximate number of entries kept in the update stream
	maxStreamLen = 1000

	publishTimeout = 5 * time.Second
)

// StreamAdder is the subset of the Redis client used by the publisher
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamPublisher mirrors scoreboard updates to a Redis stream
type StreamPublisher struct {
	client  StreamAdder
	stream  string
	updates chan models.MatchState

	published int64
	failed    int64
	dropped   int64
	mu        sync.Mutex
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client StreamAdder, stream string) *StreamPublisher {
	return &StreamPublisher{
		client:  client,
		stream:  stream,
		updates: make(chan models.MatchState, queueSize),
	}
}

// Deliver queues s for publishing without waiting on Redis
func (p *StreamPublisher) Deliver(s models.MatchState) {
	select {
	case p.updates <- s:
	default:
		p.mu.Lock()
		p.dropped++
		p.mu.Unlock()
		fmt.Println("⚠️  Publisher queue full, dropping update")
	}
}

// Run writes queued updates until ctx is cancelled
func (p *StreamPublisher) Run(ctx context.Context) {
	fmt.Printf("✓ Stream publisher started (%s)\n", p.stream)

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-p.updates:
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			err := p.Publish(pubCtx, s)
			cancel()

			p.mu.Lock()
			if err != nil {
				p.failed++
			} else {
				p.published++
			}
			p.mu.Unlock()

			if err != nil {
				fmt.Printf("⚠️  Failed to publish update to %s: %v\n", p.stream, err)
			}
		}
	}
}

// Publish writes one scoreboard to the stream
func (p *StreamPublisher) Publish(ctx context.Context, s models.MatchState) error {
	values, err := streamValues(s)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: values,
	}).Err()
}

// GetMetrics returns publisher counters
func (p *StreamPublisher) GetMetrics() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	return map[string]interface{}{
		"stream":    p.stream,
		"published": p.published,
		"failed":    p.failed,
		"dropped":   p.dropped,
		"queued":    len(p.updates),
	}
}

func streamValues(s models.MatchState) (map[string]interface{}, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling scoreboard update: %w", err)
	}

	return map[string]interface{}{
		"data":    string(data),
		"runs":    s.BattingTeam.Runs,
		"wickets": s.BattingTeam.Wickets,
		"balls":   s.BattingTeam.Balls,
	}, nil
}

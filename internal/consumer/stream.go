package consumer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/commands"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	// Batch size for reading messages
	batchSize = 100

	// Block duration when waiting for new messages
	blockDuration = 1 * time.Second
)

// CommandSink receives commands read from the stream
type CommandSink interface {
	Submit(ctx context.Context, cmd commands.Command) error
	RecordMalformed()
}

// StreamConsumer consumes operator commands from a Redis Stream
type StreamConsumer struct {
	redis        redis.Cmdable
	sink         CommandSink
	streamConfig config.StreamConfig
}

// NewStreamConsumer creates a new stream consumer
func NewStreamConsumer(redisClient redis.Cmdable, sink CommandSink, streamConfig config.StreamConfig) *StreamConsumer {
	return &StreamConsumer{
		redis:        redisClient,
		sink:         sink,
		streamConfig: streamConfig,
	}
}

// Start consumes the command stream until ctx is cancelled
func (sc *StreamConsumer) Start(ctx context.Context) error {
	stream := sc.streamConfig.CommandStream
	fmt.Printf("✓ Stream consumer started\n  📡 Consuming stream: %s\n", stream)

	if err := sc.createConsumerGroup(ctx, stream); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// Read messages from stream
		streams, err := sc.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    sc.streamConfig.ConsumerGroup,
			Consumer: sc.streamConfig.ConsumerID,
			Streams:  []string{stream, ">"},
			Count:    batchSize,
			Block:    blockDuration,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// No new messages - continue
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("⚠️  Stream read error (%s): %v\n", stream, err)
			time.Sleep(1 * time.Second)
			continue
		}

		// Commands within a batch stay in stream order
		for _, s := range streams {
			for _, message := range s.Messages {
				sc.processMessage(ctx, s.Stream, message)
			}
		}
	}
}

// createConsumerGroup creates the consumer group, tolerating an existing one
func (sc *StreamConsumer) createConsumerGroup(ctx context.Context, stream string) error {
	err := sc.redis.XGroupCreateMkStream(ctx, stream, sc.streamConfig.ConsumerGroup, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("creating consumer group for %s: %w", stream, err)
	}
	return nil
}

// processMessage parses a single stream entry and queues its command.
// Every entry is acked, malformed ones included, so they are not redelivered.
func (sc *StreamConsumer) processMessage(ctx context.Context, stream string, msg redis.XMessage) {
	defer sc.ackMessage(ctx, stream, msg.ID)

	cmd, err := ParseEntry(msg)
	if err != nil {
		sc.sink.RecordMalformed()
		fmt.Printf("⚠️  Ignoring entry %s in %s: %v\n", msg.ID, stream, err)
		return
	}

	if err := sc.sink.Submit(ctx, cmd); err != nil {
		fmt.Printf("⚠️  Failed to queue %s from %s: %v\n", cmd.Type(), stream, err)
	}
}

// ParseEntry extracts the command carried in an entry's "data" field
func ParseEntry(msg redis.XMessage) (commands.Command, error) {
	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: entry has no data field", commands.ErrMalformedCommand)
	}
	return commands.Parse([]byte(dataStr))
}

// ackMessage acknowledges a message in the stream
func (sc *StreamConsumer) ackMessage(ctx context.Context, stream string, messageID string) {
	err := sc.redis.XAck(ctx, stream, sc.streamConfig.ConsumerGroup, messageID).Err()
	if err != nil {
		fmt.Printf("⚠️  Failed to ack message %s in %s: %v\n", messageID, stream, err)
	}
}

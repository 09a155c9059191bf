package hub

import (
	"context"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/client"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/state"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Clients without a connection are enough for the hub, which only touches Send
func newTestClient(h *Hub, id string) *client.Client {
	return client.NewClient(id, nil, h, nil)
}

func receive(t *testing.T, c *client.Client) models.ServerMessage {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return models.ServerMessage{}
	}
}

func withRuns(runs int) models.MatchState {
	s := state.DefaultMatchState()
	s.BattingTeam.Runs = runs
	return s
}

func TestHub_RegisterSendsInit(t *testing.T) {
	h := NewHub(withRuns(7))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := newTestClient(h, "viewer-1")
	h.Register(c)

	msg := receive(t, c)
	assert.Equal(t, models.MessageTypeInit, msg.Type)
	assert.Equal(t, 7, msg.Data.BattingTeam.Runs)
	assert.Equal(t, 1, h.GetClientCount())
}

func TestHub_DeliverBroadcastsUpdate(t *testing.T) {
	h := NewHub(state.DefaultMatchState())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	a := newTestClient(h, "a")
	b := newTestClient(h, "b")
	h.Register(a)
	h.Register(b)
	receive(t, a)
	receive(t, b)

	h.Deliver(withRuns(4))

	for _, c := range []*client.Client{a, b} {
		msg := receive(t, c)
		assert.Equal(t, models.MessageTypeUpdate, msg.Type)
		assert.Equal(t, 4, msg.Data.BattingTeam.Runs)
	}
	assert.Equal(t, 4, h.Latest().BattingTeam.Runs)
}

func TestHub_InitCoversQueuedUpdates(t *testing.T) {
	h := NewHub(state.DefaultMatchState())

	// Queued before the loop runs; whichever order the loop picks them up,
	// the client sees them only through its init message
	h.Deliver(withRuns(1))
	h.Deliver(withRuns(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := newTestClient(h, "late")
	go h.Register(c)
	go h.Run(ctx)

	first := receive(t, c)
	assert.Equal(t, models.MessageTypeInit, first.Type)
	assert.Equal(t, 2, first.Data.BattingTeam.Runs)

	h.Deliver(withRuns(3))

	next := receive(t, c)
	assert.Equal(t, models.MessageTypeUpdate, next.Type)
	assert.Equal(t, 3, next.Data.BattingTeam.Runs)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := NewHub(state.DefaultMatchState())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := newTestClient(h, "leaving")
	h.Register(c)
	receive(t, c)

	h.Unregister(c)
	require.Eventually(t, func() bool {
		return h.GetClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestHub_ShutdownReleasesCallers(t *testing.T) {
	h := NewHub(state.DefaultMatchState())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := newTestClient(h, "c")
	h.Register(c)
	cancel()

	done := make(chan struct{})
	go func() {
		h.Unregister(c)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister blocked after shutdown")
	}
}

func TestHub_DeliverNeverBlocks(t *testing.T) {
	// No Run loop: every update beyond the buffer is dropped
	h := NewHub(state.DefaultMatchState())

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBufferSize+10; i++ {
			h.Deliver(withRuns(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Deliver blocked")
	}

	metrics := h.GetMetrics()
	assert.Equal(t, int64(10), metrics["dropped_updates"])
	assert.Equal(t, broadcastBufferSize+9, h.Latest().BattingTeam.Runs)
}

func TestHub_GetMetrics(t *testing.T) {
	h := NewHub(state.DefaultMatchState())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := newTestClient(h, "m")
	h.Register(c)
	receive(t, c)

	metrics := h.GetMetrics()
	assert.Equal(t, 1, metrics["active_clients"])
	assert.Equal(t, int64(1), metrics["total_connections"])
	assert.Equal(t, broadcastBufferSize, metrics["broadcast_capacity"])

	stats, ok := metrics["clients"].([]models.ConnectionStats)
	require.True(t, ok)
	require.Len(t, stats, 1)
	assert.Equal(t, "m", stats[0].ClientID)
}

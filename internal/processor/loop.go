package processor

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/commands"
)

// Submit queues cmd for the loop started by Run.
// Commands from every sender are applied in the order they are queued.
func (p *Processor) Submit(ctx context.Context, cmd commands.Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", commands.ErrMalformedCommand)
	}

	select {
	case p.inbox <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run applies queued commands one at a time until ctx is cancelled
func (p *Processor) Run(ctx context.Context) {
	fmt.Println("✓ Command processor started")

	for {
		select {
		case <-ctx.Done():
			fmt.Printf("🛑 Command processor stopped (%d queued commands dropped)\n", len(p.inbox))
			return

		case cmd := <-p.inbox:
			if changed := p.Apply(cmd); !changed {
				fmt.Printf("⚠️  %s had no effect\n", cmd.Type())
			}
		}
	}
}

// QueueDepth returns the number of commands waiting to be applied
func (p *Processor) QueueDepth() int {
	return len(p.inbox)
}

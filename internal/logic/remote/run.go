package remote

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cjeanneret/HexPad/internal/debug"
)

// tickWake is how often the tick task wakes. Ticks that elapsed since the
// last wake are counted in one batch.
const tickWake = time.Millisecond

// Run drives the tick task, the touch task and the main loop until ctx is
// cancelled. It returns nil on cancellation.
func (c *Controller) Run(ctx context.Context) error {
	debug.Info("Remote running: %d Hz ticks, frame every %d ticks, touch every %v",
		c.opts.TickHz, c.opts.TicksPerFrame, c.opts.TouchPeriod)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.runTicks(ctx) })
	g.Go(func() error { return c.runTouch(ctx) })
	g.Go(func() error { return c.runLoop(ctx) })
	return g.Wait()
}

func (c *Controller) runTicks(ctx context.Context) error {
	t := time.NewTicker(tickWake)
	defer t.Stop()

	start := time.Now()
	var counted int64
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			due := int64(now.Sub(start)) * int64(c.opts.TickHz) / int64(time.Second)
			if n := due - counted; n > 0 {
				c.TickN(int(n))
				counted = due
			}
		}
	}
}

func (c *Controller) runTouch(ctx context.Context) error {
	t := time.NewTicker(c.opts.TouchPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			c.TouchISR()
		}
	}
}

func (c *Controller) runLoop(ctx context.Context) error {
	t := time.NewTicker(c.opts.LoopInterval)
	defer t.Stop()
	for {
		c.Step()
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

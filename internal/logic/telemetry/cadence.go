package telemetry

import "sync/atomic"

// Tick rate of the timing task and the number of ticks per frame. 781
// ticks of a 7812 Hz clock give the 10 Hz frame rate.
const (
	DefaultTickHz        = 7812
	DefaultTicksPerFrame = 781
)

// TickBudget accumulates timer ticks and hands them out in whole frame
// periods. Tick is called from the timing task; Take from the main loop.
type TickBudget struct {
	ticks   atomic.Int32
	perTake int32
}

// NewTickBudget returns a budget releasing one frame per perFrame ticks.
func NewTickBudget(perFrame int) *TickBudget {
	if perFrame <= 0 {
		perFrame = DefaultTicksPerFrame
	}
	return &TickBudget{perTake: int32(perFrame)}
}

// Tick adds one timer tick.
func (b *TickBudget) Tick() {
	b.ticks.Add(1)
}

// Add adds n ticks at once, for a timing task that wakes up less often
// than the tick rate.
func (b *TickBudget) Add(n int) {
	b.ticks.Add(int32(n))
}

// Take consumes one frame period if more than a full period has
// accumulated. The remainder is kept so timing drift does not build up.
func (b *TickBudget) Take() bool {
	for {
		n := b.ticks.Load()
		if n <= b.perTake {
			return false
		}
		if b.ticks.CompareAndSwap(n, n-b.perTake) {
			return true
		}
	}
}

// Pending returns the ticks not yet consumed.
func (b *TickBudget) Pending() int {
	return int(b.ticks.Load())
}

package pipe

import (
	"sync/atomic"
	"time"

	"github.com/roomcast/pipe/signal"
)

// Timer is a passthrough stage tracking the playback position of the
// stream flowing through it. Position queries are safe to call
// concurrently with the processing loop.
type Timer[S signal.Sample] struct {
	node[S]
	samples atomic.Uint64
	rate    atomic.Uint32
}

// NewTimer creates a position tracking stage.
func NewTimer[S signal.Sample](options ...Option) *Timer[S] {
	caps := Caps{Consumes: AnyShapes(), Produces: AnyShapes()}
	return &Timer[S]{
		node: newNode[S]("timer", caps, false, false, options...),
	}
}

// Samples returns the total number of frames seen so far.
func (tm *Timer[S]) Samples() uint64 {
	return tm.samples.Load()
}

// Position returns the current playback position.
func (tm *Timer[S]) Position() time.Duration {
	rate := tm.rate.Load()
	if rate == 0 {
		return 0
	}
	return signal.DurationOf(rate, tm.samples.Load())
}

// Run implements Node.
func (tm *Timer[S]) Run(t *Token) error {
	return tm.runTree(t, func(t *Token) error {
		return tm.process(t, func(c *Chunk[S]) (*Chunk[S], error) {
			tm.rate.Store(c.SampleRate)
			tm.samples.Add(uint64(c.Frames()))
			return c, nil
		})
	})
}

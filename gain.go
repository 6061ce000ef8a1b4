package pipe

import (
	"math"
	"sync/atomic"

	"github.com/roomcast/pipe/signal"
)

// atomicFloat is a float64 safe to read concurrently with the owning
// node's processing loop.
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

func (f *atomicFloat) load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Gain is a DSP stage scaling every sample by a configurable decibel
// gain. At exactly 0 dB the original chunk reference is forwarded with no
// copy. The gain setter is safe to call while the stage is running.
type Gain[S signal.Sample] struct {
	node[S]
	db atomicFloat
}

// NewGain creates a gain stage at the given decibel value.
func NewGain[S signal.Sample](db float64, options ...Option) *Gain[S] {
	caps := Caps{Consumes: AnyShapes(), Produces: AnyShapes()}
	g := &Gain[S]{
		node: newNode[S]("gain", caps, false, false, options...),
	}
	g.db.store(db)
	return g
}

// SetGain replaces the configured decibel gain. Takes effect on the next
// chunk processed.
func (g *Gain[S]) SetGain(db float64) {
	g.db.store(db)
}

// Gain returns the configured decibel gain.
func (g *Gain[S]) Gain() float64 {
	return g.db.load()
}

// Run implements Node.
func (g *Gain[S]) Run(t *Token) error {
	return g.runTree(t, func(t *Token) error {
		return g.process(t, g.apply)
	})
}

func (g *Gain[S]) apply(c *Chunk[S]) (*Chunk[S], error) {
	db := g.db.load()
	if db == 0 {
		// unity gain, forward the shared reference
		return c, nil
	}
	lin := signal.LinearFromDB(db)
	return c.WithSamples(
		scale(c.Left, lin, c.BitDepth),
		scale(c.Right, lin, c.BitDepth),
	), nil
}

func scale[S signal.Sample](src []S, lin float64, depth signal.BitDepth) []S {
	out := make([]S, len(src))
	for i := range src {
		out[i] = signal.FromFloat[S](signal.Float(src[i], depth)*lin, depth)
	}
	return out
}

// LowPass is a DSP stage applying a single-pole IIR low-pass recurrence
// per channel, carrying filter state across chunk boundaries.
type LowPass[S signal.Sample] struct {
	node[S]
	alpha float64
	left  float64
	right float64
}

// NewLowPass creates a low-pass stage with the given smoothing factor in
// (0, 1].
func NewLowPass[S signal.Sample](alpha float64, options ...Option) *LowPass[S] {
	caps := Caps{Consumes: AnyShapes(), Produces: AnyShapes()}
	return &LowPass[S]{
		node:  newNode[S]("lowpass", caps, false, false, options...),
		alpha: alpha,
	}
}

// Run implements Node.
func (f *LowPass[S]) Run(t *Token) error {
	return f.runTree(t, func(t *Token) error {
		return f.process(t, f.apply)
	})
}

func (f *LowPass[S]) apply(c *Chunk[S]) (*Chunk[S], error) {
	left := make([]S, len(c.Left))
	right := make([]S, len(c.Right))
	for i := range c.Left {
		f.left += f.alpha * (signal.Float(c.Left[i], c.BitDepth) - f.left)
		left[i] = signal.FromFloat[S](f.left, c.BitDepth)
	}
	for i := range c.Right {
		f.right += f.alpha * (signal.Float(c.Right[i], c.BitDepth) - f.right)
		right[i] = signal.FromFloat[S](f.right, c.BitDepth)
	}
	return c.WithSamples(left, right), nil
}

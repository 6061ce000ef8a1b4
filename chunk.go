package pipe

import (
	"time"

	"github.com/roomcast/pipe/signal"
)

// Chunk is one immutable, ordered slice of stereo audio. Chunks are shared
// by reference between nodes and subscribers and must not be mutated after
// creation; a stage that needs to alter samples materializes a new chunk
// with the same order instead.
type Chunk[S signal.Sample] struct {
	// Order is the sequence number assigned by the producing stage. For a
	// single subscriber of a given producer observed orders are strictly
	// increasing; a resampling or format-change boundary renumbers from 0.
	Order uint64
	// Left and Right hold per-channel samples of equal length.
	Left  []S
	Right []S
	// SampleRate in Hz.
	SampleRate uint32
	// BitDepth of the signal.
	BitDepth signal.BitDepth
	// GainDB is an additive decibel annotation, not baked into samples
	// until a DSP stage applies it.
	GainDB float64
}

// NewChunk creates a chunk from raw per-channel sample slices.
func NewChunk[S signal.Sample](order uint64, left, right []S, sampleRate uint32, bitDepth signal.BitDepth) *Chunk[S] {
	return &Chunk[S]{
		Order:      order,
		Left:       left,
		Right:      right,
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
	}
}

// Frames returns the number of frames in the chunk.
func (c *Chunk[S]) Frames() int {
	return len(c.Left)
}

// Duration returns the play time of the chunk.
func (c *Chunk[S]) Duration() time.Duration {
	return signal.DurationOf(c.SampleRate, uint64(c.Frames()))
}

// Shape returns the chunk shape for capability checks.
func (c *Chunk[S]) Shape() Shape {
	return Shape{SampleRate: c.SampleRate, BitDepth: c.BitDepth}
}

// WithSamples returns a new chunk carrying the given samples and this
// chunk's order, rate, depth and gain annotation.
func (c *Chunk[S]) WithSamples(left, right []S) *Chunk[S] {
	return &Chunk[S]{
		Order:      c.Order,
		Left:       left,
		Right:      right,
		SampleRate: c.SampleRate,
		BitDepth:   c.BitDepth,
		GainDB:     c.GainDB,
	}
}

// WithGainDB returns a new chunk sharing this chunk's samples with the
// gain annotation replaced.
func (c *Chunk[S]) WithGainDB(db float64) *Chunk[S] {
	out := *c
	out.GainDB = db
	return &out
}

// Peak returns the largest absolute sample value across both channels in
// the normalized float domain.
func (c *Chunk[S]) Peak() float64 {
	l := signal.Peak(c.Left, c.BitDepth)
	r := signal.Peak(c.Right, c.BitDepth)
	if r > l {
		return r
	}
	return l
}

// Convert rebuilds a chunk in another numeric representation, following
// the conversion rules of the signal package. The order and the gain
// annotation are preserved.
func Convert[To, From signal.Sample](c *Chunk[From]) *Chunk[To] {
	out := &Chunk[To]{
		Order:      c.Order,
		Left:       make([]To, len(c.Left)),
		Right:      make([]To, len(c.Right)),
		SampleRate: c.SampleRate,
		BitDepth:   c.BitDepth,
		GainDB:     c.GainDB,
	}
	for i := range c.Left {
		out.Left[i] = signal.FromFloat[To](signal.Float(c.Left[i], c.BitDepth), c.BitDepth)
	}
	for i := range c.Right {
		out.Right[i] = signal.FromFloat[To](signal.Float(c.Right[i], c.BitDepth), c.BitDepth)
	}
	return out
}

// Reshape moves an integer chunk to another bit depth with an arithmetic
// shift per sample. Floating point chunks only update the annotation.
func Reshape[S signal.Sample](c *Chunk[S], depth signal.BitDepth) *Chunk[S] {
	out := &Chunk[S]{
		Order:      c.Order,
		Left:       make([]S, len(c.Left)),
		Right:      make([]S, len(c.Right)),
		SampleRate: c.SampleRate,
		BitDepth:   depth,
		GainDB:     c.GainDB,
	}
	for i := range c.Left {
		out.Left[i] = signal.Reshape(c.Left[i], c.BitDepth, depth)
	}
	for i := range c.Right {
		out.Right[i] = signal.Reshape(c.Right[i], c.BitDepth, depth)
	}
	return out
}

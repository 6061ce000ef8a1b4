package pipe_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roomcast/pipe"
	"github.com/roomcast/pipe/signal"
)

func TestChunkAccessors(t *testing.T) {
	c := pipe.NewChunk(7, []float64{0.1, 0.2}, []float64{0.3, 0.4}, 48000, signal.BitDepth32)
	assert.Equal(t, 2, c.Frames())
	assert.Equal(t, uint64(7), c.Order)
	assert.Equal(t, time.Second/24000, c.Duration())
	assert.Equal(t, pipe.Shape{SampleRate: 48000, BitDepth: signal.BitDepth32}, c.Shape())
	assert.InDelta(t, 0.4, c.Peak(), 1e-12)
}

func TestChunkWithSamples(t *testing.T) {
	c := pipe.NewChunk(3, []float64{0.5}, []float64{0.5}, 44100, signal.BitDepth32)
	c = c.WithGainDB(-6)
	out := c.WithSamples([]float64{0.25}, []float64{0.25})
	// order and annotations survive, samples are replaced
	assert.Equal(t, c.Order, out.Order)
	assert.Equal(t, c.SampleRate, out.SampleRate)
	assert.Equal(t, c.GainDB, out.GainDB)
	assert.Equal(t, 0.25, out.Left[0])
	// the original chunk was not touched
	assert.Equal(t, 0.5, c.Left[0])
}

func TestConvert(t *testing.T) {
	ints := pipe.NewChunk(5, []int32{math.MaxInt16, -math.MaxInt16 / 2}, []int32{0, math.MaxInt16}, 44100, signal.BitDepth16)
	floats := pipe.Convert[float64](ints)
	assert.Equal(t, uint64(5), floats.Order)
	assert.InDelta(t, 1.0, floats.Left[0], 1e-9)
	assert.InDelta(t, -0.5, floats.Left[1], 1e-4)
	assert.InDelta(t, 1.0, floats.Right[1], 1e-9)

	// float to integer clamps out of range values
	hot := pipe.NewChunk(6, []float64{2.0}, []float64{-2.0}, 44100, signal.BitDepth16)
	clamped := pipe.Convert[int32](hot)
	assert.Equal(t, int32(math.MaxInt16), clamped.Left[0])
	assert.Equal(t, int32(-math.MaxInt16-1), clamped.Right[0])
}

func TestReshape(t *testing.T) {
	c := pipe.NewChunk(1, []int32{1 << 4}, []int32{1 << 4}, 44100, signal.BitDepth16)
	wide := pipe.Reshape(c, signal.BitDepth24)
	assert.Equal(t, uint64(1), wide.Order)
	assert.Equal(t, signal.BitDepth24, wide.BitDepth)
	assert.Equal(t, int32(1<<12), wide.Left[0])
}

package signal_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roomcast/pipe/signal"
)

func TestFullScale(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt8), signal.BitDepth8.FullScale())
	assert.Equal(t, int64(math.MaxInt16), signal.BitDepth16.FullScale())
	assert.Equal(t, int64(1<<23-1), signal.BitDepth24.FullScale())
	assert.Equal(t, int64(math.MaxInt32), signal.BitDepth32.FullScale())
	assert.Equal(t, int64(1), signal.BitDepth(12).FullScale())
}

func TestSupported(t *testing.T) {
	assert.True(t, signal.BitDepth16.Supported())
	assert.True(t, signal.BitDepth24.Supported())
	assert.False(t, signal.BitDepth(12).Supported())
}

func TestFloat(t *testing.T) {
	assert.InDelta(t, 1.0, signal.Float(int32(math.MaxInt16), signal.BitDepth16), 1e-9)
	assert.InDelta(t, -0.5, signal.Float(int32(-math.MaxInt16/2), signal.BitDepth16), 1e-4)
	assert.Equal(t, 0.25, signal.Float(float64(0.25), signal.BitDepth32))
	assert.InDelta(t, 0.25, signal.Float(float32(0.25), signal.BitDepth32), 1e-7)
}

func TestFromFloat(t *testing.T) {
	// float targets keep the value
	assert.Equal(t, 0.5, signal.FromFloat[float64](0.5, signal.BitDepth16))
	// integer targets scale by full scale
	assert.Equal(t, int32(math.MaxInt16), signal.FromFloat[int32](1.0, signal.BitDepth16))
	// out of range values clamp, no wrap around
	assert.Equal(t, int32(math.MaxInt16), signal.FromFloat[int32](2.0, signal.BitDepth16))
	assert.Equal(t, int32(-math.MaxInt16-1), signal.FromFloat[int32](-2.0, signal.BitDepth16))
}

func TestReshape(t *testing.T) {
	// widening is an arithmetic shift
	assert.Equal(t, int32(1<<8), signal.Reshape(int32(1), signal.BitDepth16, signal.BitDepth24))
	// narrowing shifts right
	assert.Equal(t, int32(1), signal.Reshape(int32(1<<8), signal.BitDepth24, signal.BitDepth16))
	// floats are depth agnostic
	assert.Equal(t, 0.5, signal.Reshape(0.5, signal.BitDepth16, signal.BitDepth32))
}

func TestGainConversion(t *testing.T) {
	assert.InDelta(t, 2.0, signal.LinearFromDB(6.0206), 1e-4)
	assert.InDelta(t, 1.0, signal.LinearFromDB(0), 1e-12)
	assert.InDelta(t, 6.0206, signal.DBFromLinear(2.0), 1e-4)
	// round trip
	assert.InDelta(t, -3.5, signal.DBFromLinear(signal.LinearFromDB(-3.5)), 1e-9)
}

func TestDurationOf(t *testing.T) {
	assert.Equal(t, time.Second, signal.DurationOf(44100, 44100))
	assert.Equal(t, 100*time.Millisecond, signal.DurationOf(48000, 4800))
}

func TestPeak(t *testing.T) {
	assert.Equal(t, 0.75, signal.Peak([]float64{0.1, -0.75, 0.5}, signal.BitDepth32))
	assert.InDelta(t, 1.0, signal.Peak([]int32{math.MaxInt16, -100}, signal.BitDepth16), 1e-9)
	assert.Equal(t, 0.0, signal.Peak([]float64{}, signal.BitDepth32))
}

package pipe_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomcast/pipe"
	"github.com/roomcast/pipe/mock"
)

func TestTimerTracksPosition(t *testing.T) {
	source := (&mock.Source[float64]{Limit: 10, Value: 0.1, Frames: 480, Rate: 48000}).Node()
	timer := pipe.NewTimer[float64]()
	sink := &mock.Sink[float64]{}

	require.NoError(t, pipe.Wire[float64](source, timer))
	require.NoError(t, pipe.Wire[float64](timer, sink.Node()))
	require.NoError(t, pipe.Run[float64](context.Background(), source))

	assert.Equal(t, uint64(4800), timer.Samples())
	assert.Equal(t, 100*time.Millisecond, timer.Position())
	// passthrough: downstream still observes the orders unchanged
	assert.Len(t, sink.Chunks(), 10)
}

func TestTimerQueryWhileRunning(t *testing.T) {
	source := (&mock.Source[float64]{Value: 0.1, Frames: 64, Rate: 48000, Interval: time.Millisecond}).Node()
	timer := pipe.NewTimer[float64]()
	sink := pipe.NewNullSink[float64]()
	require.NoError(t, pipe.Wire[float64](source, timer))
	require.NoError(t, pipe.Wire[float64](timer, sink))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- pipe.Run[float64](ctx, source)
	}()

	// position queries race the processing loop by design
	deadline := time.After(time.Second)
	for timer.Samples() == 0 {
		select {
		case <-deadline:
			t.Fatal("no progress observed")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	assert.Positive(t, timer.Position())

	cancel()
	assert.NoError(t, <-done)
}

func TestTimerZeroPositionBeforeStream(t *testing.T) {
	timer := pipe.NewTimer[float64]()
	assert.Zero(t, timer.Samples())
	assert.Zero(t, timer.Position())
}

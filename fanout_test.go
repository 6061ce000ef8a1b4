package pipe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomcast/pipe"
	"github.com/roomcast/pipe/signal"
)

func testChunk(order uint64) *pipe.Chunk[float64] {
	return pipe.NewChunk(order, []float64{0.1}, []float64{0.1}, 48000, signal.BitDepth32)
}

func TestFanoutPushDeliversToAllInOrder(t *testing.T) {
	tk := pipe.NewToken(context.Background())
	var f pipe.Fanout[float64]
	a := make(chan *pipe.Chunk[float64], 10)
	b := make(chan *pipe.Chunk[float64], 10)
	f.Add(a)
	f.Add(b)

	for i := uint64(0); i < 10; i++ {
		require.NoError(t, f.Push(tk, testChunk(i)))
	}
	f.Close()

	var prev uint64
	for c := range a {
		cb := <-b
		// both subscribers observe the identical chunk reference
		assert.Same(t, c, cb)
		if c.Order > 0 {
			assert.Equal(t, prev+1, c.Order)
		}
		prev = c.Order
	}
}

func TestFanoutPushFailsOnCancelledToken(t *testing.T) {
	tk := pipe.NewToken(context.Background())
	var f pipe.Fanout[float64]
	f.Add(make(chan *pipe.Chunk[float64])) // no receiver, unbuffered

	tk.Cancel(nil)
	err := f.Push(tk, testChunk(0))
	assert.ErrorIs(t, err, pipe.ErrSendFailed)
}

func TestFanoutTryPushDropsOnFullQueue(t *testing.T) {
	var f pipe.Fanout[float64]
	full := make(chan *pipe.Chunk[float64], 1)
	free := make(chan *pipe.Chunk[float64], 2)
	f.Add(full)
	f.Add(free)

	assert.Equal(t, 2, f.TryPush(testChunk(0)))
	// the first queue is full now and silently misses the chunk
	assert.Equal(t, 1, f.TryPush(testChunk(1)))
	assert.Len(t, full, 1)
	assert.Len(t, free, 2)
}

package pipe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomcast/pipe"
	"github.com/roomcast/pipe/mock"
)

func TestDecoderPassthrough(t *testing.T) {
	source := (&mock.Source[float64]{Limit: 5, Value: 0.4, Frames: 32}).Node()
	dec := pipe.NewDecoder[float64]()
	sink := &mock.Sink[float64]{}

	require.NoError(t, pipe.Wire[float64](source, dec))
	require.NoError(t, pipe.Wire[float64](dec, sink.Node()))
	require.NoError(t, pipe.Run[float64](context.Background(), source))

	got := sink.Chunks()
	require.Len(t, got, 5)
	for i, c := range got {
		assert.Equal(t, uint64(i), c.Order)
		assert.Equal(t, uint32(44100), c.SampleRate)
		assert.Equal(t, 0.4, c.Left[0])
	}
}

func TestResamplerConvertsRate(t *testing.T) {
	source := (&mock.Source[float64]{Limit: 3, Value: 0.4, Frames: 441, Rate: 44100}).Node()
	dec := pipe.NewResampler[float64](22050)
	sink := &mock.Sink[float64]{}

	require.NoError(t, pipe.Wire[float64](source, dec))
	require.NoError(t, pipe.Wire[float64](dec, sink.Node()))
	require.NoError(t, pipe.Run[float64](context.Background(), source))

	got := sink.Chunks()
	require.Len(t, got, 3)
	for i, c := range got {
		// the rate boundary renumbers orders from zero
		assert.Equal(t, uint64(i), c.Order)
		assert.Equal(t, uint32(22050), c.SampleRate)
		// dst_len = round(441 * 22050/44100)
		assert.Equal(t, 221, c.Frames())
		// linear interpolation of a constant signal is the constant
		for _, v := range c.Left {
			assert.InDelta(t, 0.4, v, 1e-12)
		}
	}
}

func TestResamplerUpsamples(t *testing.T) {
	source := (&mock.Source[float64]{Limit: 2, Value: 0.1, Frames: 100, Rate: 24000}).Node()
	dec := pipe.NewResampler[float64](48000)
	sink := &mock.Sink[float64]{}

	require.NoError(t, pipe.Wire[float64](source, dec))
	require.NoError(t, pipe.Wire[float64](dec, sink.Node()))
	require.NoError(t, pipe.Run[float64](context.Background(), source))

	got := sink.Chunks()
	require.Len(t, got, 2)
	assert.Equal(t, 200, got[0].Frames())
}

func TestResamplerCapsDeclareTargetRate(t *testing.T) {
	dec := pipe.NewResampler[float64](48000)
	sink := pipe.NewNullSink[float64](pipe.WithCaps(pipe.Caps{
		Consumes: pipe.Shapes(pipe.Shape{SampleRate: 48000}),
		Produces: pipe.NoShapes(),
	}))
	// a consumer pinned to the target rate accepts the resampler
	assert.NoError(t, pipe.Wire[float64](dec, sink))
}

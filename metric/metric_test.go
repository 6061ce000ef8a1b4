package metric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roomcast/pipe/metric"
)

func TestMeterCounts(t *testing.T) {
	m := metric.Get("test-node")
	m.Message(512, 44100)
	m.Message(256, 44100)
	m.Drop(3)

	assert.Equal(t, int64(2), m.Messages())
	assert.Equal(t, int64(768), m.Samples())
	assert.Equal(t, int64(3), m.Drops())
}

func TestMeterIsSharedPerKey(t *testing.T) {
	a := metric.Get("shared")
	b := metric.Get("shared")
	assert.Same(t, a, b)

	c := metric.Get("other")
	assert.NotSame(t, a, c)
}

func TestNilMeterIsSafe(t *testing.T) {
	var m *metric.Meter
	assert.NotPanics(t, func() {
		m.Message(10, 44100)
		m.Drop(1)
	})
}

// Package mock provides doubles for pipeline stages and allows to execute
// integration tests.
package mock

import (
	"sync"
	"time"

	"github.com/roomcast/pipe"
	"github.com/roomcast/pipe/signal"
)

const (
	defaultSampleRate = 44100
	defaultFrames     = 512
)

// Source mocks a pipeline source. It emits Limit chunks of constant Value
// samples, optionally pacing emission with Interval.
type Source[S signal.Sample] struct {
	Limit    int
	Value    float64
	Frames   int
	Rate     uint32
	Depth    signal.BitDepth
	Interval time.Duration
}

// Node builds the source node.
func (m *Source[S]) Node(options ...pipe.Option) *pipe.Source[S] {
	rate := m.Rate
	if rate == 0 {
		rate = defaultSampleRate
	}
	frames := m.Frames
	if frames == 0 {
		frames = defaultFrames
	}
	depth := m.Depth
	if depth == 0 {
		depth = signal.BitDepth32
	}
	value := m.Value
	options = append(options,
		pipe.WithChunkLimit(m.Limit),
		pipe.WithInterval(m.Interval),
	)
	return pipe.NewSource[S](
		func(uint64, uint32) (float64, float64) {
			return value, value
		},
		rate, depth, frames, options...,
	)
}

// Processor mocks a passthrough linear stage. It counts traffic and fails
// with ErrorOnCall if set.
type Processor[S signal.Sample] struct {
	ErrorOnCall error

	mu     sync.Mutex
	chunks int
	frames int
}

// Node builds the processor node.
func (m *Processor[S]) Node(options ...pipe.Option) *pipe.Transform[S] {
	return pipe.NewTransform[S](func(c *pipe.Chunk[S]) (*pipe.Chunk[S], error) {
		if m.ErrorOnCall != nil {
			return nil, m.ErrorOnCall
		}
		m.mu.Lock()
		m.chunks++
		m.frames += c.Frames()
		m.mu.Unlock()
		return c, nil
	}, options...)
}

// Counted returns processed chunk and frame counts.
func (m *Processor[S]) Counted() (chunks, frames int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chunks, m.frames
}

// Sink mocks a terminal stage. It captures every received chunk reference
// and fails with ErrorOnCall if set.
type Sink[S signal.Sample] struct {
	ErrorOnCall error

	mu     sync.Mutex
	chunks []*pipe.Chunk[S]
}

// Node builds the sink node.
func (m *Sink[S]) Node(options ...pipe.Option) *pipe.FuncSink[S] {
	return pipe.NewFuncSink[S](func(c *pipe.Chunk[S]) error {
		if m.ErrorOnCall != nil {
			return m.ErrorOnCall
		}
		m.mu.Lock()
		m.chunks = append(m.chunks, c)
		m.mu.Unlock()
		return nil
	}, options...)
}

// Chunks returns the captured chunk references in arrival order.
func (m *Sink[S]) Chunks() []*pipe.Chunk[S] {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*pipe.Chunk[S], len(m.chunks))
	copy(out, m.chunks)
	return out
}

// Orders returns the order values of captured chunks in arrival order.
func (m *Sink[S]) Orders() []uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := make([]uint64, len(m.chunks))
	for i := range m.chunks {
		orders[i] = m.chunks[i].Order
	}
	return orders
}

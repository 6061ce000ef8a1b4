package pipe

import (
	"sync"
	"time"

	"github.com/roomcast/pipe/signal"
)

func sinkCaps() Caps {
	return Caps{Consumes: AnyShapes(), Produces: NoShapes()}
}

// NullSink is a terminal stage discarding every chunk. Registering a
// child on it panics.
type NullSink[S signal.Sample] struct {
	node[S]
}

// NewNullSink creates a silent sink.
func NewNullSink[S signal.Sample](options ...Option) *NullSink[S] {
	return &NullSink[S]{
		node: newNode[S]("null-sink", sinkCaps(), false, true, options...),
	}
}

// Run implements Node.
func (s *NullSink[S]) Run(t *Token) error {
	return s.runTree(t, func(t *Token) error {
		for {
			c, ok := s.receive(t)
			if !ok {
				return nil
			}
			s.meter.Message(c.Frames(), c.SampleRate)
		}
	})
}

// Stats summarizes a stream consumed by a StatsSink.
type Stats struct {
	Chunks   uint64
	Frames   uint64
	Peak     float64
	Duration time.Duration
}

// StatsSink is a terminal stage accumulating simple stream statistics for
// inspection after, or while, the stream runs.
type StatsSink[S signal.Sample] struct {
	node[S]
	mu    sync.Mutex
	stats Stats
}

// NewStatsSink creates a statistics collecting sink.
func NewStatsSink[S signal.Sample](options ...Option) *StatsSink[S] {
	return &StatsSink[S]{
		node: newNode[S]("stats-sink", sinkCaps(), false, true, options...),
	}
}

// Stats returns a snapshot of the collected statistics. Safe to call
// concurrently with the processing loop.
func (s *StatsSink[S]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Run implements Node.
func (s *StatsSink[S]) Run(t *Token) error {
	return s.runTree(t, func(t *Token) error {
		for {
			c, ok := s.receive(t)
			if !ok {
				return nil
			}
			s.meter.Message(c.Frames(), c.SampleRate)
			peak := c.Peak()
			s.mu.Lock()
			s.stats.Chunks++
			s.stats.Frames += uint64(c.Frames())
			s.stats.Duration += c.Duration()
			if peak > s.stats.Peak {
				s.stats.Peak = peak
			}
			s.mu.Unlock()
		}
	})
}

// FuncSink is a terminal stage delegating every chunk to a consumer
// function, typically an adapter to an external transport. A function
// error ends the stream and propagates as a processing error of this
// node. Use WithFlush for resource cleanup on stream end.
type FuncSink[S signal.Sample] struct {
	node[S]
	fn func(*Chunk[S]) error
}

// NewFuncSink creates a sink calling fn for every received chunk.
func NewFuncSink[S signal.Sample](fn func(*Chunk[S]) error, options ...Option) *FuncSink[S] {
	return &FuncSink[S]{
		node: newNode[S]("func-sink", sinkCaps(), false, true, options...),
		fn:   fn,
	}
}

// Run implements Node.
func (s *FuncSink[S]) Run(t *Token) error {
	return s.runTree(t, func(t *Token) error {
		for {
			c, ok := s.receive(t)
			if !ok {
				return nil
			}
			if err := s.fn(c); err != nil {
				return &ProcessError{Node: s.id, Err: err}
			}
			s.meter.Message(c.Frames(), c.SampleRate)
		}
	})
}

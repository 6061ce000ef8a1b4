package pipe

import (
	"errors"
	"io"
	"math"
	"time"

	"github.com/roomcast/pipe/signal"
)

// SourceFunc synthesizes one stereo frame at the given running sample
// index, in the normalized float domain.
type SourceFunc func(sampleIndex uint64, sampleRate uint32) (left, right float64)

// Sine returns a stereo sine generator at the given frequency and
// amplitude.
func Sine(freq, amplitude float64) SourceFunc {
	return func(i uint64, rate uint32) (float64, float64) {
		v := amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		return v, v
	}
}

// Silence returns a generator producing zero samples.
func Silence() SourceFunc {
	return func(uint64, uint32) (float64, float64) {
		return 0, 0
	}
}

// Source is the root of a pipeline tree. It has no inbound queue and
// produces chunks on a schedule: free-running by default, or paced with
// the WithInterval option for real-time streaming. Chunks are fanned out
// to children with delivery-guaranteed push.
type Source[S signal.Sample] struct {
	node[S]
	fn          SourceFunc
	sampleRate  uint32
	bitDepth    signal.BitDepth
	chunkFrames int
	limit       int
	interval    time.Duration
	sampleIndex uint64
	order       uint64
}

// NewSource creates a source synthesizing chunks of chunkFrames stereo
// frames with fn.
func NewSource[S signal.Sample](fn SourceFunc, sampleRate uint32, bitDepth signal.BitDepth, chunkFrames int, options ...Option) *Source[S] {
	cfg := config{}
	for _, option := range options {
		option(&cfg)
	}
	caps := Caps{
		Consumes: NoShapes(),
		Produces: Shapes(Shape{SampleRate: sampleRate, BitDepth: bitDepth}),
	}
	return &Source[S]{
		node:        newNode[S]("source", caps, true, false, options...),
		fn:          fn,
		sampleRate:  sampleRate,
		bitDepth:    bitDepth,
		chunkFrames: chunkFrames,
		limit:       cfg.limit,
		interval:    cfg.interval,
	}
}

// Run implements Node.
func (s *Source[S]) Run(t *Token) error {
	return s.runTree(t, s.stream)
}

func (s *Source[S]) stream(t *Token) error {
	var tick *time.Ticker
	if s.interval > 0 {
		tick = time.NewTicker(s.interval)
		defer tick.Stop()
	}
	for s.limit == 0 || s.order < uint64(s.limit) {
		if tick != nil {
			select {
			case <-tick.C:
			case <-t.Done():
				return nil
			}
		} else if t.Cancelled() {
			return nil
		}
		c := s.synthesize()
		s.meter.Message(c.Frames(), c.SampleRate)
		if err := s.out.Push(t, c); err != nil {
			return nil
		}
	}
	return nil
}

// FuncSource is a root stage pulling chunks from a producer function,
// typically an adapter reading an external transport or a file. The
// function returns io.EOF to end the stream cleanly; any other error ends
// the stream and propagates as a processing error of this node. Receive
// adapters wrap transport failures with ErrReceiveFailed.
type FuncSource[S signal.Sample] struct {
	node[S]
	fn func() (*Chunk[S], error)
}

// NewFuncSource creates a source calling fn for every produced chunk.
func NewFuncSource[S signal.Sample](fn func() (*Chunk[S], error), options ...Option) *FuncSource[S] {
	caps := Caps{Consumes: NoShapes(), Produces: AnyShapes()}
	return &FuncSource[S]{
		node: newNode[S]("func-source", caps, true, false, options...),
		fn:   fn,
	}
}

// Run implements Node.
func (s *FuncSource[S]) Run(t *Token) error {
	return s.runTree(t, func(t *Token) error {
		for !t.Cancelled() {
			c, err := s.fn()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return &ProcessError{Node: s.id, Err: err}
			}
			s.meter.Message(c.Frames(), c.SampleRate)
			if err := s.out.Push(t, c); err != nil {
				return nil
			}
		}
		return nil
	})
}

func (s *Source[S]) synthesize() *Chunk[S] {
	left := make([]S, s.chunkFrames)
	right := make([]S, s.chunkFrames)
	for i := 0; i < s.chunkFrames; i++ {
		l, r := s.fn(s.sampleIndex, s.sampleRate)
		left[i] = signal.FromFloat[S](l, s.bitDepth)
		right[i] = signal.FromFloat[S](r, s.bitDepth)
		s.sampleIndex++
	}
	c := NewChunk(s.order, left, right, s.sampleRate, s.bitDepth)
	s.order++
	return c
}

// Package wav adapts pipeline sources and sinks to wav files.
package wav

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/roomcast/pipe"
	"github.com/roomcast/pipe/signal"
)

// ErrUnsupportedBitDepth is returned when an unsupported bit depth is
// used.
var ErrUnsupportedBitDepth = errors.New("only 16, 24 and 32 bit depth is supported")

// ErrInvalidFile is returned when the reader does not hold a decodable
// wav stream.
var ErrInvalidFile = errors.New("not a valid wav file")

const wavFormatPCM = 1

// Source streams a wav file as chunks of chunkFrames stereo frames. The
// stream shape is taken from the file header. A read failing mid-stream
// surfaces as pipe.ErrReceiveFailed.
type Source[S signal.Sample] struct {
	decoder     *wav.Decoder
	ib          *audio.IntBuffer
	sampleRate  uint32
	bitDepth    signal.BitDepth
	chunkFrames int
	order       uint64
}

// NewSource creates a wav source reading stereo PCM from rs.
func NewSource[S signal.Sample](rs io.ReadSeeker, chunkFrames int) (*Source[S], error) {
	decoder := wav.NewDecoder(rs)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidFile
	}
	bitDepth := signal.BitDepth(decoder.BitDepth)
	if !bitDepth.Supported() {
		return nil, ErrUnsupportedBitDepth
	}
	if decoder.Format().NumChannels != 2 {
		return nil, fmt.Errorf("%d channels in wav file, stereo required", decoder.Format().NumChannels)
	}
	return &Source[S]{
		decoder: decoder,
		ib: &audio.IntBuffer{
			Format:         decoder.Format(),
			Data:           make([]int, 2*chunkFrames),
			SourceBitDepth: int(decoder.BitDepth),
		},
		sampleRate:  decoder.SampleRate,
		bitDepth:    bitDepth,
		chunkFrames: chunkFrames,
	}, nil
}

// Node builds the pipeline node around the source.
func (s *Source[S]) Node(options ...pipe.Option) *pipe.FuncSource[S] {
	options = append(options,
		pipe.WithName("wav-source"),
		pipe.WithCaps(pipe.Caps{
			Consumes: pipe.NoShapes(),
			Produces: pipe.Shapes(pipe.Shape{SampleRate: s.sampleRate, BitDepth: s.bitDepth}),
		}),
	)
	return pipe.NewFuncSource[S](s.read, options...)
}

func (s *Source[S]) read() (*pipe.Chunk[S], error) {
	n, err := s.decoder.PCMBuffer(s.ib)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipe.ErrReceiveFailed, err)
	}
	if n == 0 {
		return nil, io.EOF
	}
	frames := n / 2
	left := make([]S, frames)
	right := make([]S, frames)
	for i := 0; i < frames; i++ {
		left[i] = signal.FromFloat[S](signal.Float(int32(s.ib.Data[2*i]), s.bitDepth), s.bitDepth)
		right[i] = signal.FromFloat[S](signal.Float(int32(s.ib.Data[2*i+1]), s.bitDepth), s.bitDepth)
	}
	c := pipe.NewChunk(s.order, left, right, s.sampleRate, s.bitDepth)
	s.order++
	return c, nil
}

// Sink persists the stream as a wav file on the given writer. The encoder
// is initialized from the first received chunk and finalized when the
// stream ends.
type Sink[S signal.Sample] struct {
	ws       io.WriteSeeker
	bitDepth signal.BitDepth
	encoder  *wav.Encoder
	ib       *audio.IntBuffer
}

// NewSink creates a wav sink writing samples at the given bit depth.
func NewSink[S signal.Sample](ws io.WriteSeeker, bitDepth signal.BitDepth) (*Sink[S], error) {
	switch bitDepth {
	case signal.BitDepth16, signal.BitDepth24, signal.BitDepth32:
	default:
		return nil, ErrUnsupportedBitDepth
	}
	return &Sink[S]{
		ws:       ws,
		bitDepth: bitDepth,
	}, nil
}

// Node builds the pipeline node around the sink.
func (s *Sink[S]) Node(options ...pipe.Option) *pipe.FuncSink[S] {
	options = append(options,
		pipe.WithName("wav-sink"),
		pipe.WithFlush(s.flush),
	)
	return pipe.NewFuncSink[S](s.write, options...)
}

func (s *Sink[S]) write(c *pipe.Chunk[S]) error {
	if s.encoder == nil {
		s.encoder = wav.NewEncoder(s.ws, int(c.SampleRate), int(s.bitDepth), 2, wavFormatPCM)
		s.ib = &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 2,
				SampleRate:  int(c.SampleRate),
			},
			SourceBitDepth: int(s.bitDepth),
		}
	}
	s.ib.Data = interleave(c, s.bitDepth)
	if err := s.encoder.Write(s.ib); err != nil {
		return fmt.Errorf("wav write order %d: %w", c.Order, err)
	}
	return nil
}

func (s *Sink[S]) flush() error {
	if s.encoder == nil {
		return nil
	}
	if err := s.encoder.Close(); err != nil {
		return fmt.Errorf("wav finalize: %w", err)
	}
	return nil
}

// interleave converts a chunk to interleaved ints at the target depth.
func interleave[S signal.Sample](c *pipe.Chunk[S], depth signal.BitDepth) []int {
	data := make([]int, 2*c.Frames())
	for i := 0; i < c.Frames(); i++ {
		l := signal.FromFloat[int32](signal.Float(c.Left[i], c.BitDepth), depth)
		r := signal.FromFloat[int32](signal.Float(c.Right[i], c.BitDepth), depth)
		data[2*i] = int(l)
		data[2*i+1] = int(r)
	}
	return data
}

package pipe

import (
	"fmt"
	"math"

	"github.com/roomcast/pipe/signal"
)

// Decoder normalizes the upstream stream format. By default it forwards
// chunks untouched; in resampling mode it converts the sample rate with
// linear interpolation between the two nearest source samples. Resampled
// chunks start a fresh order sequence from 0, marking the format-change
// boundary for downstream subscribers.
type Decoder[S signal.Sample] struct {
	node[S]
	sampleRate uint32
	order      uint64
}

// NewDecoder creates a passthrough decoder.
func NewDecoder[S signal.Sample](options ...Option) *Decoder[S] {
	caps := Caps{Consumes: AnyShapes(), Produces: AnyShapes()}
	return &Decoder[S]{
		node: newNode[S]("decoder", caps, false, false, options...),
	}
}

// NewResampler creates a decoder converting every chunk to the given
// sample rate.
func NewResampler[S signal.Sample](sampleRate uint32, options ...Option) *Decoder[S] {
	caps := Caps{
		Consumes: AnyShapes(),
		Produces: Shapes(Shape{SampleRate: sampleRate}),
	}
	return &Decoder[S]{
		node:       newNode[S]("resampler", caps, false, false, options...),
		sampleRate: sampleRate,
	}
}

// Run implements Node.
func (d *Decoder[S]) Run(t *Token) error {
	return d.runTree(t, func(t *Token) error {
		return d.process(t, d.decode)
	})
}

func (d *Decoder[S]) decode(c *Chunk[S]) (*Chunk[S], error) {
	if d.sampleRate == 0 || c.SampleRate == d.sampleRate {
		return c, nil
	}
	if c.SampleRate == 0 {
		return nil, fmt.Errorf("resample order %d: source rate unknown", c.Order)
	}
	if c.Frames() == 0 {
		return nil, fmt.Errorf("resample order %d: empty chunk", c.Order)
	}
	out := &Chunk[S]{
		Order:      d.order,
		Left:       resample(c.Left, c.SampleRate, d.sampleRate),
		Right:      resample(c.Right, c.SampleRate, d.sampleRate),
		SampleRate: d.sampleRate,
		BitDepth:   c.BitDepth,
		GainDB:     c.GainDB,
	}
	d.order++
	return out, nil
}

// resample converts src to the destination rate: for every destination
// position the two nearest source samples are blended linearly.
func resample[S signal.Sample](src []S, srcRate, dstRate uint32) []S {
	dstLen := int(math.Round(float64(len(src)) * float64(dstRate) / float64(srcRate)))
	dst := make([]S, dstLen)
	ratio := float64(srcRate) / float64(dstRate)
	for i := range dst {
		pos := float64(i) * ratio
		i0 := int(pos)
		if i0 >= len(src)-1 {
			dst[i] = src[len(src)-1]
			continue
		}
		frac := pos - float64(i0)
		dst[i] = S(float64(src[i0])*(1-frac) + float64(src[i0+1])*frac)
	}
	return dst
}

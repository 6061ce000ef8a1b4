// Package signal provides the numeric foundation for audio pipelines. It
// defines the closed sample type family, bit depth handling and the
// conversion rules between representations:
//	- integer widening is an arithmetic shift, no rounding
//	- any representation to floating point divides by the full-scale value
//	- floating point to integer clamps to the representable range
package signal

import (
	"math"
	"time"
)

// Sample is the closed family of numeric sample representations. A pipeline
// instance is built for exactly one member of the family.
type Sample interface {
	int32 | float32 | float64
}

// BitDepth is a supported signal bit depth.
type BitDepth uint8

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth24 is 24 bit depth.
	BitDepth24 = BitDepth(24)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// FullScale returns the largest positive sample value representable at this
// bit depth.
func (b BitDepth) FullScale() int64 {
	switch b {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth24:
		return 1<<23 - 1
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// Supported reports whether b is a member of the supported depth set.
func (b BitDepth) Supported() bool {
	switch b {
	case BitDepth8, BitDepth16, BitDepth24, BitDepth32:
		return true
	}
	return false
}

// DurationOf returns time duration of samples at this sample rate.
func DurationOf(sampleRate uint32, samples uint64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// Float converts a single sample to the normalized float domain. Integer
// samples are divided by the full-scale value of the given depth, floating
// point samples pass through unchanged.
func Float[S Sample](s S, depth BitDepth) float64 {
	switch v := any(s).(type) {
	case int32:
		return float64(v) / float64(depth.FullScale())
	case float32:
		return float64(v)
	case float64:
		return v
	}
	return float64(s)
}

// FromFloat converts a normalized float sample into representation S.
// Integer targets are scaled by the full-scale value of the given depth and
// clamped, no dithering. Floating point targets keep the value as is.
func FromFloat[S Sample](v float64, depth BitDepth) S {
	var zero S
	switch any(zero).(type) {
	case int32:
		fs := float64(depth.FullScale())
		scaled := v * fs
		if scaled > fs {
			scaled = fs
		} else if scaled < -fs-1 {
			scaled = -fs - 1
		}
		return S(scaled)
	default:
		return S(v)
	}
}

// Reshape moves an integer sample between bit depths with an arithmetic
// shift. Widening shifts left, narrowing shifts right, no rounding.
// Floating point samples are depth-agnostic and pass through.
func Reshape[S Sample](s S, from, to BitDepth) S {
	v, ok := any(s).(int32)
	if !ok {
		return s
	}
	switch {
	case to > from:
		v <<= uint(to - from)
	case from > to:
		v >>= uint(from - to)
	}
	return S(v)
}

// Clamp limits a float sample to the [-1, 1] range.
func Clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// LinearFromDB converts decibel gain to a linear multiplier.
func LinearFromDB(db float64) float64 {
	return math.Pow(10, db/20)
}

// DBFromLinear converts a linear multiplier to decibel gain.
func DBFromLinear(linear float64) float64 {
	return 20 * math.Log10(linear)
}

// Peak returns the largest absolute value in the slice, in the normalized
// float domain.
func Peak[S Sample](s []S, depth BitDepth) float64 {
	var peak float64
	for i := range s {
		v := math.Abs(Float(s[i], depth))
		if v > peak {
			peak = v
		}
	}
	return peak
}

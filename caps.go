package pipe

import (
	"fmt"
	"strings"

	"github.com/roomcast/pipe/signal"
)

// Shape describes one chunk shape a node can consume or produce. Zero
// values act as wildcards within the shape.
type Shape struct {
	SampleRate uint32
	BitDepth   signal.BitDepth
}

func (s Shape) String() string {
	rate := "*"
	if s.SampleRate != 0 {
		rate = fmt.Sprintf("%vHz", s.SampleRate)
	}
	depth := "*"
	if s.BitDepth != 0 {
		depth = fmt.Sprintf("%vbit", uint8(s.BitDepth))
	}
	return rate + "/" + depth
}

// accepts reports whether a produced shape fits this declared shape.
func (s Shape) accepts(produced Shape) bool {
	if s.SampleRate != 0 && produced.SampleRate != 0 && s.SampleRate != produced.SampleRate {
		return false
	}
	if s.BitDepth != 0 && produced.BitDepth != 0 && s.BitDepth != produced.BitDepth {
		return false
	}
	return true
}

// ShapeSet is the set of chunk shapes declared on one side of a node.
type ShapeSet struct {
	// Any accepts or produces every shape.
	Any bool
	// Shapes is the explicit set. Ignored when Any is set. An empty set
	// with Any unset means none: a source consumes nothing, a sink
	// produces nothing.
	Shapes []Shape
}

// AnyShapes declares the unconstrained shape set.
func AnyShapes() ShapeSet {
	return ShapeSet{Any: true}
}

// NoShapes declares the empty shape set.
func NoShapes() ShapeSet {
	return ShapeSet{}
}

// Shapes declares an explicit shape set.
func Shapes(shapes ...Shape) ShapeSet {
	return ShapeSet{Shapes: shapes}
}

// None reports whether the set is empty.
func (set ShapeSet) None() bool {
	return !set.Any && len(set.Shapes) == 0
}

func (set ShapeSet) String() string {
	if set.Any {
		return "any"
	}
	if len(set.Shapes) == 0 {
		return "none"
	}
	ss := make([]string, len(set.Shapes))
	for i := range set.Shapes {
		ss[i] = set.Shapes[i].String()
	}
	return strings.Join(ss, ",")
}

// accepts reports whether a produced shape is a member of the set.
func (set ShapeSet) accepts(produced Shape) bool {
	if set.Any {
		return true
	}
	for i := range set.Shapes {
		if set.Shapes[i].accepts(produced) {
			return true
		}
	}
	return false
}

// satisfies reports whether every shape this set produces is accepted by
// the consuming set.
func (set ShapeSet) satisfies(consumes ShapeSet) bool {
	if set.None() || consumes.None() {
		return false
	}
	if consumes.Any {
		return true
	}
	if set.Any {
		// an unconstrained producer cannot promise a constrained consumer
		// anything
		return false
	}
	for i := range set.Shapes {
		if !consumes.accepts(set.Shapes[i]) {
			return false
		}
	}
	return true
}

// Caps is the capability descriptor attached to each node. It declares the
// chunk shapes the node can consume and the shapes it can produce,
// independently of the tree it ends up wired into.
type Caps struct {
	Consumes ShapeSet
	Produces ShapeSet
}

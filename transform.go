package pipe

import (
	"github.com/roomcast/pipe/signal"
)

// Transform is a linear stage delegating chunk processing to a function.
// The function may forward the received reference unchanged, return a
// replacement chunk, or return nil to swallow the chunk.
type Transform[S signal.Sample] struct {
	node[S]
	fn func(*Chunk[S]) (*Chunk[S], error)
}

// NewTransform creates a transform stage around fn.
func NewTransform[S signal.Sample](fn func(*Chunk[S]) (*Chunk[S], error), options ...Option) *Transform[S] {
	caps := Caps{Consumes: AnyShapes(), Produces: AnyShapes()}
	return &Transform[S]{
		node: newNode[S]("transform", caps, false, false, options...),
		fn:   fn,
	}
}

// Run implements Node.
func (tr *Transform[S]) Run(t *Token) error {
	return tr.runTree(t, func(t *Token) error {
		return tr.process(t, tr.fn)
	})
}

package pipe

import (
	"errors"
	"fmt"
)

var (
	// ErrDone is the cancellation cause used when a pipeline shuts down
	// cleanly after end of stream.
	ErrDone = errors.New("pipe done")

	// ErrSendFailed is returned by guaranteed push when delivery became
	// impossible because the receiving side of the edge is gone.
	ErrSendFailed = errors.New("send failed")

	// ErrReceiveFailed is returned when an inbound stream became unusable
	// other than by clean closure, such as a failed file or transport
	// read behind a receive adapter.
	ErrReceiveFailed = errors.New("receive failed")

	// ErrChildFinished is returned when a child node completed even though
	// the tree topology expects it to run for the pipeline's lifetime.
	ErrChildFinished = errors.New("child finished prematurely")
)

// ChildError is returned by a parent node when one of its spawned children
// ended in error. The child's own error is preserved in the chain.
type ChildError struct {
	Node string
	Err  error
}

func (e *ChildError) Error() string {
	return fmt.Sprintf("child %v died: %v", e.Node, e.Err)
}

func (e *ChildError) Unwrap() error {
	return e.Err
}

// ProcessError is a stage-specific processing failure with the identity of
// the offending node attached.
type ProcessError struct {
	Node string
	Err  error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("node %v: %v", e.Node, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// MismatchError is a graph-construction-time rejection of a producer to
// consumer connection. It describes both declared sides.
type MismatchError struct {
	Producer string
	Consumer string
	Produces ShapeSet
	Consumes ShapeSet
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("cannot wire %v to %v: produces %v, consumes %v",
		e.Producer, e.Consumer, e.Produces, e.Consumes)
}

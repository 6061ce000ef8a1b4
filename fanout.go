package pipe

import (
	"fmt"

	"github.com/roomcast/pipe/signal"
)

// Fanout delivers one produced chunk to every registered subscriber queue,
// in registration order. It supports a delivery-guaranteed mode, where the
// producer blocks until every queue accepted the chunk, and a best-effort
// mode, where a full queue silently misses the chunk.
type Fanout[S signal.Sample] struct {
	subs []chan<- *Chunk[S]
}

// Add appends a subscriber queue. Not safe to call concurrently with
// delivery; subscribers are attached while the graph is composed.
func (f *Fanout[S]) Add(tx chan<- *Chunk[S]) {
	f.subs = append(f.subs, tx)
}

// Len returns the number of subscribers.
func (f *Fanout[S]) Len() int {
	return len(f.subs)
}

// Push delivers the chunk to every subscriber, blocking on each full queue
// until it accepts. Delivery is abandoned with ErrSendFailed when the
// token triggers, which is how a dead downstream consumer is detected.
func (f *Fanout[S]) Push(t *Token, c *Chunk[S]) error {
	for _, sub := range f.subs {
		select {
		case sub <- c:
		case <-t.Done():
			return fmt.Errorf("%w: %v", ErrSendFailed, cancelCause(t))
		}
	}
	return nil
}

// TryPush attempts a non-blocking delivery to every subscriber and returns
// the number of queues that accepted the chunk. Subscribers with full
// queues miss it.
func (f *Fanout[S]) TryPush(c *Chunk[S]) int {
	var delivered int
	for _, sub := range f.subs {
		select {
		case sub <- c:
			delivered++
		default:
		}
	}
	return delivered
}

// Close closes every subscriber queue, signalling end of stream
// downstream. The fanout owner is the only sender on these queues.
func (f *Fanout[S]) Close() {
	for _, sub := range f.subs {
		close(sub)
	}
	f.subs = nil
}

func cancelCause(t *Token) error {
	if cause := t.Cause(); cause != nil {
		return cause
	}
	return ErrDone
}

package pipe

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/roomcast/pipe/signal"
)

// Buffer is the time-buffering multiroom stage. It retains the most
// recent chunks in a bounded ring and serves every offset subscriber a
// time-shifted view of the same stream: a subscriber registered with
// offset o receives, on arrival of chunk i, the retained chunk i-o. All
// subscribers stay sample-accurate relative to the producer and to each
// other while sharing one O(capacity) retention window.
//
// Offset subscribers are served best-effort: a slow subscriber misses
// chunks that scroll out of its queue rather than stalling the producer.
// Children registered as the next linear stage receive the fresh,
// unbuffered chunk, best-effort by default or delivery-guaranteed with
// the WithGuaranteedForwarding option.
//
// A subscriber whose offset is not smaller than the buffer capacity can
// never be served; respecting that constraint is up to the caller.
type Buffer[S signal.Sample] struct {
	node[S]
	mu         sync.RWMutex
	ring       []*Chunk[S]
	capacity   int
	count      uint64
	subs       []*offsetSubscriber[S]
	closed     bool
	guaranteed bool
	drops      atomic.Uint64
}

type offsetSubscriber[S signal.Sample] struct {
	tx     chan *Chunk[S]
	offset uint64
}

// delivery pairs a due chunk with its subscriber queue.
type delivery[S signal.Sample] struct {
	tx    chan *Chunk[S]
	chunk *Chunk[S]
}

// NewBuffer creates a buffering stage retaining up to capacity chunks.
// A capacity below one is a programming error and panics.
func NewBuffer[S signal.Sample](capacity int, options ...Option) *Buffer[S] {
	if capacity < 1 {
		panic(fmt.Sprintf("buffer capacity %d, must be positive", capacity))
	}
	cfg := config{}
	for _, option := range options {
		option(&cfg)
	}
	caps := Caps{Consumes: AnyShapes(), Produces: AnyShapes()}
	return &Buffer[S]{
		node:       newNode[S]("buffer", caps, false, false, options...),
		ring:       make([]*Chunk[S], 0, capacity),
		capacity:   capacity,
		guaranteed: cfg.guaranteed,
	}
}

// Subscribe registers an offset subscriber and returns its queue. Safe to
// call before or while the stage is running. The queue is closed when the
// stream ends.
func (b *Buffer[S]) Subscribe(offset, queue int) <-chan *Chunk[S] {
	tx := make(chan *Chunk[S], queue)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(tx)
		return tx
	}
	b.subs = append(b.subs, &offsetSubscriber[S]{tx: tx, offset: uint64(offset)})
	return tx
}

// Len returns the number of chunks currently retained.
func (b *Buffer[S]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.ring)
}

// Drops returns the number of chunks missed by best-effort subscribers
// since the stage started.
func (b *Buffer[S]) Drops() uint64 {
	return b.drops.Load()
}

// Run implements Node.
func (b *Buffer[S]) Run(t *Token) error {
	return b.runTree(t, b.buffer)
}

func (b *Buffer[S]) buffer(t *Token) error {
	defer b.closeSubscribers()
	for {
		c, ok := b.receive(t)
		if !ok {
			return nil
		}
		b.meter.Message(c.Frames(), c.SampleRate)
		for _, d := range b.append(c) {
			select {
			case d.tx <- d.chunk:
			default:
				b.drops.Add(1)
				b.meter.Drop(1)
			}
		}
		// the freshly arrived chunk moves on to the next linear stage
		// unbuffered
		if b.guaranteed {
			if err := b.out.Push(t, c); err != nil {
				return nil
			}
		} else if missed := b.out.Len() - b.out.TryPush(c); missed > 0 {
			b.drops.Add(uint64(missed))
			b.meter.Drop(missed)
		}
	}
}

// append stores the chunk in the retention ring, evicting the oldest
// entry at capacity, and collects the due delivery for every offset
// subscriber. Ring and subscriber list are touched under the exclusive
// lock only; queue sends happen outside it.
func (b *Buffer[S]) append(c *Chunk[S]) []delivery[S] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.ring) == b.capacity {
		copy(b.ring, b.ring[1:])
		b.ring[len(b.ring)-1] = c
	} else {
		b.ring = append(b.ring, c)
	}
	chunkIndex := b.count
	b.count++

	var due []delivery[S]
	for _, sub := range b.subs {
		if chunkIndex < sub.offset {
			// not enough history yet
			continue
		}
		age := sub.offset
		if age >= uint64(len(b.ring)) {
			// target scrolled out of the retention window
			continue
		}
		due = append(due, delivery[S]{
			tx:    sub.tx,
			chunk: b.ring[uint64(len(b.ring))-age-1],
		})
	}
	return due
}

func (b *Buffer[S]) closeSubscribers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for _, sub := range b.subs {
		close(sub.tx)
	}
	b.subs = nil
}

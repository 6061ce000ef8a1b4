package pipe

import "time"

// defaultQueue is the inbound queue capacity used when no option is set.
const defaultQueue = 1

type config struct {
	name       string
	log        Logger
	queue      int
	caps       *Caps
	flush      func() error
	limit      int
	interval   time.Duration
	guaranteed bool
}

// Option provides a way to set functional parameters to a node.
type Option func(*config)

// WithName sets a human readable node name, used in logs and metrics.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLogger sets the node logger. If this option is not provided, the
// logger from the log package is used.
func WithLogger(l Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WithQueue sets the inbound queue capacity.
func WithQueue(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.queue = size
		}
	}
}

// WithCaps overrides the node's declared capability descriptor.
func WithCaps(caps Caps) Option {
	return func(c *config) {
		c.caps = &caps
	}
}

// WithFlush sets a hook called once after the node's processing loop ends,
// before children are joined. Used by sinks holding external resources.
func WithFlush(fn func() error) Option {
	return func(c *config) {
		c.flush = fn
	}
}

// WithChunkLimit limits the number of chunks a source produces before it
// ends the stream. Zero means unlimited.
func WithChunkLimit(n int) Option {
	return func(c *config) {
		c.limit = n
	}
}

// WithInterval paces a source's chunk emission to a fixed schedule,
// enabling real-time streaming.
func WithInterval(d time.Duration) Option {
	return func(c *config) {
		c.interval = d
	}
}

// WithGuaranteedForwarding makes a buffering stage block on full
// next-stage queues instead of dropping chunks. A slow next stage then
// backpressures the whole source, so offset subscribers slow down with
// it; the default best-effort policy keeps the stream timely and lets
// chunks be lost instead.
func WithGuaranteedForwarding() Option {
	return func(c *config) {
		c.guaranteed = true
	}
}

// Package metric collects per-node pipeline counters and exposes them
// through the expvar interface.
package metric

import (
	"expvar"
	"fmt"
	"sync"
	"time"

	"github.com/roomcast/pipe/signal"
)

const nodesLabel = "pipe.nodes"

const (
	// MessageCounter measures number of chunks.
	MessageCounter = "Messages"
	// SampleCounter measures number of frames.
	SampleCounter = "Samples"
	// DropCounter measures chunks lost on best-effort delivery.
	DropCounter = "Drops"
	// DurationCounter counts the duration of processed signal.
	DurationCounter = "Duration"
)

var nodes = meters{
	m: make(map[string]*Meter),
}

type meters struct {
	sync.Mutex
	m map[string]*Meter
}

// Meter captures counters of a single pipeline node.
type Meter struct {
	key      string
	messages *expvar.Int
	samples  *expvar.Int
	drops    *expvar.Int
	duration *duration
}

// Get returns the meter registered for the node key, creating it on first
// use. Meters are shared when nodes reuse a key.
func Get(node string) *Meter {
	nodes.Lock()
	defer nodes.Unlock()
	if m, ok := nodes.m[node]; ok {
		return m
	}
	m := &Meter{
		key:      node,
		messages: expvar.NewInt(key(node, MessageCounter)),
		samples:  expvar.NewInt(key(node, SampleCounter)),
		drops:    expvar.NewInt(key(node, DropCounter)),
		duration: &duration{},
	}
	expvar.Publish(key(node, DurationCounter), m.duration)
	nodes.m[node] = m
	return m
}

// Message captures one processed chunk of the given size.
func (m *Meter) Message(frames int, sampleRate uint32) {
	if m == nil {
		return
	}
	m.messages.Add(1)
	m.samples.Add(int64(frames))
	if sampleRate != 0 {
		m.duration.add(signal.DurationOf(sampleRate, uint64(frames)))
	}
}

// Drop captures chunks missed by best-effort subscribers.
func (m *Meter) Drop(n int) {
	if m == nil || n == 0 {
		return
	}
	m.drops.Add(int64(n))
}

// Messages returns the number of captured chunks.
func (m *Meter) Messages() int64 {
	return m.messages.Value()
}

// Samples returns the number of captured frames.
func (m *Meter) Samples() int64 {
	return m.samples.Value()
}

// Drops returns the number of captured best-effort misses.
func (m *Meter) Drops() int64 {
	return m.drops.Value()
}

func key(node, counter string) string {
	return fmt.Sprintf("%s.%s.%s", nodesLabel, node, counter)
}

// duration is an expvar-compatible time.Duration counter.
type duration struct {
	sync.Mutex
	d time.Duration
}

func (v *duration) String() string {
	v.Lock()
	defer v.Unlock()
	return fmt.Sprintf("\"%v\"", v.d)
}

func (v *duration) add(d time.Duration) {
	v.Lock()
	v.d += d
	v.Unlock()
}

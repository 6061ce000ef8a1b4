package pipe

import (
	"sync"

	"github.com/roomcast/pipe/signal"
)

// VolumeEvent is published by a master volume control whenever its value
// changes.
type VolumeEvent struct {
	// Source is the identifying name of the publishing control.
	Source string
	// Multiplier is the new linear volume multiplier.
	Multiplier float64
}

// VolumeMaster is a settable volume control broadcasting changes to any
// number of subscribed listeners over one-way event queues. This is
// push/subscribe, not request/response: publication never blocks, and a
// listener that has not drained its queue observes only the latest value.
type VolumeMaster struct {
	mu   sync.Mutex
	name string
	mult float64
	subs []chan VolumeEvent
}

// NewVolumeMaster creates a master control at unity volume.
func NewVolumeMaster(name string) *VolumeMaster {
	return &VolumeMaster{name: name, mult: 1}
}

// Subscribe registers a listener and returns its event queue.
func (m *VolumeMaster) Subscribe() <-chan VolumeEvent {
	tx := make(chan VolumeEvent, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, tx)
	return tx
}

// Volume returns the current multiplier.
func (m *VolumeMaster) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mult
}

// SetVolume replaces the multiplier and publishes the change to every
// subscriber. A subscriber that has not consumed the previous event gets
// it replaced by the newest one.
func (m *VolumeMaster) SetVolume(mult float64) {
	if mult < 0 {
		mult = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if mult == m.mult {
		return
	}
	m.mult = mult
	e := VolumeEvent{Source: m.name, Multiplier: mult}
	for _, tx := range m.subs {
		select {
		case tx <- e:
		default:
			// stale event still queued, replace it with the newest
			select {
			case <-tx:
			default:
			}
			select {
			case tx <- e:
			default:
			}
		}
	}
}

// SecondaryGain is a DSP stage combining the most recently received
// master multiplier with its own local multiplier. The two sides are
// independent: a master event updates only the cached master value, a
// local SetVolume call updates only the local value, and the applied gain
// is their product, recomputed on the next chunk processed. The secondary
// holds no reference to the master beyond the event queue.
type SecondaryGain[S signal.Sample] struct {
	node[S]
	events <-chan VolumeEvent
	mu     sync.RWMutex
	local  float64
	master float64
}

// NewSecondaryGain creates a secondary control fed by the given event
// queue, typically obtained from VolumeMaster.Subscribe. Both multipliers
// start at unity.
func NewSecondaryGain[S signal.Sample](events <-chan VolumeEvent, options ...Option) *SecondaryGain[S] {
	caps := Caps{Consumes: AnyShapes(), Produces: AnyShapes()}
	return &SecondaryGain[S]{
		node:   newNode[S]("secondary-gain", caps, false, false, options...),
		events: events,
		local:  1,
		master: 1,
	}
}

// SetVolume replaces the local multiplier. Safe to call while the stage
// is running.
func (g *SecondaryGain[S]) SetVolume(mult float64) {
	if mult < 0 {
		mult = 0
	}
	g.mu.Lock()
	g.local = mult
	g.mu.Unlock()
}

// Volume returns the effective multiplier, the product of the local and
// the cached master values.
func (g *SecondaryGain[S]) Volume() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.local * g.master
}

// Run implements Node.
func (g *SecondaryGain[S]) Run(t *Token) error {
	return g.runTree(t, g.mix)
}

func (g *SecondaryGain[S]) mix(t *Token) error {
	for {
		select {
		case e := <-g.events:
			g.mu.Lock()
			g.master = e.Multiplier
			g.mu.Unlock()
			continue
		default:
		}
		select {
		case e := <-g.events:
			g.mu.Lock()
			g.master = e.Multiplier
			g.mu.Unlock()
		case c, ok := <-g.in:
			if !ok {
				return nil
			}
			out, err := g.apply(c)
			if err != nil {
				return &ProcessError{Node: g.id, Err: err}
			}
			g.meter.Message(out.Frames(), out.SampleRate)
			if err := g.out.Push(t, out); err != nil {
				return nil
			}
		case <-t.Done():
			return nil
		}
	}
}

func (g *SecondaryGain[S]) apply(c *Chunk[S]) (*Chunk[S], error) {
	lin := g.Volume()
	if lin == 1 {
		return c, nil
	}
	return c.WithSamples(
		scale(c.Left, lin, c.BitDepth),
		scale(c.Right, lin, c.BitDepth),
	), nil
}

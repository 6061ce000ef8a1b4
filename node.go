package pipe

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"

	"github.com/roomcast/pipe/log"
	"github.com/roomcast/pipe/metric"
	"github.com/roomcast/pipe/signal"
)

// Logger is a global interface for pipe loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

var defaultLogger Logger = log.GetLogger()

// Node is one stage of a pipeline tree. A node owns zero or one inbound
// queue, an ordered set of outbound subscriber queues populated through
// Register, and runs as its own goroutine once the tree is started.
type Node[S signal.Sample] interface {
	// ID returns the unique id of the node.
	ID() string
	// Caps returns the node's declared capability descriptor.
	Caps() Caps
	// Tx returns a handle to the node's inbound queue. Sources return nil.
	Tx() chan<- *Chunk[S]
	// Register attaches a child node: the child's inbound queue becomes
	// one of this node's outbound subscribers. Registering a child on a
	// terminal node, or a source as a child, is a programming error and
	// panics. Use Wire for the capability-checked path.
	Register(child Node[S])
	// Run spawns every registered child as its own task, then executes
	// this node's processing loop until end of stream, cancellation or
	// error, and finally joins all child tasks. The same token instance
	// is shared by the whole tree.
	Run(t *Token) error
}

// Wire connects parent to child after checking that the parent's declared
// output capability satisfies the child's declared input capability. The
// mismatch is reported at graph construction time, never as a runtime
// data error.
func Wire[S signal.Sample](parent, child Node[S]) error {
	produces := parent.Caps().Produces
	consumes := child.Caps().Consumes
	if !produces.satisfies(consumes) {
		return &MismatchError{
			Producer: parent.ID(),
			Consumer: child.ID(),
			Produces: produces,
			Consumes: consumes,
		}
	}
	parent.Register(child)
	return nil
}

// Run executes the tree rooted at root until clean end of stream, the
// first propagated error, or cancellation of ctx. It resolves only after
// the entire subtree has stopped.
func Run[S signal.Sample](ctx context.Context, root Node[S]) error {
	t := NewToken(ctx)
	defer t.Cancel(ErrDone)
	return root.Run(t)
}

// node states.
type nodeState int32

const (
	stateConstructed nodeState = iota
	stateChildrenRegistered
	stateRunning
	stateDraining
	stateTerminated
)

// node carries the state shared by all stage implementations and the
// tree lifecycle contract.
type node[S signal.Sample] struct {
	id       string
	name     string
	log      Logger
	flush    func() error
	caps     Caps
	in       chan *Chunk[S]
	out      Fanout[S]
	children []Node[S]
	terminal bool
	state    atomic.Int32
	meter    *metric.Meter
}

func newNode[S signal.Sample](kind string, caps Caps, source, terminal bool, options ...Option) node[S] {
	cfg := config{queue: defaultQueue, log: defaultLogger}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.name == "" {
		cfg.name = kind
	}
	if cfg.caps != nil {
		caps = *cfg.caps
	}
	n := node[S]{
		id:       xid.New().String(),
		name:     cfg.name,
		log:      cfg.log,
		flush:    cfg.flush,
		caps:     caps,
		terminal: terminal,
		meter:    metric.Get(cfg.name),
	}
	if !source {
		n.in = make(chan *Chunk[S], cfg.queue)
	}
	return n
}

func (n *node[S]) ID() string {
	return n.id
}

func (n *node[S]) Caps() Caps {
	return n.caps
}

func (n *node[S]) Tx() chan<- *Chunk[S] {
	if n.in == nil {
		return nil
	}
	return n.in
}

func (n *node[S]) String() string {
	return fmt.Sprintf("%v %v", n.name, n.id)
}

func (n *node[S]) Register(child Node[S]) {
	if n.terminal {
		panic(fmt.Sprintf("register child on terminal node %v", n))
	}
	if child.Tx() == nil {
		panic(fmt.Sprintf("register source %v as child of %v", child.ID(), n))
	}
	if nodeState(n.state.Load()) > stateChildrenRegistered {
		panic(fmt.Sprintf("register child on started node %v", n))
	}
	n.children = append(n.children, child)
	n.out.Add(child.Tx())
	n.state.Store(int32(stateChildrenRegistered))
}

// runTree implements the shared run contract: spawn every registered
// child, execute the node's own loop, trigger the token on error exit,
// close the outbound queues and join the children. A child that ends in
// error, or finishes while this node is still running, surfaces as a
// distinguished error and triggers tree-wide cancellation.
func (n *node[S]) runTree(t *Token, loop func(*Token) error) error {
	n.state.Store(int32(stateRunning))
	n.log.Debug("node started: ", n.String())
	var g errgroup.Group
	for _, child := range n.children {
		child := child
		g.Go(func() error {
			err := child.Run(t)
			if err != nil {
				err = &ChildError{Node: child.ID(), Err: err}
				t.Cancel(err)
				return err
			}
			if nodeState(n.state.Load()) == stateRunning && !t.Cancelled() {
				err = fmt.Errorf("%w: %v", ErrChildFinished, child.ID())
				t.Cancel(err)
				return err
			}
			return nil
		})
	}

	err := loop(t)
	n.state.Store(int32(stateDraining))
	if n.flush != nil {
		if ferr := n.flush(); ferr != nil && err == nil {
			err = &ProcessError{Node: n.id, Err: ferr}
		}
	}
	if err != nil {
		t.Cancel(err)
	}
	n.out.Close()

	childErr := g.Wait()
	n.state.Store(int32(stateTerminated))
	n.log.Debug("node terminated: ", n.String())
	if err != nil {
		return err
	}
	return childErr
}

// receive blocks on the inbound queue until a chunk arrives, the queue is
// closed or the token triggers.
func (n *node[S]) receive(t *Token) (*Chunk[S], bool) {
	select {
	case c, ok := <-n.in:
		if !ok {
			return nil, false
		}
		return c, true
	case <-t.Done():
		return nil, false
	}
}

// process is the common linear stage loop: receive a chunk, let fn decide
// whether to forward the original reference or a replacement, then fan
// out with guaranteed delivery. fn returning nil without error swallows
// the chunk.
func (n *node[S]) process(t *Token, fn func(*Chunk[S]) (*Chunk[S], error)) error {
	for {
		c, ok := n.receive(t)
		if !ok {
			return nil
		}
		out, err := fn(c)
		if err != nil {
			return &ProcessError{Node: n.id, Err: err}
		}
		if out == nil {
			continue
		}
		n.meter.Message(out.Frames(), out.SampleRate)
		if err := n.out.Push(t, out); err != nil {
			// the tree is stopping, the cause owner reports it
			return nil
		}
	}
}

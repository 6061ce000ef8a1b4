// Package pipe implements a streaming audio pipeline engine. A pipeline is
// a tree of nodes exchanging immutable chunks of stereo samples
// through bounded queues. Each node runs as its own goroutine: a source
// produces chunks at the root, linear stages transform or forward them, a
// buffering stage serves time-shifted copies of the stream to multiroom
// subscribers, and terminal sinks consume them.
//
// The tree is composed with Wire, which checks the type capabilities of
// both sides before registration, and executed with Run, which spawns the
// whole subtree, supervises it and resolves once every node has stopped.
package pipe

package chain

import "sync"

// Mem is a single-slot cache of one chain node. The zero value is empty and
// ready to use. Threading a Mem through RunWith keeps a producer's fast path
// allocation-free: a Run that finds its predecessor drained gets the
// predecessor's node back into the same Mem.
//
// A Mem belongs to one goroutine at a time. It may be handed off between
// goroutines by assignment, but passing the same Mem to two concurrent
// RunWith calls is a data race. Any Mem may be used with any Chain.
type Mem struct {
	free *node
}

func (m *Mem) take() *node {
	if w := m.free; w != nil {
		m.free = nil
		return w
	}
	return new(node)
}

func (m *Mem) put(w *node) { m.free = w }

// nodePool backs Run calls that do not thread their own Mem. sync.Pool keeps
// the cache per-P, which is as close to the thread-local slot as Go gets.
var nodePool = sync.Pool{New: func() any { return new(node) }}

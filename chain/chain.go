// Package chain implements the action chain, a serializing primitive that can
// be used as an alternative to locking when critical sections are small and
// contention is high.
//
// Instead of parking goroutines on a lock, Run links every submitted action
// into an atomic chain and lets exactly one goroutine at a time drain the
// chain on behalf of all contributors. This provides several guarantees:
//   - Actions on the same chain execute in the exact order Run linearized them
//   - At most one action per chain is executing at any instant
//   - Run never blocks: it either returns after publishing its action or
//     executes a suffix of the chain itself before returning
//   - A producer that finds its predecessor already drained reclaims the
//     predecessor's node, so a steady workload allocates nothing
//
// Example usage:
//
//	c := chain.New()
//	defer c.Close()
//
//	counter := 0
//	c.Run(func() { counter++ })
//
//	// Optionally thread your own node cache through Run calls.
//	var mem chain.Mem
//	c.RunWith(&mem, func() { counter++ })
//
// Actions may block arbitrarily, but while one does no other action on the
// same chain can progress, so callers should keep actions short.
package chain

import "sync/atomic"

// Chain serializes actions submitted through Run. The zero value is not
// usable; construct with New. A Chain must not be copied.
type Chain struct {
	tail atomic.Pointer[node]
}

// New creates an empty chain.
//
// The chain starts with a pre-drained sentinel node, so the first Run takes
// the same path as every later one.
func New() *Chain {
	c := &Chain{}
	s := &node{action: func() {}}
	c.tail.Store(s)
	runAll(s)
	return c
}

// Run either executes action synchronously, in which case actions added
// concurrently by other goroutines may also run on this goroutine before Run
// returns, or schedules it to run after all previously added actions have
// completed.
//
// Actions are guaranteed to run in the same order they were added. Any
// closure is accepted; there is no size limit on the captured state.
func (c *Chain) Run(action func()) {
	w := nodePool.Get().(*node)
	w.action = action
	if dead := c.tail.Swap(w).continueWith(w); dead != nil {
		dead.next.Store(nil)
		nodePool.Put(dead)
	}
}

// RunWith is Run with a caller-owned node cache instead of the shared pool.
// Two successive RunWith calls through the same Mem are satisfied without
// touching the allocator whenever the first found its predecessor drained.
//
// The Mem must not be used by two goroutines at once.
func (c *Chain) RunWith(mem *Mem, action func()) {
	w := mem.take()
	w.action = action
	if dead := c.tail.Swap(w).continueWith(w); dead != nil {
		dead.next.Store(nil)
		mem.put(dead)
	}
}

// Close releases the final tail node. The caller must ensure that no Run
// overlaps Close and that no action is still in flight; Close does not wait.
func (c *Chain) Close() {
	w := c.tail.Load()
	if w == nil {
		return
	}
	if w.next.Load() != sealed() {
		panic("chain: Close with actions in flight")
	}
	c.tail.Store(nil)
	w.next.Store(nil)
	nodePool.Put(w)
}

// Package mutexchain provides a sync.Mutex-serialized implementation of the
// chain surface. It makes the same guarantees as the action chain (actions
// run one at a time, each exactly once) by taking a lock around every
// action instead of linking actions into a chain.
//
// It exists as the comparison baseline: the conformance suite and the
// chainbench driver run identical workloads against both implementations.
package mutexchain

import "sync"

// Chain runs every action under a single mutex.
type Chain struct {
	mu sync.Mutex
}

// New creates a mutex-serialized chain.
func New() *Chain { return &Chain{} }

// Run executes action after all previously submitted actions have completed.
// Unlike the action chain, Run blocks while earlier actions are running.
func (c *Chain) Run(action func()) {
	c.mu.Lock()
	action()
	c.mu.Unlock()
}

// Close is a no-op; it exists to satisfy the shared surface.
func (c *Chain) Close() {}

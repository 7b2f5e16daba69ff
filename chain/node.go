package chain

import "sync/atomic"

// sealedNode's address marks a drained node whose executor declined to follow
// the chain further. It is never dereferenced and can never equal a live
// node's address.
var sealedNode node

func sealed() *node { return &sealedNode }

// node is one record per pending or in-flight action.
//
// While the node is live, next is written by at most two atomic swaps: the
// successor's producer links through continueWith, and the current executor
// seals in runAll. If the link comes first, next goes nil -> successor ->
// sealed; if the seal comes first, nil -> sealed -> successor. It returns to
// nil only when a dead node is reset for reuse. Whichever of the two observes the other's write inherits
// the node's cleanup; the partition is exact, so every node is destroyed
// once and only once.
type node struct {
	next   atomic.Pointer[node]
	action func()
}

// continueWith publishes next as this node's successor. Called exactly once
// per node, by the producer whose tail swap returned this node.
//
// A nil return means this node had not been drained yet; the executor will
// observe the successor when it finishes here and carry on with it. A
// non-nil return is this node itself, now dead: the executor had already
// sealed it, so the caller inherits both this node's cleanup and the
// executor role starting at next. The caller may reuse the returned node.
func (n *node) continueWith(next *node) *node {
	old := n.next.Swap(next)
	if old == nil {
		return nil
	}
	if old != sealed() {
		panic("chain: successor published twice")
	}
	runAll(next)
	return n
}

// runAll drains the chain starting at w, which must be unexecuted and
// unsealed. The loop stops at the first node with no published successor;
// sealing that node hands both execution and cleanup duty to whichever
// producer links the next action there.
func runAll(w *node) {
	for {
		w.action()
		w.action = nil
		next := w.next.Swap(sealed())
		if next == nil {
			return
		}
		if next == sealed() {
			panic("chain: node sealed twice")
		}
		// A successor was observed, so w's cleanup falls to this executor.
		// The node is dropped rather than recycled: the producer's Mem is
		// not reachable from here.
		w = next
	}
}

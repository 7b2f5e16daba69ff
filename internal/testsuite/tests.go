package testsuite

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTests runs every conformance test for one grid point.
func RunTests(t *testing.T, setup *Setup) {
	t.Helper()
	setup.Test(t, "Count", testCount)
	setup.Test(t, "ProgramOrder", testProgramOrder)
	setup.Test(t, "MutualExclusion", testMutualExclusion)
	setup.Test(t, "Empty", testEmpty)
}

// testCount checks that every submitted action executes exactly once: a
// plain counter incremented inside actions must come out exact, and the race
// detector must stay quiet.
func testCount(t *testing.T, setup *Setup) {
	runner := setup.Create()
	defer runner.Close()

	counter := 0
	var wg sync.WaitGroup
	wg.Add(setup.Procs)
	for proc := 0; proc < setup.Procs; proc++ {
		go func() {
			defer wg.Done()
			for i := 0; i < setup.Actions; i++ {
				runner.Run(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	require.Equal(t, setup.Procs*setup.Actions, counter)
}

// testProgramOrder checks that two Run calls on the same goroutine execute
// in program order: filtering the global execution log down to one
// goroutine's entries must yield that goroutine's submission sequence.
func testProgramOrder(t *testing.T, setup *Setup) {
	runner := setup.Create()
	defer runner.Close()

	type entry struct{ proc, seq int }
	var log []entry

	var wg sync.WaitGroup
	wg.Add(setup.Procs)
	for proc := 0; proc < setup.Procs; proc++ {
		go func(proc int) {
			defer wg.Done()
			for i := 0; i < setup.Actions; i++ {
				i := i
				runner.Run(func() {
					log = append(log, entry{proc: proc, seq: i})
				})
			}
		}(proc)
	}
	wg.Wait()

	require.Len(t, log, setup.Procs*setup.Actions)

	next := make([]int, setup.Procs)
	for _, e := range log {
		require.Equal(t, next[e.proc], e.seq,
			"proc %v executed out of program order", e.proc)
		next[e.proc] = e.seq + 1
	}
}

// testMutualExclusion checks that no two actions on the same runner overlap.
// The guard is a plain int, so an overlap shows up both as a failed
// assertion and as a report under the race detector.
func testMutualExclusion(t *testing.T, setup *Setup) {
	runner := setup.Create()
	defer runner.Close()

	inside := 0
	overlapped := false

	var wg sync.WaitGroup
	wg.Add(setup.Procs)
	for proc := 0; proc < setup.Procs; proc++ {
		go func() {
			defer wg.Done()
			for i := 0; i < setup.Actions; i++ {
				runner.Run(func() {
					inside++
					if inside != 1 {
						overlapped = true
					}
					inside--
				})
			}
		}()
	}
	wg.Wait()

	assert.False(t, overlapped, "two actions were inside the critical section at once")
}

// testEmpty submits actions that do nothing. They still consume a node each
// and must all be consumed without the runner wedging.
func testEmpty(t *testing.T, setup *Setup) {
	runner := setup.Create()
	defer runner.Close()

	var wg sync.WaitGroup
	wg.Add(setup.Procs)
	for proc := 0; proc < setup.Procs; proc++ {
		go func() {
			defer wg.Done()
			for i := 0; i < setup.Actions; i++ {
				runner.Run(func() {})
			}
		}()
	}
	wg.Wait()
}

package chain

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSingleAction(t *testing.T) {
	c := New()
	defer c.Close()

	counter := 0
	c.Run(func() { counter++ })

	assert.Equal(t, 1, counter, "a lone action runs synchronously inside Run")
}

func TestRunConcurrentAccess(t *testing.T) {
	c := New()
	defer c.Close()

	const numGoroutines = 100
	const iterations = 500
	counter := 0
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				c.Run(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	expected := numGoroutines * iterations
	assert.Equal(t, expected, counter, "Expected counter to be %d, got %d", expected, counter)
}

func TestRunOrdering(t *testing.T) {
	c := New()
	defer c.Close()

	// Goroutine 0 appends 0..N-1 while the others generate contention; the
	// log filtered to goroutine 0's entries must be exactly 0..N-1.
	const N = 10000
	const noise = 8

	var log []int
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < N; i++ {
			i := i
			c.Run(func() { log = append(log, i) })
		}
	}()

	wg.Add(noise)
	for i := 0; i < noise; i++ {
		go func() {
			defer wg.Done()
			for i := 0; i < N; i++ {
				c.Run(func() { log = append(log, -1) })
			}
		}()
	}
	wg.Wait()

	want := 0
	for _, v := range log {
		if v < 0 {
			continue
		}
		require.Equal(t, want, v, "actions of one goroutine executed out of order")
		want++
	}
	assert.Equal(t, N, want)
}

func TestQuiescentTailIsSealed(t *testing.T) {
	c := New()

	// A fresh chain's sentinel has already been drained.
	require.Same(t, sealed(), c.tail.Load().next.Load())

	var wg sync.WaitGroup
	wg.Add(4)
	for i := 0; i < 4; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Run(func() {})
			}
		}()
	}
	wg.Wait()

	// Once every Run returned, the executor has relinquished by sealing the
	// final node, which is exactly the node tail points at.
	assert.Same(t, sealed(), c.tail.Load().next.Load())
	c.Close()
}

func TestCloseIdempotent(t *testing.T) {
	c := New()
	c.Close()
	assert.NotPanics(t, func() { c.Close() })
}

func TestCloseInFlightPanics(t *testing.T) {
	c := New()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(func() {
			close(entered)
			<-release
		})
	}()

	<-entered
	assert.Panics(t, func() { c.Close() }, "Close must refuse a chain with an action in flight")

	close(release)
	<-done
	c.Close()
}

func TestStress(t *testing.T) {
	c := New()
	defer c.Close()

	const numGoroutines = 16
	const iterations = 100000
	counter := 0
	var wg sync.WaitGroup

	start := time.Now()
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			var mem Mem
			for j := 0; j < iterations; j++ {
				c.RunWith(&mem, func() { counter++ })
			}
		}()
	}
	wg.Wait()
	duration := time.Since(start)

	require.Equal(t, numGoroutines*iterations, counter)
	assert.Less(t, duration, 30*time.Second, "Chain stress test took too long: %v", duration)
}

// BenchmarkMutexUncontended is the sync.Mutex baseline with no contention.
func BenchmarkMutexUncontended(b *testing.B) {
	var mu sync.Mutex
	shared := 0
	for i := 0; i < b.N; i++ {
		mu.Lock()
		shared++
		mu.Unlock()
	}
}

func BenchmarkMutexContended(b *testing.B) {
	var mu sync.Mutex
	shared := 0
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			shared++
			mu.Unlock()
		}
	})
}

// BenchmarkChainUncontended tests chain performance with no contention.
func BenchmarkChainUncontended(b *testing.B) {
	c := New()
	defer c.Close()
	shared := 0
	action := func() { shared++ }
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Run(action)
	}
}

func BenchmarkChainUncontendedMem(b *testing.B) {
	c := New()
	defer c.Close()
	shared := 0
	action := func() { shared++ }
	var mem Mem
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.RunWith(&mem, action)
	}
}

func BenchmarkChainContended(b *testing.B) {
	c := New()
	defer c.Close()
	shared := 0
	action := func() { shared++ }
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Run(action)
		}
	})
}

func BenchmarkChainContendedMem(b *testing.B) {
	c := New()
	defer c.Close()
	shared := 0
	action := func() { shared++ }
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		var mem Mem
		for pb.Next() {
			c.RunWith(&mem, action)
		}
	})
}

// BenchmarkChainHeavyContention simulates work inside the critical section.
func BenchmarkChainHeavyContention(b *testing.B) {
	c := New()
	defer c.Close()
	shared := 0
	action := func() {
		for i := 0; i < 100; i++ {
			shared++
		}
	}
	b.RunParallel(func(pb *testing.PB) {
		var mem Mem
		for pb.Next() {
			c.RunWith(&mem, action)
		}
	})
}

func BenchmarkMutexHeavyContention(b *testing.B) {
	var mu sync.Mutex
	shared := 0
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			for i := 0; i < 100; i++ {
				shared++
			}
			mu.Unlock()
		}
	})
}

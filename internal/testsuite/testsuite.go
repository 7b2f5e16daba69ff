// Package testsuite runs a shared conformance grid against every
// implementation of the chain surface.
package testsuite

import (
	"fmt"
	"testing"
)

// Runner is the surface the suite exercises.
type Runner interface {
	// Run executes action serialized against all other Run calls on the
	// same value, exactly once.
	Run(action func())
	// Close releases the runner. The suite only calls it quiesced.
	Close()
}

// Desc describes one implementation under test.
type Desc struct {
	Name   string
	Create func() Runner
}

type Descs []Desc

// Params is the grid of configurations the suite iterates over.
type Params struct {
	Procs   []int
	Actions []int
}

// Test is the default grid for conformance tests.
var Test = Params{
	Procs:   []int{1, 2, 4, 8, 16, 32},
	Actions: []int{1, 100, 1000},
}

// Iterate calls fn once per implementation and grid point.
func (params *Params) Iterate(descs Descs, fn func(*Setup)) {
	for _, desc := range descs {
		for _, procs := range params.Procs {
			for _, actions := range params.Actions {
				fn(&Setup{
					Name:    desc.Name,
					Create:  desc.Create,
					Procs:   procs,
					Actions: actions,
				})
			}
		}
	}
}

// Setup is one point of the grid.
type Setup struct {
	Name    string
	Create  func() Runner
	Procs   int
	Actions int
}

func (setup *Setup) FullName(test string) string {
	return fmt.Sprintf("%v/%v/p%vn%v", setup.Name, test, setup.Procs, setup.Actions)
}

func (setup *Setup) Test(t *testing.T, name string, test func(t *testing.T, setup *Setup)) {
	t.Helper()
	t.Run(setup.FullName(name), func(t *testing.T) {
		test(t, setup)
	})
}

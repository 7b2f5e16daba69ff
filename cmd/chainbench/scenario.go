package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-actionchain/chain"
	"github.com/ahrav/go-actionchain/mutexchain"
)

// runner is the surface both backends expose to the driver.
type runner interface {
	Run(action func())
	Close()
}

// scenario is one measured workload. Fields are strings so that YAML files
// and flags share the K/M/G amount syntax.
type scenario struct {
	Name         string `yaml:"name"`
	Sync         string `yaml:"sync"`
	Threads      string `yaml:"threads"`
	OpsPerAction string `yaml:"ops-per-action"`
	Actions      string `yaml:"actions"`
}

// loadScenarios reads a YAML list of scenarios. Omitted fields take the same
// defaults as the flags.
func loadScenarios(path string) ([]scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var scenarios []scenario
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if len(scenarios) == 0 {
		return nil, errors.New("config lists no scenarios")
	}
	for i := range scenarios {
		scenarios[i].applyDefaults()
	}
	return scenarios, nil
}

func (sc *scenario) applyDefaults() {
	if sc.Sync == "" {
		sc.Sync = "0"
	}
	if sc.Threads == "" {
		sc.Threads = "8"
	}
	if sc.OpsPerAction == "" {
		sc.OpsPerAction = "1"
	}
	if sc.Actions == "" {
		sc.Actions = "1M"
	}
}

func (sc *scenario) fail(err error) error {
	if sc.Name == "" {
		return err
	}
	return errors.Wrapf(err, "scenario %q", sc.Name)
}

// run executes the scenario, writes one key=value measurement line to w and
// verifies the final counter.
func (sc *scenario) run(w io.Writer, verbose bool) error {
	syncMode, err := parseAmount(sc.Sync)
	if err != nil {
		return sc.fail(err)
	}
	threads, err := parseAmount(sc.Threads)
	if err != nil {
		return sc.fail(err)
	}
	ops, err := parseAmount(sc.OpsPerAction)
	if err != nil {
		return sc.fail(err)
	}
	actions, err := parseAmount(sc.Actions)
	if err != nil {
		return sc.fail(err)
	}
	if threads <= 0 {
		return sc.fail(errors.New("threads must be positive"))
	}

	var r runner
	switch syncMode {
	case 0:
		r = chain.New()
	case 1:
		r = mutexchain.New()
	default:
		return sc.fail(errors.Errorf("unknown sync backend %d", syncMode))
	}

	// Written only inside serialized actions.
	counter := int64(0)

	perThread := actions / threads
	extra := actions % threads

	start := time.Now()
	var g errgroup.Group
	for i := int64(0); i < threads; i++ {
		n := perThread
		if i < extra {
			n++
		}
		g.Go(func() error {
			submit := r.Run
			if c, ok := r.(*chain.Chain); ok {
				// Each worker threads its own node cache.
				var mem chain.Mem
				submit = func(action func()) { c.RunWith(&mem, action) }
			}
			action := func() {
				for k := int64(0); k < ops; k++ {
					counter++
				}
			}
			for j := int64(0); j < n; j++ {
				submit(action)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sc.fail(err)
	}
	wall := time.Since(start)
	r.Close()

	expected := actions * ops
	if counter != expected {
		return sc.fail(errors.Errorf("counter mismatch: got %d, want %d", counter, expected))
	}

	if sc.Name != "" {
		fmt.Fprintf(w, "name=%s ", sc.Name)
	}
	fmt.Fprintf(w, "sync=%d threads=%d ops_per_action=%d actions=%d wall_s=%.6f actions_per_s=%.0f ns_per_action=%.1f\n",
		syncMode, threads, ops, actions,
		wall.Seconds(),
		float64(actions)/wall.Seconds(),
		float64(wall.Nanoseconds())/float64(actions))

	if verbose {
		p := message.NewPrinter(language.English)
		p.Fprintf(os.Stderr, "completed %d actions on %d threads in %v\n",
			actions, threads, wall.Round(time.Millisecond))
	}
	return nil
}

package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/monitor"
	"github.com/matzehuels/rwpspread/pkg/observability"
)

// Trigger sources reported to hooks and logs.
const (
	TriggerInitial = "initial"
	TriggerOutputs = "outputs"
	TriggerSource  = "source"
)

// SourceWatcher blocks until the input image changes.
type SourceWatcher interface {
	Wait(ctx context.Context) (bool, error)
}

// Daemon reruns the pipeline whenever the monitor topology or the source
// image changes.
//
// Watchers feed a single trigger channel with capacity one and block while
// it is full, so a trigger that arrives during a run is held until the run
// completes and is never dropped. Runs never overlap.
type Daemon struct {
	Runner *Runner

	// Outputs reports monitor topology changes.
	Outputs monitor.Watcher

	// Source reports changes of the input. Nil disables source watching.
	Source SourceWatcher

	Logger *log.Logger
}

// NewDaemon creates a daemon. If logger is nil, the runner's logger is used.
func NewDaemon(runner *Runner, outputs monitor.Watcher, source SourceWatcher, logger *log.Logger) *Daemon {
	if logger == nil {
		logger = runner.Logger
	}
	return &Daemon{
		Runner:  runner,
		Outputs: outputs,
		Source:  source,
		Logger:  logger,
	}
}

// Run executes the initial run and then one run per trigger until ctx is
// cancelled, a run fails, or a watcher fails. Run never returns nil: on
// shutdown it returns ctx.Err().
//
// A run that has started is not cancelled by ctx; Run returns after it
// completes.
func (d *Daemon) Run(ctx context.Context, opts Options) error {
	if d.Runner == nil || d.Outputs == nil {
		return errors.New(errors.ErrCodeInternal, "daemon needs a runner and an output watcher")
	}
	opts.Daemon = true
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	if err := d.run(ctx, opts, TriggerInitial); err != nil {
		return err
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	triggers := make(chan string, 1)
	failures := make(chan error, 2)

	produce := func(name string, wait func(context.Context) (bool, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				changed, err := wait(ctx)
				if err != nil {
					if ctx.Err() == nil {
						failures <- fmt.Errorf("%s watcher: %w", name, err)
					}
					return
				}
				if !changed {
					continue
				}
				select {
				case triggers <- name:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	produce(TriggerOutputs, d.Outputs.Refresh)
	if d.Source != nil {
		produce(TriggerSource, d.Source.Wait)
	}
	d.Logger.Info("watching for changes", "source", d.Source != nil)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-failures:
			return err
		case name := <-triggers:
			observability.Daemon().OnTrigger(ctx, name)
			d.Logger.Debug("resplit requested", "reason", name)
			if err := d.run(context.WithoutCancel(ctx), opts, name); err != nil {
				return err
			}
		}
	}
}

func (d *Daemon) run(ctx context.Context, opts Options, reason string) error {
	start := time.Now()
	res, err := d.Runner.Execute(ctx, opts)
	observability.Daemon().OnRun(ctx, time.Since(start), err)
	if err != nil {
		return err
	}
	d.Logger.Info("run complete",
		"reason", reason,
		"regenerated", res.Regenerated,
		"duration", time.Since(start))
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rwpspread/pkg/backend"
	"github.com/matzehuels/rwpspread/pkg/cache"
	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/outputs"
	"github.com/matzehuels/rwpspread/pkg/pipeline"
	"github.com/matzehuels/rwpspread/pkg/watch"
)

// runSplit is the root command: one run, or the daemon loop with --daemon.
func (c *CLI) runSplit(cmd *cobra.Command, flags *splitFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := mergeConfig(cmd.Flags(), flags.config, logger); err != nil {
		return err
	}

	switch {
	case flags.info && flags.image != "":
		return errors.New(errors.ErrCodeInvalidInput, "--image and --info are mutually exclusive")
	case flags.info:
		return showMonitors(ctx, logger)
	case flags.image == "":
		return errors.New(errors.ErrCodeInvalidInput, "one of --image or --info is required")
	}

	opts, err := flags.options()
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	provider, err := outputs.Detect(logger)
	if err != nil {
		return err
	}
	logger.Debug("detected compositor", "outputs", provider.Name())

	var setter backend.Setter
	if opts.Backend != "" {
		if setter, err = backend.New(opts.Backend, backend.Options{Logger: logger}); err != nil {
			return err
		}
	}

	runner := pipeline.NewRunner(provider, setter, logger)
	if opts.Daemon {
		return runDaemon(ctx, runner, provider, opts, logger)
	}
	return splitOnce(ctx, runner, opts)
}

func runDaemon(ctx context.Context, runner *pipeline.Runner, provider outputs.Provider, opts pipeline.Options, logger *log.Logger) error {
	var source pipeline.SourceWatcher
	if opts.Watch {
		w := watch.New(opts.Input)
		w.Ignore = cache.Owned
		source = w
	}
	logger.Info("starting daemon", "outputs", provider.Name(), "watch", opts.Watch)
	return pipeline.NewDaemon(runner, provider, source, logger).Run(ctx, opts)
}

func splitOnce(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) error {
	spin := newSpinnerWithContext(ctx, os.Stderr, "Splitting wallpaper...")
	spin.Start()
	res, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func printResult(res *pipeline.Result) {
	if res.Regenerated {
		printSuccess("Split %s across %d monitors", filepath.Base(res.Source), len(res.Wallpapers))
	} else {
		printInfo("Wallpapers for %s are up to date", filepath.Base(res.Source))
	}
	for _, name := range res.Layout.Names() {
		printFile(res.Wallpapers[name])
	}
	w, h := res.Layout.Canvas()
	printStats(len(res.Wallpapers), fmt.Sprintf("%dx%d", w, h), !res.Regenerated)
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rwpspread/pkg/backend"
	"github.com/matzehuels/rwpspread/pkg/cache"
	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/layout"
	"github.com/matzehuels/rwpspread/pkg/locker"
	"github.com/matzehuels/rwpspread/pkg/monitor"
	"github.com/matzehuels/rwpspread/pkg/observability"
	"github.com/matzehuels/rwpspread/pkg/palette"
	"github.com/matzehuels/rwpspread/pkg/partition"
	"github.com/matzehuels/rwpspread/pkg/raster"
)

// Runner executes single runs.
//
// The Runner keeps no state between runs: the layout, key and work
// directory are rebuilt from scratch every time. It is not safe to execute
// two runs against the same work directory concurrently; [Daemon]
// serializes them.
type Runner struct {
	// Monitors enumerates the connected outputs.
	Monitors monitor.Source

	// Backend applies the wallpapers. Nil leaves them on disk only.
	Backend backend.Setter

	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(monitors monitor.Source, setter backend.Setter, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Monitors: monitors,
		Backend:  setter,
		Logger:   logger,
	}
}

// Execute runs source → resolve → gate → export → apply once.
// Any error aborts the run; artifacts written before the error are left to
// the next run's invalidation.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if r.Monitors == nil {
		return nil, errors.New(errors.ErrCodeInternal, "runner has no monitor source")
	}
	start := time.Now()

	if err := RunScript(ctx, opts.PreScript); err != nil {
		return nil, fmt.Errorf("pre script: %w", err)
	}

	// Stage 1: Source
	path, err := PickSource(opts.Input)
	if err != nil {
		return nil, err
	}
	src, err := raster.Load(path)
	if err != nil {
		return nil, err
	}

	workdir, err := opts.Workdir()
	if err != nil {
		return nil, err
	}

	// Stage 2: Resolve
	resolveStart := time.Now()
	l, err := r.resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Workdir: workdir,
		Source:  path,
		Layout:  l,
	}
	result.Stats.ResolveTime = time.Since(resolveStart)

	r.Logger.Debug("resolved layout",
		"monitors", len(l.Monitors),
		"converged", l.Converged,
		"duration", result.Stats.ResolveTime)
	if !l.Converged {
		r.Logger.Warn("monitor layout still overlaps after relaxation", "bezel", opts.Bezel)
	}

	// Stage 3: Gate
	result.Key, err = cache.Key(opts.Fingerprint(), l, src.Bytes)
	if err != nil {
		return nil, err
	}
	set := cache.ArtifactSet{
		Key:      result.Key,
		Monitors: l.Names(),
		Aliases:  opts.Aliases(),
		Locker:   string(opts.Locker),
		Palette:  opts.Palette,
	}

	gate, err := newGate(workdir, opts.Force)
	if err != nil {
		return nil, err
	}
	valid, err := gate.Valid(set)
	if err != nil {
		return nil, err
	}

	result.Wallpapers = make(map[string]string, len(set.Monitors))
	for _, name := range set.Monitors {
		result.Wallpapers[name] = set.Artifact(workdir, name)
	}

	if valid {
		observability.Cache().OnCacheHit(ctx, result.Key)
		r.Logger.Debug("wallpapers up to date", "hash", short(result.Key), "workdir", workdir)
	} else {
		observability.Cache().OnCacheMiss(ctx, result.Key, opts.Force)
		if err := r.regenerate(ctx, gate, set, src, opts, result); err != nil {
			return nil, err
		}
		result.Regenerated = true
	}

	// Stage 5: Apply
	if r.Backend != nil {
		applyStart := time.Now()
		err := r.Backend.Apply(ctx, backend.Request{
			Key:         result.Key,
			Wallpapers:  result.Wallpapers,
			Regenerated: result.Regenerated,
			Force:       opts.Force,
		})
		result.Stats.ApplyTime = time.Since(applyStart)
		observability.Pipeline().OnApply(ctx, string(r.Backend.Kind()), result.Stats.ApplyTime, err)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Backend.Kind(), err)
		}
		r.Logger.Debug("applied wallpapers", "backend", r.Backend.Kind(), "duration", result.Stats.ApplyTime)
	}

	if err := RunScript(ctx, opts.PostScript); err != nil {
		return nil, fmt.Errorf("post script: %w", err)
	}

	result.Stats.Total = time.Since(start)
	return result, nil
}

func (r *Runner) resolve(ctx context.Context, opts Options) (layout.Layout, error) {
	monitors, err := r.Monitors.Monitors(ctx)
	observability.Pipeline().OnResolveStart(ctx, len(monitors))
	start := time.Now()
	if err != nil {
		observability.Pipeline().OnResolveComplete(ctx, 0, time.Since(start), err)
		return layout.Layout{}, fmt.Errorf("enumerate monitors: %w", err)
	}
	l, err := layout.Resolve(monitors, opts.LayoutOptions())
	observability.Pipeline().OnResolveComplete(ctx, len(l.Monitors), time.Since(start), err)
	return l, err
}

// regenerate clears the work directory and writes every artifact of set.
func (r *Runner) regenerate(ctx context.Context, gate cache.Gate, set cache.ArtifactSet, src *raster.Source, opts Options, result *Result) error {
	if err := gate.Invalidate(); err != nil {
		return err
	}
	observability.Cache().OnInvalidate(ctx, gate.Dir())

	// Stage 4: Export
	plan, err := partition.Compute(src.Size(), result.Layout, opts.Alignment)
	if err != nil {
		return err
	}

	exportStart := time.Now()
	observability.Pipeline().OnExportStart(ctx, len(plan.Crops), plan.Resize)
	err = Export(ctx, src, plan, result.Wallpapers)
	result.Stats.ExportTime = time.Since(exportStart)
	observability.Pipeline().OnExportComplete(ctx, len(plan.Crops), result.Stats.ExportTime, err)
	if err != nil {
		return err
	}

	if set.Aliases {
		if err := LinkAliases(set, gate.Dir()); err != nil {
			return err
		}
	}
	if opts.Locker != "" {
		if _, err := locker.Write(gate.Dir(), opts.Locker, result.Wallpapers); err != nil {
			return err
		}
	}
	if opts.Palette {
		if _, err := palette.Generate(src.Image, result.Source).Write(gate.Dir()); err != nil {
			return err
		}
	}

	r.Logger.Debug("split wallpaper",
		"monitors", len(plan.Crops),
		"resized", plan.Resize,
		"hash", short(result.Key),
		"duration", result.Stats.ExportTime)
	return nil
}

func newGate(dir string, force bool) (cache.Gate, error) {
	g, err := cache.NewFileGate(dir)
	if err != nil {
		return nil, err
	}
	if force {
		return cache.NewForceGate(g), nil
	}
	return g, nil
}

func short(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

// Package pipeline runs rwpspread: it resolves the monitor layout, checks
// the artifact cache, splits the source image when needed and hands the
// result to the configured wallpaper daemon.
//
// # Architecture
//
// A run has five stages:
//
//  1. Source: pick the input image (randomly from a directory) and decode it
//  2. Resolve: enumerate monitors and solve the layout
//  3. Gate: hash configuration, layout and source, compare with the work directory
//  4. Export: on a miss, plan the partition and write one PNG per monitor
//  5. Apply: write sidecars and hand the wallpapers to the backend
//
// [Runner] executes one run. [Daemon] repeats runs whenever the monitor
// topology or the source file changes, one run at a time.
//
// # Usage
//
//	runner := pipeline.NewRunner(provider, setter, logger)
//	opts := pipeline.Options{
//	    Input:     "/home/me/wall.png",
//	    Alignment: partition.AlignCenter,
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/rwpspread/pkg/backend"
	"github.com/matzehuels/rwpspread/pkg/buildinfo"
	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/layout"
	"github.com/matzehuels/rwpspread/pkg/locker"
	"github.com/matzehuels/rwpspread/pkg/partition"
)

// =============================================================================
// Default Values
// =============================================================================

// AppName names the cache directory and prefixes user facing errors.
const AppName = "rwpspread"

// ImageExtensions are the file types picked from an input directory.
var ImageExtensions = []string{".png", ".jpg", ".jpeg"}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options is the validated configuration of a run.
type Options struct {
	// Input is an image file or a directory of images.
	Input string `json:"input"`

	// Output overrides the work directory.
	Output string `json:"output,omitempty"`

	Alignment partition.Alignment `json:"align,omitempty"`
	Backend   backend.Kind        `json:"backend,omitempty"`
	Locker    locker.Kind         `json:"locker,omitempty"`

	// Bezel is the gap in pixels inserted between neighboring monitors.
	Bezel int `json:"bezel,omitempty"`

	// Diagonals are monitor sizes in inches, used when PPI is set.
	Diagonals map[string]float64 `json:"monitors,omitempty"`
	PPI       bool               `json:"ppi,omitempty"`

	Daemon  bool `json:"daemon,omitempty"`
	Watch   bool `json:"watch,omitempty"`
	Palette bool `json:"palette,omitempty"`
	Force   bool `json:"force_resplit,omitempty"`

	PreScript  string `json:"pre,omitempty"`
	PostScript string `json:"post,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Fingerprint is the part of Options that changes what a run produces. It
// feeds the cache key; paths are deliberately absent so moving the input
// does not invalidate the cache.
type Fingerprint struct {
	Alignment string             `json:"align"`
	Bezel     int                `json:"bezel"`
	PPI       bool               `json:"ppi"`
	Diagonals map[string]float64 `json:"diagonals,omitempty"`
	Palette   bool               `json:"palette"`
	Backend   string             `json:"backend"`
	Locker    string             `json:"locker"`
	Aliases   bool               `json:"aliases"`
	Version   string             `json:"version"`
}

// Result contains the outcome of a run.
type Result struct {
	// Key is the cache key the artifacts are named after.
	Key string

	// Workdir is the directory the artifacts live in.
	Workdir string

	// Source is the image that was split.
	Source string

	// Layout is the resolved monitor layout.
	Layout layout.Layout

	// Wallpapers maps monitor names to hashed artifact paths.
	Wallpapers map[string]string

	// Regenerated is false when existing artifacts were reused.
	Regenerated bool

	// Stats contains timing information.
	Stats Stats
}

// Stats contains run timings.
type Stats struct {
	ResolveTime time.Duration
	ExportTime  time.Duration
	ApplyTime   time.Duration
	Total       time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ParseDiagonals parses "NAME:INCHES" entries.
func ParseDiagonals(entries []string) (map[string]float64, error) {
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		name, inches, ok := strings.Cut(strings.TrimSpace(e), ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid monitor definition %q (want NAME:INCHES)", e)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(inches), 64)
		if err != nil || d <= 0 || math.IsInf(d, 0) || math.IsNaN(d) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid diagonal in monitor definition %q", e)
		}
		if _, dup := out[name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "monitor %s defined twice", name)
		}
		out[name] = d
	}
	return out, nil
}

// validatePath checks that path exists and is a regular file (wantDir
// false) or a directory (wantDir true), and returns its absolute form.
func validatePath(path string, wantDir bool, what string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "%q: invalid %s", path, what)
	}
	fi, err := os.Stat(abs)
	if err != nil || fi.IsDir() != wantDir {
		return "", errors.New(errors.ErrCodeInvalidPath, "%q: invalid %s", path, what)
	}
	return abs, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and resolves paths.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input image is required")
	}

	abs, err := filepath.Abs(o.Input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "%q: invalid file or directory", o.Input)
	}
	if _, err := os.Stat(abs); err != nil {
		return errors.New(errors.ErrCodeInvalidPath, "%q: invalid file or directory", o.Input)
	}
	o.Input = abs

	if o.Output != "" {
		if o.Output, err = validatePath(o.Output, true, "directory"); err != nil {
			return err
		}
	}
	if o.PreScript != "" {
		if o.PreScript, err = validatePath(o.PreScript, false, "file"); err != nil {
			return err
		}
	}
	if o.PostScript != "" {
		if o.PostScript, err = validatePath(o.PostScript, false, "file"); err != nil {
			return err
		}
	}

	if o.Bezel < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "bezel must not be negative, got %d", o.Bezel)
	}
	if o.PPI && len(o.Diagonals) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "ppi compensation requires monitor definitions")
	}
	if o.Watch && !o.Daemon {
		return errors.New(errors.ErrCodeInvalidInput, "watch requires daemon mode")
	}
	if o.Alignment, err = partition.ParseAlignment(string(o.Alignment)); err != nil {
		return err
	}
	if o.Backend, err = backend.ParseKind(string(o.Backend)); err != nil {
		return err
	}
	if o.Locker, err = locker.ParseKind(string(o.Locker)); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// Aliases reports whether stable per-monitor aliases are maintained. They
// exist whenever something outside this process reads the wallpapers.
func (o *Options) Aliases() bool {
	return o.Daemon || o.Backend != "" || o.Locker != ""
}

// LayoutOptions returns the solver options.
func (o *Options) LayoutOptions() layout.Options {
	opts := layout.Options{Bezel: o.Bezel}
	if o.PPI {
		opts.Diagonals = o.Diagonals
	}
	return opts
}

// Fingerprint returns the cache relevant subset of o.
func (o *Options) Fingerprint() Fingerprint {
	fp := Fingerprint{
		Alignment: string(o.Alignment),
		Bezel:     o.Bezel,
		PPI:       o.PPI,
		Palette:   o.Palette,
		Backend:   string(o.Backend),
		Locker:    string(o.Locker),
		Aliases:   o.Aliases(),
		Version:   buildinfo.Version,
	}
	if o.PPI {
		fp.Diagonals = o.Diagonals
	}
	return fp
}

// Workdir returns where artifacts are written: the output directory if
// set, the user cache directory when running as daemon or with a backend,
// and the current directory otherwise.
func (o *Options) Workdir() (string, error) {
	if o.Output != "" {
		return o.Output, nil
	}
	if o.Daemon || o.Backend != "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "locate cache directory")
		}
		return filepath.Join(dir, AppName), nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read current directory")
	}
	return dir, nil
}


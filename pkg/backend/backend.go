// Package backend hands exported wallpapers to a wallpaper daemon.
//
// Three daemons are supported: wpaperd (config file plus restart),
// hyprpaper (IPC socket) and swaybg (one-shot process with arguments).
// All of them accept the same [Request] through the [Setter] interface.
package backend

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// Kind names a wallpaper daemon.
type Kind string

const (
	Wpaperd   Kind = "wpaperd"
	Hyprpaper Kind = "hyprpaper"
	Swaybg    Kind = "swaybg"
)

// Kinds lists the supported backends.
var Kinds = []Kind{Wpaperd, Hyprpaper, Swaybg}

// ParseKind validates a backend name. An empty string yields "".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "invalid backend %q (want wpaperd, hyprpaper or swaybg)", s)
}

// Request is what a run hands to its backend.
type Request struct {
	// Key is the cache key of the run.
	Key string

	// Wallpapers maps monitor names to the exported artifact paths.
	Wallpapers map[string]string

	// Regenerated is set when the run produced new artifacts.
	Regenerated bool

	// Force is set when the user asked for a resplit.
	Force bool
}

// Monitors returns the monitor names of r in sorted order.
func (r Request) Monitors() []string {
	names := make([]string, 0, len(r.Wallpapers))
	for n := range r.Wallpapers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Setter makes a set of wallpapers visible on screen.
type Setter interface {
	Kind() Kind
	Apply(ctx context.Context, req Request) error
}

// Options configures the constructed setters.
type Options struct {
	// Processes controls daemon processes. Nil uses the host's processes.
	Processes Processes

	// WpaperdConfig overrides the wpaperd config path.
	WpaperdConfig string

	// HyprpaperSocket overrides the hyprpaper socket path.
	HyprpaperSocket string

	Logger *log.Logger
}

// New returns the setter for kind. The daemon binary must be installed.
func New(kind Kind, opts Options) (Setter, error) {
	procs := opts.Processes
	if procs == nil {
		procs = HostProcesses{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(discard{})
	}

	if !procs.Installed(string(kind)) {
		return nil, errors.New(errors.ErrCodeNotInstalled, "%s is not installed", kind)
	}

	switch kind {
	case Wpaperd:
		path := opts.WpaperdConfig
		if path == "" {
			var err error
			if path, err = DefaultWpaperdConfig(); err != nil {
				return nil, err
			}
		}
		return &WpaperdSetter{ConfigPath: path, Processes: procs, Logger: logger}, nil
	case Hyprpaper:
		sock := opts.HyprpaperSocket
		if sock == "" {
			sock = DefaultHyprpaperSocket()
		}
		return &HyprpaperSetter{Socket: sock, Processes: procs, Logger: logger}, nil
	case Swaybg:
		return &SwaybgSetter{Processes: procs, Logger: logger}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown backend %q", kind)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Package monitor defines the value type describing one connected display and
// the interfaces through which displays are enumerated and watched.
//
// A [Monitor] is produced fresh on every enumeration by a [Source] and is never
// mutated afterwards. Solver stages derive new values from it instead.
package monitor

import (
	"context"
	"fmt"
	"sort"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// Monitor describes the logical geometry of one output as reported by the
// display server. X and Y may be negative.
type Monitor struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// InitialWidth and InitialHeight hold the reported size before any
	// solver-applied scaling. They are the native export resolution.
	InitialWidth  int `json:"initial_width"`
	InitialHeight int `json:"initial_height"`
}

// New returns a Monitor whose initial size equals its reported size.
func New(name string, x, y, width, height int) Monitor {
	return Monitor{
		Name:          name,
		X:             x,
		Y:             y,
		Width:         width,
		Height:        height,
		InitialWidth:  width,
		InitialHeight: height,
	}
}

// String formats the monitor as "NAME: WxH at X:Y".
func (m Monitor) String() string {
	return fmt.Sprintf("%s: %dx%d at %d:%d", m.Name, m.Width, m.Height, m.X, m.Y)
}

// Validate reports whether the monitor has a name and a positive size.
func (m Monitor) Validate() error {
	if m.Name == "" {
		return errors.New(errors.ErrCodeInvalidMonitor, "monitor has no name")
	}
	if m.Width <= 0 || m.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidMonitor, "monitor %s has invalid size %dx%d", m.Name, m.Width, m.Height)
	}
	return nil
}

// Validate checks every monitor and rejects duplicate names.
func Validate(monitors []Monitor) error {
	if len(monitors) == 0 {
		return errors.New(errors.ErrCodeInvalidMonitor, "no monitors detected")
	}
	seen := make(map[string]bool, len(monitors))
	for _, m := range monitors {
		if err := m.Validate(); err != nil {
			return err
		}
		if seen[m.Name] {
			return errors.New(errors.ErrCodeInvalidMonitor, "duplicate monitor name %q", m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}

// Sorted returns a copy of monitors ordered by name.
func Sorted(monitors []Monitor) []Monitor {
	out := make([]Monitor, len(monitors))
	copy(out, monitors)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the monitor names in the order given.
func Names(monitors []Monitor) []string {
	names := make([]string, len(monitors))
	for i, m := range monitors {
		names[i] = m.Name
	}
	return names
}

// Source enumerates the currently connected monitors.
type Source interface {
	Monitors(ctx context.Context) ([]Monitor, error)
}

// Watcher blocks until the output topology may have changed.
// It returns true when a resplit is needed.
type Watcher interface {
	Refresh(ctx context.Context) (bool, error)
}

// StaticSource is a Source that always reports the same monitors.
type StaticSource []Monitor

// Monitors returns a copy of the static monitor list.
func (s StaticSource) Monitors(ctx context.Context) ([]Monitor, error) {
	out := make([]Monitor, len(s))
	copy(out, s)
	return out, nil
}

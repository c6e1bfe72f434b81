// Package outputs enumerates the connected monitors of the running Wayland
// compositor and reports topology changes.
//
// Hyprland and Sway are queried over their IPC sockets. Any other wlroots
// compositor is handled through wlr-randr, whose output is polled for
// changes.
package outputs

import (
	"math"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/monitor"
)

// Provider lists monitors and blocks until they change.
type Provider interface {
	monitor.Source
	monitor.Watcher

	// Name identifies the compositor interface in logs.
	Name() string
}

// Detect picks the provider for the current session from the environment.
func Detect(logger *log.Logger) (Provider, error) {
	if sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE"); sig != "" {
		return NewHyprland(HyprlandSocketDir(sig)), nil
	}
	if sock := os.Getenv("SWAYSOCK"); sock != "" {
		return NewSway(sock), nil
	}
	if _, err := exec.LookPath("wlr-randr"); err == nil {
		return NewWlrRandr(logger), nil
	}
	return nil, errors.New(errors.ErrCodeNotInstalled,
		"no supported compositor found: need Hyprland, Sway or wlr-randr")
}

// logical converts a mode size to the logical size the compositor lays
// outputs out with.
func logical(width, height int, scale float64, rotated bool) (int, int) {
	if scale > 0 && scale != 1 {
		width = int(math.Round(float64(width) / scale))
		height = int(math.Round(float64(height) / scale))
	}
	if rotated {
		width, height = height, width
	}
	return width, height
}

// equal reports whether two snapshots describe the same topology.
func equal(a, b []monitor.Monitor) bool {
	a, b = monitor.Sorted(a), monitor.Sorted(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

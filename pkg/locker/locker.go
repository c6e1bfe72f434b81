// Package locker writes lock screen configuration that points at the
// exported wallpapers.
package locker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/rwpspread/pkg/cache"
	"github.com/matzehuels/rwpspread/pkg/errors"
)

// Kind names a screen locker.
type Kind string

const (
	Hyprlock Kind = "hyprlock"
	Swaylock Kind = "swaylock"
)

// ParseKind validates a locker name. An empty string yields "".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", Hyprlock, Swaylock:
		return k, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid locker %q (want hyprlock or swaylock)", s)
	}
}

// Render returns the config text for wallpapers, one entry per monitor in
// name order.
func Render(kind Kind, wallpapers map[string]string) (string, error) {
	names := make([]string, 0, len(wallpapers))
	for n := range wallpapers {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	switch kind {
	case Hyprlock:
		for _, n := range names {
			fmt.Fprintf(&b, "background {\n\tmonitor = %s\n\tpath = %s\n}\n\n", n, wallpapers[n])
		}
	case Swaylock:
		for _, n := range names {
			fmt.Fprintf(&b, "-i %s:%s ", n, wallpapers[n])
		}
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown locker %q", kind)
	}
	return b.String(), nil
}

// Write renders the config and stores it as the locker sidecar in dir.
// It returns the written path.
func Write(dir string, kind Kind, wallpapers map[string]string) (string, error) {
	text, err := Render(kind, wallpapers)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, cache.LockerName(string(kind)))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "write %s config", kind)
	}
	return path, nil
}

package cache

import (
	"path/filepath"
	"sort"
	"strings"
)

// Prefix marks every file this tool owns inside a work directory.
const Prefix = "rwps"

// ArtifactName is the hashed per-monitor file name.
func ArtifactName(monitor, key string) string {
	return Prefix + "_" + monitor + "_" + key + ".png"
}

// AliasName is the stable per-monitor file name that links to the current
// hashed artifact.
func AliasName(monitor string) string {
	return Prefix + "_" + monitor + ".png"
}

// LockerName is the sidecar config written for a screen locker.
func LockerName(locker string) string {
	return Prefix + "_" + locker + ".conf"
}

// PaletteName is the color palette sidecar.
const PaletteName = Prefix + "_colors.json"

// Owned reports whether a directory entry name belongs to this tool.
func Owned(name string) bool {
	return strings.HasPrefix(name, Prefix+"_")
}

// ArtifactSet describes every file a run with a given key leaves behind.
type ArtifactSet struct {
	Key      string
	Monitors []string

	// Aliases adds one AliasName per monitor.
	Aliases bool

	// Locker names the screen locker sidecar, empty for none.
	Locker string

	// Palette adds the palette sidecar.
	Palette bool
}

// Artifact returns the path of monitor's hashed artifact inside dir.
func (s ArtifactSet) Artifact(dir, monitor string) string {
	return filepath.Join(dir, ArtifactName(monitor, s.Key))
}

// Alias returns the path of monitor's alias inside dir.
func (s ArtifactSet) Alias(dir, monitor string) string {
	return filepath.Join(dir, AliasName(monitor))
}

// Expected returns the sorted file names a valid work directory contains.
func (s ArtifactSet) Expected() []string {
	names := make([]string, 0, 2*len(s.Monitors)+2)
	for _, m := range s.Monitors {
		names = append(names, ArtifactName(m, s.Key))
		if s.Aliases {
			names = append(names, AliasName(m))
		}
	}
	if s.Locker != "" {
		names = append(names, LockerName(s.Locker))
	}
	if s.Palette {
		names = append(names, PaletteName)
	}
	sort.Strings(names)
	return names
}

package backend

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

const wpaperdNotice = "# DO NOT EDIT! AUTOGENERATED CONFIG!"

// WpaperdSetter writes a wpaperd config with one section per monitor and
// restarts wpaperd when the config changed.
type WpaperdSetter struct {
	ConfigPath string
	Processes  Processes
	Logger     *log.Logger
}

type wpaperdOutput struct {
	Path string `toml:"path"`
}

// DefaultWpaperdConfig returns $XDG_CONFIG_HOME/wpaperd/config.toml,
// falling back to ~/.config.
func DefaultWpaperdConfig() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "locate config directory")
	}
	return filepath.Join(dir, "wpaperd", "config.toml"), nil
}

func (s *WpaperdSetter) Kind() Kind { return Wpaperd }

// Apply rewrites the config and force restarts wpaperd when the config was
// written for another key or a resplit was forced. Otherwise wpaperd is
// only started if it is not running.
func (s *WpaperdSetter) Apply(ctx context.Context, req Request) error {
	if !req.Force && s.current(req.Key) {
		s.Logger.Debug("wpaperd config up to date", "path", s.ConfigPath)
		return SoftRestart(ctx, s.Processes, string(Wpaperd))
	}

	if err := s.write(req); err != nil {
		return err
	}
	s.Logger.Debug("wrote wpaperd config", "path", s.ConfigPath)
	return ForceRestart(ctx, s.Processes, string(Wpaperd))
}

// current reports whether the config on disk was generated for key.
func (s *WpaperdSetter) current(key string) bool {
	f, err := os.Open(s.ConfigPath)
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	return sc.Scan() && strings.TrimSpace(sc.Text()) == "# "+key
}

func (s *WpaperdSetter) write(req Request) error {
	outputs := make(map[string]wpaperdOutput, len(req.Wallpapers))
	for name, path := range req.Wallpapers {
		outputs[name] = wpaperdOutput{Path: path}
	}

	var buf bytes.Buffer
	buf.WriteString("# " + req.Key + "\n")
	buf.WriteString(wpaperdNotice + "\n\n")
	if err := toml.NewEncoder(&buf).Encode(outputs); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode wpaperd config")
	}

	if err := os.MkdirAll(filepath.Dir(s.ConfigPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create wpaperd config directory")
	}
	if err := os.WriteFile(s.ConfigPath, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write wpaperd config")
	}
	return nil
}

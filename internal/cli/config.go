package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// configFileName is looked up in the user config directory.
const configFileName = "config.toml"

// defaultConfigPath returns $XDG_CONFIG_HOME/rwpspread/config.toml.
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// loadConfig reads a TOML file whose keys are long flag names.
func loadConfig(path string) (map[string]any, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	return raw, nil
}

// applyConfig sets every flag named in cfg that was not given on the
// command line. Arrays set a repeatable flag once per element.
func applyConfig(fs *pflag.FlagSet, cfg map[string]any) error {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		flag := fs.Lookup(key)
		if flag == nil || key == "config" {
			return errors.New(errors.ErrCodeInvalidInput, "config: unknown key %q", key)
		}
		if flag.Changed {
			continue
		}

		values, err := configValues(cfg[key])
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "config: key %q", key)
		}
		for _, v := range values {
			if err := fs.Set(key, v); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "config: key %q", key)
			}
		}
	}
	return nil
}

func configValues(v any) ([]string, error) {
	switch v := v.(type) {
	case string, bool, int64, float64:
		return []string{fmt.Sprint(v)}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			vals, err := configValues(e)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

// mergeConfig applies the config file to fs. An explicit path must exist;
// the default path is optional.
func mergeConfig(fs *pflag.FlagSet, explicit string, logger *log.Logger) error {
	path := explicit
	if path == "" {
		def, err := defaultConfigPath()
		if err != nil {
			return nil
		}
		if _, err := os.Stat(def); err != nil {
			return nil
		}
		path = def
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	logger.Debug("loaded config", "path", path, "keys", len(cfg))
	return applyConfig(fs, cfg)
}

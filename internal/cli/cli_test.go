package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/monitor"
	"github.com/matzehuels/rwpspread/pkg/partition"
)

func testFlags(t *testing.T, args ...string) (*pflag.FlagSet, *splitFlags) {
	t.Helper()
	var f splitFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return fs, &f
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSplitFlagsOptions(t *testing.T) {
	_, f := testFlags(t,
		"-i", "wall.png",
		"-a", "ct",
		"--bezel", "40",
		"-m", "DP-1:27 HDMI-A-1:24",
		"-m", "eDP-1:14",
		"--ppi", "-d", "-w", "-f",
	)
	opts, err := f.options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Input != "wall.png" || opts.Alignment != partition.AlignCenter || opts.Bezel != 40 {
		t.Errorf("options = %+v", opts)
	}
	if !opts.PPI || !opts.Daemon || !opts.Watch || !opts.Force {
		t.Errorf("bool flags not carried over: %+v", opts)
	}
	want := map[string]float64{"DP-1": 27, "HDMI-A-1": 24, "eDP-1": 14}
	if len(opts.Diagonals) != len(want) {
		t.Fatalf("Diagonals = %v, want %v", opts.Diagonals, want)
	}
	for k, v := range want {
		if opts.Diagonals[k] != v {
			t.Errorf("Diagonals[%s] = %v, want %v", k, opts.Diagonals[k], v)
		}
	}
}

func TestSplitFlagsBadMonitor(t *testing.T) {
	_, f := testFlags(t, "-i", "wall.png", "-m", "DP-1")
	if _, err := f.options(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("options() error = %v, want INVALID_INPUT", err)
	}
}

func TestApplyConfig(t *testing.T) {
	fs, f := testFlags(t, "--bezel", "5")
	cfg, err := loadConfig(writeConfig(t, `
image = "/walls/a.png"
bezel = 99
palette = true
monitors = ["DP-1:27", "HDMI-A-1:24"]
`))
	if err != nil {
		t.Fatal(err)
	}
	if err := applyConfig(fs, cfg); err != nil {
		t.Fatal(err)
	}

	if f.image != "/walls/a.png" {
		t.Errorf("image = %q", f.image)
	}
	if f.bezel != 5 {
		t.Errorf("bezel = %d, command line should win over config", f.bezel)
	}
	if !f.palette {
		t.Error("palette not set from config")
	}
	if len(f.monitors) != 2 || f.monitors[1] != "HDMI-A-1:24" {
		t.Errorf("monitors = %v", f.monitors)
	}
}

func TestApplyConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", `colour = "red"`},
		{"config key", `config = "/etc/other.toml"`},
		{"table value", "[image]\npath = \"a.png\""},
		{"wrong type", `bezel = "wide"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, _ := testFlags(t)
			cfg, err := loadConfig(writeConfig(t, tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if err := applyConfig(fs, cfg); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("applyConfig() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestMergeConfig(t *testing.T) {
	logger := log.New(&bytes.Buffer{})

	t.Run("missing default is fine", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		fs, _ := testFlags(t)
		if err := mergeConfig(fs, "", logger); err != nil {
			t.Errorf("mergeConfig() = %v", err)
		}
	})

	t.Run("default is read", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		if err := os.MkdirAll(filepath.Join(home, appName), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(home, appName, "config.toml"), []byte(`backend = "swaybg"`), 0o644); err != nil {
			t.Fatal(err)
		}
		fs, f := testFlags(t)
		if err := mergeConfig(fs, "", logger); err != nil {
			t.Fatal(err)
		}
		if f.backend != "swaybg" {
			t.Errorf("backend = %q", f.backend)
		}
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		fs, _ := testFlags(t)
		err := mergeConfig(fs, filepath.Join(t.TempDir(), "nope.toml"), logger)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("mergeConfig() = %v, want INVALID_INPUT", err)
		}
	})
}

func TestRootCommandErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	missing := filepath.Join(t.TempDir(), "nope.png")
	existing := filepath.Join(t.TempDir(), "wall.png")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code errors.Code
		msg  string
	}{
		{"no input", []string{}, errors.ErrCodeInvalidInput, "--image or --info"},
		{"missing image", []string{"-i", missing}, errors.ErrCodeInvalidPath, "invalid file or directory"},
		{"image from config", []string{"-c", writeConfig(t, "image = \""+missing+"\"")}, errors.ErrCodeInvalidPath, ""},
		{"info and image from config", []string{"--info", "-c", writeConfig(t, "image = \"a.png\"")}, errors.ErrCodeInvalidInput, "mutually exclusive"},
		{"malformed monitor", []string{"-i", existing, "-m", "DP-1"}, errors.ErrCodeInvalidInput, ""},
		{"watch without daemon", []string{"-i", existing, "-w"}, errors.ErrCodeInvalidInput, "daemon"},
		{"ppi without monitors", []string{"-i", existing, "--ppi"}, errors.ErrCodeInvalidInput, "monitor"},
		{"bad alignment", []string{"-i", existing, "-a", "middle"}, errors.ErrCodeInvalidInput, "alignment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&bytes.Buffer{}, LogInfo)
			root := c.RootCommand()
			root.SetArgs(tt.args)
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})

			err := root.ExecuteContext(context.Background())
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %q, want it to mention %q", err, tt.msg)
			}
		})
	}
}

func TestRootCommandFlagConflict(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"--info", "-i", "a.png"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("--info with --image should fail")
	}
}

func TestMonitorTable(t *testing.T) {
	out := monitorTable([]monitor.Monitor{
		monitor.New("HDMI-A-1", 2560, 0, 1920, 1080),
		monitor.New("DP-1", 0, 0, 2560, 1440),
	})
	for _, want := range []string{"Monitor", "Resolution", "DP-1", "2560x1440", "0:0", "HDMI-A-1", "1920x1080", "2560:0"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "DP-1") > strings.Index(out, "HDMI-A-1") {
		t.Error("monitors should be sorted by name")
	}
}

func TestStatsLine(t *testing.T) {
	fresh := statsLine(2, "3840x1080", false)
	for _, want := range []string{"2 monitors", "3840x1080", iconFresh} {
		if !strings.Contains(fresh, want) {
			t.Errorf("statsLine() = %q, missing %q", fresh, want)
		}
	}
	if cached := statsLine(2, "", true); !strings.Contains(cached, iconCached) {
		t.Errorf("statsLine() = %q, missing %q", cached, iconCached)
	}
}

func TestErrorLine(t *testing.T) {
	var buf bytes.Buffer
	got := errorLine(&buf, "INVALID_PATH: bad\n  path")
	if got != "rwpspread: INVALID_PATH: bad path" {
		t.Errorf("errorLine() = %q", got)
	}
}

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "__start_rwpspread"},
		{"zsh", "#compdef rwpspread"},
		{"fish", "complete -c rwpspread"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			var out bytes.Buffer
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			root.SetArgs([]string{"completion", tt.shell})
			root.SetOut(&out)
			root.SetErr(&bytes.Buffer{})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("completion %s: %v", tt.shell, err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("completion %s output lacks %q", tt.shell, tt.want)
			}
		})
	}

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"completion", "powershell"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("completion powershell should be rejected")
	}
}

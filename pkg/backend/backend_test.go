package backend

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// fakeProcesses records process control calls instead of running anything.
type fakeProcesses struct {
	mu        sync.Mutex
	installed map[string]bool
	running   map[string]bool
	calls     []string
	startErr  error
}

func newFakeProcesses(installed ...string) *fakeProcesses {
	p := &fakeProcesses{installed: map[string]bool{}, running: map[string]bool{}}
	for _, n := range installed {
		p.installed[n] = true
	}
	return p
}

func (p *fakeProcesses) Installed(program string) bool { return p.installed[program] }

func (p *fakeProcesses) Running(_ context.Context, program string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running[program], nil
}

func (p *fakeProcesses) Kill(_ context.Context, program string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "kill "+program)
	p.running[program] = false
	return nil
}

func (p *fakeProcesses) Start(program string, args ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.startErr != nil {
		return p.startErr
	}
	p.calls = append(p.calls, strings.TrimSpace("start "+program+" "+strings.Join(args, " ")))
	p.running[program] = true
	return nil
}

func testRequest() Request {
	return Request{
		Key: "abc",
		Wallpapers: map[string]string{
			"DP-2": "/w/rwps_DP-2_abc.png",
			"DP-1": "/w/rwps_DP-1_abc.png",
		},
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", "", false},
		{"wpaperd", Wpaperd, false},
		{"Hyprpaper", Hyprpaper, false},
		{"swaybg", Swaybg, false},
		{"feh", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseKind(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestNewNotInstalled(t *testing.T) {
	_, err := New(Swaybg, Options{Processes: newFakeProcesses()})
	if !errors.Is(err, errors.ErrCodeNotInstalled) {
		t.Fatalf("New() error = %v, want NOT_INSTALLED", err)
	}
	if got := errors.UserMessage(err); got != "swaybg is not installed" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestNew(t *testing.T) {
	procs := newFakeProcesses("wpaperd", "hyprpaper", "swaybg")
	for _, k := range Kinds {
		s, err := New(k, Options{
			Processes:       procs,
			WpaperdConfig:   filepath.Join(t.TempDir(), "config.toml"),
			HyprpaperSocket: "/nonexistent.sock",
		})
		if err != nil {
			t.Fatalf("New(%s) error: %v", k, err)
		}
		if s.Kind() != k {
			t.Errorf("Kind() = %s, want %s", s.Kind(), k)
		}
	}
}

func TestRestartHelpers(t *testing.T) {
	ctx := context.Background()
	p := newFakeProcesses()

	if err := SoftRestart(ctx, p, "swaybg", "-o", "A"); err != nil {
		t.Fatal(err)
	}
	if err := SoftRestart(ctx, p, "swaybg", "-o", "B"); err != nil {
		t.Fatal(err)
	}
	if err := ForceRestart(ctx, p, "swaybg", "-o", "C"); err != nil {
		t.Fatal(err)
	}

	want := []string{"start swaybg -o A", "kill swaybg", "start swaybg -o C"}
	if !slices.Equal(p.calls, want) {
		t.Errorf("calls = %v, want %v", p.calls, want)
	}
}

func TestSwaybg(t *testing.T) {
	tests := []struct {
		name        string
		running     bool
		regenerated bool
		want        []string
	}{
		{"not running", false, false, []string{"start swaybg -o DP-1 -i /w/rwps_DP-1_abc.png -o DP-2 -i /w/rwps_DP-2_abc.png"}},
		{"running, cached", true, false, nil},
		{"running, regenerated", true, true, []string{"kill swaybg", "start swaybg -o DP-1 -i /w/rwps_DP-1_abc.png -o DP-2 -i /w/rwps_DP-2_abc.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakeProcesses("swaybg")
			p.running["swaybg"] = tt.running
			s, err := New(Swaybg, Options{Processes: p})
			if err != nil {
				t.Fatal(err)
			}
			req := testRequest()
			req.Regenerated = tt.regenerated
			if err := s.Apply(context.Background(), req); err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if !slices.Equal(p.calls, tt.want) {
				t.Errorf("calls = %v, want %v", p.calls, tt.want)
			}
		})
	}
}

func TestWpaperd(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wpaperd", "config.toml")
	p := newFakeProcesses("wpaperd")
	s := mustSetter(t, Wpaperd, Options{Processes: p, WpaperdConfig: path})

	if err := s.Apply(ctx, testRequest()); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "# abc\n"+wpaperdNotice+"\n") {
		t.Errorf("config header = %q", text)
	}

	var parsed map[string]wpaperdOutput
	if _, err := toml.Decode(text, &parsed); err != nil {
		t.Fatalf("config is not valid TOML: %v", err)
	}
	if parsed["DP-1"].Path != "/w/rwps_DP-1_abc.png" || len(parsed) != 2 {
		t.Errorf("parsed config = %+v", parsed)
	}
	if want := []string{"start wpaperd"}; !slices.Equal(p.calls, want) {
		t.Errorf("calls = %v, want %v", p.calls, want)
	}

	// Same key: no rewrite, wpaperd already running.
	p.calls = nil
	if err := s.Apply(ctx, testRequest()); err != nil {
		t.Fatal(err)
	}
	if len(p.calls) != 0 {
		t.Errorf("calls for unchanged config = %v", p.calls)
	}

	// Forced: rewrite and restart.
	req := testRequest()
	req.Force = true
	if err := s.Apply(ctx, req); err != nil {
		t.Fatal(err)
	}
	if want := []string{"kill wpaperd", "start wpaperd"}; !slices.Equal(p.calls, want) {
		t.Errorf("calls for forced apply = %v, want %v", p.calls, want)
	}
}

func mustSetter(t *testing.T, k Kind, opts Options) Setter {
	t.Helper()
	s, err := New(k, opts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// hyprpaperServer answers every command on its socket with reply(cmd).
type hyprpaperServer struct {
	mu       sync.Mutex
	commands []string
}

func startHyprpaper(t *testing.T, reply func(string) string) (*hyprpaperServer, string) {
	t.Helper()
	dir, err := os.MkdirTemp("", "hp")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	sock := filepath.Join(dir, ".hyprpaper.sock")

	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	srv := &hyprpaperServer{}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 1024)
				n, err := c.Read(buf)
				if err != nil || n == 0 {
					return
				}
				cmd := string(buf[:n])
				srv.mu.Lock()
				srv.commands = append(srv.commands, cmd)
				srv.mu.Unlock()
				_, _ = c.Write([]byte(reply(cmd)))
			}(conn)
		}
	}()
	return srv, sock
}

func TestHyprpaper(t *testing.T) {
	srv, sock := startHyprpaper(t, func(string) string { return "ok" })
	p := newFakeProcesses("hyprpaper")
	p.running["hyprpaper"] = true

	s := mustSetter(t, Hyprpaper, Options{Processes: p, HyprpaperSocket: sock})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Apply(ctx, testRequest()); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	want := []string{
		"unload all",
		"preload /w/rwps_DP-1_abc.png",
		"wallpaper DP-1,/w/rwps_DP-1_abc.png",
		"preload /w/rwps_DP-2_abc.png",
		"wallpaper DP-2,/w/rwps_DP-2_abc.png",
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if !slices.Equal(srv.commands, want) {
		t.Errorf("commands = %v, want %v", srv.commands, want)
	}
	if len(p.calls) != 0 {
		t.Errorf("running hyprpaper was restarted: %v", p.calls)
	}
}

func TestHyprpaperRejected(t *testing.T) {
	_, sock := startHyprpaper(t, func(cmd string) string {
		if strings.HasPrefix(cmd, "wallpaper") {
			return "wallpaper failed (not preloaded)"
		}
		return "ok"
	})
	p := newFakeProcesses("hyprpaper")
	s := mustSetter(t, Hyprpaper, Options{Processes: p, HyprpaperSocket: sock})

	err := s.Apply(context.Background(), testRequest())
	if !errors.Is(err, errors.ErrCodeBackend) {
		t.Fatalf("Apply() error = %v, want BACKEND_ERROR", err)
	}
	if want := []string{"start hyprpaper"}; !slices.Equal(p.calls, want) {
		t.Errorf("calls = %v, want %v", p.calls, want)
	}
}

func TestHyprpaperUnreachable(t *testing.T) {
	s := &HyprpaperSetter{
		Socket:    filepath.Join(t.TempDir(), "missing.sock"),
		Processes: newFakeProcesses("hyprpaper"),
		backoff:   &backoff{Attempts: 2, Delay: time.Millisecond, MaxDelay: time.Millisecond},
	}
	err := s.waitReady(context.Background())
	if !errors.Is(err, errors.ErrCodeBackend) {
		t.Errorf("waitReady() error = %v, want BACKEND_ERROR", err)
	}
}

func TestDefaultHyprpaperSocket(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "sig")
	if got := DefaultHyprpaperSocket(); got != "/run/user/1000/hypr/sig/.hyprpaper.sock" {
		t.Errorf("DefaultHyprpaperSocket() = %q", got)
	}
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")
	if got := DefaultHyprpaperSocket(); got != "/run/user/1000/hypr/.hyprpaper.sock" {
		t.Errorf("DefaultHyprpaperSocket() without signature = %q", got)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	b := backoff{Attempts: 3, Delay: time.Millisecond, MaxDelay: time.Millisecond}

	calls := 0
	err := retryWithBackoff(context.Background(), b, func() error {
		calls++
		if calls < 3 {
			return retryable(fmt.Errorf("not yet"))
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = retryWithBackoff(context.Background(), b, func() error {
		calls++
		return fmt.Errorf("fatal")
	})
	if err == nil || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}
}

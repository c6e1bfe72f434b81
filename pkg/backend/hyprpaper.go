package backend

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// HyprpaperSetter drives hyprpaper over its IPC socket.
type HyprpaperSetter struct {
	Socket    string
	Processes Processes
	Logger    *log.Logger

	backoff *backoff
}

// DefaultHyprpaperSocket returns the socket path of the running Hyprland
// instance, or the instance-less path when no signature is set.
func DefaultHyprpaperSocket() string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = filepath.Join("/run/user", os.Getenv("UID"))
	}
	if sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE"); sig != "" {
		return filepath.Join(base, "hypr", sig, ".hyprpaper.sock")
	}
	return filepath.Join(base, "hypr", ".hyprpaper.sock")
}

func (s *HyprpaperSetter) Kind() Kind { return Hyprpaper }

// Apply starts hyprpaper if needed, unloads every wallpaper and then
// preloads and assigns one wallpaper per monitor. Every command must be
// acknowledged with "ok".
func (s *HyprpaperSetter) Apply(ctx context.Context, req Request) error {
	if err := SoftRestart(ctx, s.Processes, string(Hyprpaper)); err != nil {
		return err
	}

	if err := s.waitReady(ctx); err != nil {
		return err
	}
	if err := s.Send(ctx, "unload all"); err != nil {
		return err
	}
	for _, name := range req.Monitors() {
		path := req.Wallpapers[name]
		if err := s.Send(ctx, "preload "+path); err != nil {
			return err
		}
		if err := s.Send(ctx, "wallpaper "+name+","+path); err != nil {
			return err
		}
	}
	s.Logger.Debug("hyprpaper updated", "monitors", len(req.Wallpapers))
	return nil
}

// waitReady blocks until the socket accepts connections or the retry
// budget is spent.
func (s *HyprpaperSetter) waitReady(ctx context.Context) error {
	b := connectBackoff
	if s.backoff != nil {
		b = *s.backoff
	}
	err := retryWithBackoff(ctx, b, func() error {
		conn, err := s.dial(ctx)
		if err != nil {
			return retryable(err)
		}
		return conn.Close()
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "hyprpaper: cannot connect to %s", s.Socket)
	}
	return nil
}

func (s *HyprpaperSetter) dial(ctx context.Context) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", s.Socket)
}

// Send issues one command on a fresh connection and checks the reply.
func (s *HyprpaperSetter) Send(ctx context.Context, cmd string) error {
	conn, err := s.dial(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "hyprpaper: connect")
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if _, err := conn.Write([]byte(cmd)); err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "hyprpaper: send %q", cmd)
	}

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "hyprpaper: read reply to %q", cmd)
	}
	if reply := strings.TrimSpace(string(buf[:n])); reply != "ok" {
		return errors.New(errors.ErrCodeBackend, "hyprpaper: %q failed: %s", cmd, reply)
	}
	return nil
}

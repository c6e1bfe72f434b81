package outputs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	hyprland "github.com/thiagokokada/hyprland-go"
	"github.com/thiagokokada/hyprland-go/event"
	"github.com/thiagokokada/hyprland-go/helpers"

	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/monitor"
)

// Hyprland talks to Hyprland's request and event sockets.
type Hyprland struct {
	dir string
}

// NewHyprland uses the sockets in dir.
func NewHyprland(dir string) *Hyprland {
	return &Hyprland{dir: dir}
}

// HyprlandSocketDir returns the socket directory of the instance sig.
func HyprlandSocketDir(sig string) string {
	if rt := os.Getenv("XDG_RUNTIME_DIR"); rt != "" {
		dir := filepath.Join(rt, "hypr", sig)
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	return filepath.Join("/tmp", "hypr", sig)
}

func (h *Hyprland) Name() string { return "hyprland" }

func (h *Hyprland) socket(s helpers.Socket) string {
	return filepath.Join(h.dir, string(s))
}

// hyprMonitor keeps the disabled flag, which the client's Monitor type
// does not carry.
type hyprMonitor struct {
	Name      string  `json:"name"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Scale     float64 `json:"scale"`
	Transform int     `json:"transform"`
	Disabled  bool    `json:"disabled"`
}

// Monitors runs "j/monitors" on the request socket.
func (h *Hyprland) Monitors(ctx context.Context) ([]monitor.Monitor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := hyprland.NewClient(h.socket(helpers.RequestSocket))
	data, err := client.RawRequest(hyprland.RawRequest("j/monitors"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "hyprland: request monitors")
	}
	return parseHyprland(data)
}

func parseHyprland(data []byte) ([]monitor.Monitor, error) {
	var raw []hyprMonitor
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "hyprland: decode monitors")
	}
	out := make([]monitor.Monitor, 0, len(raw))
	for _, m := range raw {
		if m.Disabled {
			continue
		}
		w, hgt := logical(m.Width, m.Height, m.Scale, m.Transform%2 == 1)
		out = append(out, monitor.New(m.Name, m.X, m.Y, w, hgt))
	}
	return out, nil
}

var hyprTopologyEvents = map[event.EventType]bool{
	event.EventMonitorAdded:   true,
	"monitoraddedv2":          true,
	event.EventMonitorRemoved: true,
	"monitorremovedv2":        true,
}

// Refresh blocks on the event socket until a monitor is added or removed.
func (h *Hyprland) Refresh(ctx context.Context) (bool, error) {
	client, err := event.NewClient(h.socket(helpers.EventSocket))
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeBackend, err, "hyprland: connect events")
	}
	defer client.Close()

	for {
		batch, err := client.Receive(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, ctxErr
			}
			return false, errors.Wrap(errors.ErrCodeBackend, err, "hyprland: read events")
		}
		for _, ev := range batch {
			if hyprTopologyEvents[ev.Type] {
				return true, nil
			}
		}
	}
}

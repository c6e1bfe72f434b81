package outputs

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/monitor"
)

// DefaultPollInterval is how often wlr-randr is re-run while waiting for a
// topology change.
const DefaultPollInterval = 2 * time.Second

// WlrRandr reads outputs from `wlr-randr --json`. It has no event stream,
// so Refresh compares snapshots on an interval.
type WlrRandr struct {
	Interval time.Duration
	Logger   *log.Logger

	run func(ctx context.Context) ([]byte, error)
}

// NewWlrRandr returns a provider that runs the wlr-randr binary.
func NewWlrRandr(logger *log.Logger) *WlrRandr {
	return &WlrRandr{
		Interval: DefaultPollInterval,
		Logger:   logger,
		run: func(ctx context.Context) ([]byte, error) {
			return exec.CommandContext(ctx, "wlr-randr", "--json").Output()
		},
	}
}

func (w *WlrRandr) Name() string { return "wlr-randr" }

type wlrOutput struct {
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Position struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"position"`
	Modes []struct {
		Width   int  `json:"width"`
		Height  int  `json:"height"`
		Current bool `json:"current"`
	} `json:"modes"`
	Transform string  `json:"transform"`
	Scale     float64 `json:"scale"`
}

func (w *WlrRandr) Monitors(ctx context.Context) ([]monitor.Monitor, error) {
	data, err := w.run(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "wlr-randr")
	}
	return parseWlrRandr(data)
}

func parseWlrRandr(data []byte) ([]monitor.Monitor, error) {
	var raw []wlrOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "wlr-randr: decode outputs")
	}

	out := make([]monitor.Monitor, 0, len(raw))
	for _, o := range raw {
		if !o.Enabled {
			continue
		}
		for _, m := range o.Modes {
			if !m.Current {
				continue
			}
			rotated := strings.HasSuffix(o.Transform, "90") || strings.HasSuffix(o.Transform, "270")
			width, height := logical(m.Width, m.Height, o.Scale, rotated)
			out = append(out, monitor.New(o.Name, o.Position.X, o.Position.Y, width, height))
			break
		}
	}
	return out, nil
}

// Refresh takes a snapshot and polls until the output list differs from it.
func (w *WlrRandr) Refresh(ctx context.Context) (bool, error) {
	baseline, err := w.Monitors(ctx)
	if err != nil {
		return false, err
	}

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-tick.C:
			current, err := w.Monitors(ctx)
			if err != nil {
				return false, err
			}
			if !equal(baseline, current) {
				if w.Logger != nil {
					w.Logger.Debug("output topology changed", "monitors", len(current))
				}
				return true, nil
			}
		}
	}
}

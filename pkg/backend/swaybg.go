package backend

import (
	"context"

	"github.com/charmbracelet/log"
)

// SwaybgSetter runs swaybg with one -o/-i pair per monitor.
type SwaybgSetter struct {
	Processes Processes
	Logger    *log.Logger
}

func (s *SwaybgSetter) Kind() Kind { return Swaybg }

// Args builds the swaybg argument list in monitor name order.
func (s *SwaybgSetter) Args(req Request) []string {
	args := make([]string, 0, 4*len(req.Wallpapers))
	for _, name := range req.Monitors() {
		args = append(args, "-o", name, "-i", req.Wallpapers[name])
	}
	return args
}

// Apply replaces the running swaybg after a regeneration and otherwise only
// makes sure one is running.
func (s *SwaybgSetter) Apply(ctx context.Context, req Request) error {
	args := s.Args(req)
	if req.Regenerated || req.Force {
		s.Logger.Debug("restarting swaybg", "monitors", len(req.Wallpapers))
		return ForceRestart(ctx, s.Processes, string(Swaybg), args...)
	}
	return SoftRestart(ctx, s.Processes, string(Swaybg), args...)
}

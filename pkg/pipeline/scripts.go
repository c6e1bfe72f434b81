package pipeline

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// RunScript executes path and waits for it. An empty path is a no-op. The
// script's combined output is attached to the error when it fails.
func RunScript(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	out, err := exec.CommandContext(ctx, path).CombinedOutput()
	if err != nil {
		if msg := bytes.TrimSpace(out); len(msg) > 0 {
			return errors.Wrap(errors.ErrCodeIO, err, "%s failed: %s", path, msg)
		}
		return errors.Wrap(errors.ErrCodeIO, err, "%s failed", path)
	}
	return nil
}

package backend

import (
	"context"
	"os/exec"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// Processes starts and stops daemon processes by program name.
type Processes interface {
	// Installed reports whether program is on PATH.
	Installed(program string) bool

	// Running reports whether any process named program exists.
	Running(ctx context.Context, program string) (bool, error)

	// Kill terminates every process named program.
	Kill(ctx context.Context, program string) error

	// Start launches program detached from the caller.
	Start(program string, args ...string) error
}

// HostProcesses controls processes on the local machine through pidof,
// killall and exec.
type HostProcesses struct{}

func (HostProcesses) Installed(program string) bool {
	_, err := exec.LookPath(program)
	return err == nil
}

func (HostProcesses) Running(ctx context.Context, program string) (bool, error) {
	err := exec.CommandContext(ctx, "pidof", program).Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, errors.Wrap(errors.ErrCodeBackend, err, "pidof %s", program)
}

func (HostProcesses) Kill(ctx context.Context, program string) error {
	if err := exec.CommandContext(ctx, "killall", "-9", program).Run(); err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "killall %s", program)
	}
	return nil
}

func (HostProcesses) Start(program string, args ...string) error {
	cmd := exec.Command(program, args...)
	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "start %s", program)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// ForceRestart kills any running instance of program and starts a new one.
func ForceRestart(ctx context.Context, p Processes, program string, args ...string) error {
	running, err := p.Running(ctx, program)
	if err != nil {
		return err
	}
	if running {
		if err := p.Kill(ctx, program); err != nil {
			return err
		}
	}
	return p.Start(program, args...)
}

// SoftRestart starts program only if it is not running yet.
func SoftRestart(ctx context.Context, p Processes, program string, args ...string) error {
	running, err := p.Running(ctx, program)
	if err != nil || running {
		return err
	}
	return p.Start(program, args...)
}

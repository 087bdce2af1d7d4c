package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/defs"
)

// Process is a started framework CLI.
type Process interface {
	// Wait blocks until the process exits and all output was delivered.
	Wait() error
	// Stop interrupts the process and waits for it to exit.
	Stop() error
}

// Launcher starts framework CLIs. Executors receive it from the plugin so
// tests can substitute a fake.
type Launcher interface {
	Launch(ctx context.Context, dir string, cmd *bridge.Command, out io.Writer) (Process, error)
}

// ExecLauncher runs tools from the workspace's node_modules/.bin, then
// PATH, falling back to npx.
type ExecLauncher struct {
	Root string
	// GracePeriod is how long Stop waits after an interrupt before killing.
	GracePeriod time.Duration
}

// Resolve returns the argv used to run cmd.
func (l ExecLauncher) Resolve(cmd *bridge.Command) ([]string, error) {
	bin := filepath.Join(l.Root, defs.NodeModulesDir, ".bin", cmd.Name)
	if runtime.GOOS == "windows" {
		bin += ".cmd"
	}
	if _, err := os.Stat(bin); err == nil {
		return append([]string{bin}, cmd.Args...), nil
	}
	if p, err := exec.LookPath(cmd.Name); err == nil {
		return append([]string{p}, cmd.Args...), nil
	}
	if npx, err := exec.LookPath("npx"); err == nil {
		return append([]string{npx, "--no-install", cmd.Name}, cmd.Args...), nil
	}
	return nil, fmt.Errorf("%w: %s (not in %s and npx unavailable)", ErrToolNotFound, cmd.Name, filepath.Dir(bin))
}

// Launch implements Launcher.
func (l ExecLauncher) Launch(ctx context.Context, dir string, cmd *bridge.Command, out io.Writer) (Process, error) {
	argv, err := l.Resolve(cmd)
	if err != nil {
		return nil, err
	}
	grace := l.GracePeriod
	if grace <= 0 {
		grace = 5 * time.Second
	}

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Dir = dir
	c.Env = append(os.Environ(), cmd.Environ()...)
	c.Stdout = out
	c.Stderr = out
	c.Cancel = func() error { return interrupt(c.Process) }
	c.WaitDelay = grace
	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cmd.Name, err)
	}

	p := &execProcess{cmd: c, done: make(chan struct{}), grace: grace}
	go func() {
		p.err = c.Wait()
		close(p.done)
	}()
	return p, nil
}

type execProcess struct {
	cmd   *exec.Cmd
	done  chan struct{}
	err   error
	grace time.Duration
}

func (p *execProcess) Wait() error {
	<-p.done
	return p.err
}

func (p *execProcess) Stop() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	if err := interrupt(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("interrupt: %w", err)
	}
	select {
	case <-p.done:
	case <-time.After(p.grace):
		_ = p.cmd.Process.Kill()
		<-p.done
	}
	return nil
}

func interrupt(proc *os.Process) error {
	if runtime.GOOS == "windows" {
		return proc.Kill()
	}
	return proc.Signal(os.Interrupt)
}

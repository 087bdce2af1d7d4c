// Package executortest provides a fake Launcher for testing executors that
// drive framework CLIs.
package executortest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor"
)

// Call is one recorded launch.
type Call struct {
	Dir  string
	Argv []string
	Env  []string
}

// Launcher records every launch and plays back canned output. The zero
// value launches processes that exit successfully without output.
type Launcher struct {
	// Output is written line by line when the process runs.
	Output []string
	// ExitErr is returned by Wait.
	ExitErr error
	// KeepOpen makes the process run until it is stopped.
	KeepOpen bool
	// Err fails the launch itself.
	Err error

	mu    sync.Mutex
	calls []Call
}

// Launch implements executor.Launcher.
func (l *Launcher) Launch(ctx context.Context, dir string, cmd *bridge.Command, out io.Writer) (executor.Process, error) {
	l.mu.Lock()
	l.calls = append(l.calls, Call{Dir: dir, Argv: cmd.Argv(), Env: cmd.Environ()})
	l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	return &process{
		ctx:      ctx,
		out:      out,
		lines:    l.Output,
		exitErr:  l.ExitErr,
		keepOpen: l.KeepOpen,
		stop:     make(chan struct{}),
	}, nil
}

// Calls returns the recorded launches.
func (l *Launcher) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Call(nil), l.calls...)
}

// Last returns the most recent launch. It panics when nothing was launched.
func (l *Launcher) Last() Call {
	calls := l.Calls()
	return calls[len(calls)-1]
}

type process struct {
	ctx      context.Context
	out      io.Writer
	lines    []string
	exitErr  error
	keepOpen bool

	stop     chan struct{}
	stopOnce sync.Once
}

func (p *process) Wait() error {
	for _, line := range p.lines {
		fmt.Fprintln(p.out, line)
	}
	if p.keepOpen {
		select {
		case <-p.stop:
		case <-p.ctx.Done():
		}
		return nil
	}
	return p.exitErr
}

func (p *process) Stop() error {
	p.stopOnce.Do(func() { close(p.stop) })
	return nil
}

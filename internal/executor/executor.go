package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

// Options is the merged option record a target runs with.
type Options = models.Options

// Context is supplied by the host and read-only for executors.
type Context struct {
	Root              string
	Workspace         *workspace.Workspace
	ProjectName       string
	TargetName        string
	ConfigurationName string
	Logger            *slog.Logger
	Stdout            io.Writer

	// StartTarget starts another target through the host, e.g. the dev
	// server an e2e run needs. Nil when the executor runs outside a host.
	StartTarget func(ctx context.Context, target workspace.Target, overrides Options) (Handle, error)
}

// Project returns the configuration of the project being run.
func (c *Context) Project() (models.ProjectConfiguration, error) {
	return c.Workspace.Project(c.ProjectName)
}

// ProjectRoot returns the absolute root directory of the project being run.
func (c *Context) ProjectRoot() (string, error) {
	p, err := c.Project()
	if err != nil {
		return "", err
	}
	return filepath.Join(c.Root, filepath.FromSlash(p.Root)), nil
}

// Abs resolves a workspace-relative path against the workspace root.
func (c *Context) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}

// Log returns the context logger, or a discarding logger when unset.
func (c *Context) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// Out returns the stream executors print to.
func (c *Context) Out() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// Formatter returns an OutputFormatter writing to Out.
func (c *Context) Formatter() *OutputFormatter {
	return NewOutputFormatter(c.Out(), c.Root)
}

// Result is one outcome reported by an executor.
type Result struct {
	Success    bool
	BaseURL    string
	OutputPath string
	Error      error
}

// Executor runs one kind of target.
//
// Run returns an error for setup failures detected before anything was
// started (invalid options, conflicting native config). Failures of the
// framework itself are reported as a Result with Success false.
type Executor interface {
	Run(ctx context.Context, opts Options, ectx *Context) (Handle, error)
}

// Func adapts a function to the Executor interface.
type Func func(ctx context.Context, opts Options, ectx *Context) (Handle, error)

// Run implements Executor.
func (f Func) Run(ctx context.Context, opts Options, ectx *Context) (Handle, error) {
	return f(ctx, opts, ectx)
}

// Handle is the lifetime of one executor run. One-shot executors send a
// single result and complete. Server executors send a result once they
// are listening and stay alive until Stop is called or the run context is
// cancelled.
type Handle interface {
	// Results yields results; it is closed when the run completes.
	Results() <-chan Result
	// Stop asks the run to shut down. It is safe to call more than once.
	Stop() error
	// Done is closed when the run has fully completed.
	Done() <-chan struct{}
}

// Lifetime is the Handle implementation executors build on. The executor
// goroutine calls Emit and Finish; any goroutine may call Stop.
type Lifetime struct {
	results chan Result
	done    chan struct{}
	cancel  context.CancelFunc
	stopFn  func() error

	stopOnce   sync.Once
	finishOnce sync.Once
	stopErr    error
}

// NewLifetime creates a Lifetime and a context that is cancelled by Stop.
// stop, if non-nil, is called once when Stop is first called, before the
// context is cancelled.
func NewLifetime(ctx context.Context, stop func() error) (*Lifetime, context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	return &Lifetime{
		results: make(chan Result, 16),
		done:    make(chan struct{}),
		cancel:  cancel,
		stopFn:  stop,
	}, runCtx
}

// Completed returns a finished Handle carrying a single result.
func Completed(r Result) Handle {
	l, _ := NewLifetime(context.Background(), nil)
	l.Emit(r)
	l.Finish()
	return l
}

// Results implements Handle.
func (l *Lifetime) Results() <-chan Result { return l.results }

// Done implements Handle.
func (l *Lifetime) Done() <-chan struct{} { return l.done }

// Stop implements Handle.
func (l *Lifetime) Stop() error {
	l.stopOnce.Do(func() {
		if l.stopFn != nil {
			l.stopErr = l.stopFn()
		}
		l.cancel()
	})
	return l.stopErr
}

// Emit sends a result. It returns false if the run has already finished.
func (l *Lifetime) Emit(r Result) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.results <- r:
		return true
	case <-l.done:
		return false
	}
}

// Finish closes the result stream and marks the run complete.
func (l *Lifetime) Finish() {
	l.finishOnce.Do(func() {
		close(l.done)
		close(l.results)
		l.cancel()
	})
}

// RejectNativeConfig fails with ErrUnsupportedConfig when any of the named
// files exists in dir.
func RejectNativeConfig(dir string, names ...string) error {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return fmt.Errorf("%w: %s found in %s; move its settings into the target options", ErrUnsupportedConfig, name, dir)
		}
	}
	return nil
}

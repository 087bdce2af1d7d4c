package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/nxplus/nxplus/internal/defs"
	"github.com/nxplus/nxplus/internal/resilience"
	"github.com/nxplus/nxplus/internal/workspace"
)

// PackageManager names a supported npm client.
type PackageManager string

const (
	NPM  PackageManager = "npm"
	Yarn PackageManager = "yarn"
	PNPM PackageManager = "pnpm"
)

// ParsePackageManager validates a package manager name.
func ParsePackageManager(s string) (PackageManager, error) {
	switch pm := PackageManager(s); pm {
	case NPM, Yarn, PNPM:
		return pm, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPackageManager, s)
}

// InstallCommand returns the argv that installs the manifest's dependencies.
func (pm PackageManager) InstallCommand() []string {
	return []string{string(pm), "install"}
}

// DetectPackageManager picks the package manager from the lock file in the
// workspace root, defaulting to npm.
func DetectPackageManager(tree *workspace.Tree) PackageManager {
	switch {
	case tree.Exists(defs.PnpmLock):
		return PNPM
	case tree.Exists(defs.YarnLock):
		return Yarn
	default:
		return NPM
	}
}

// Task is a deferred install returned by a generator. The host runs it
// after the generator's files have been committed.
type Task struct {
	Root           string
	PackageManager PackageManager
	// Changed is false when the generator added no dependency.
	Changed bool
}

func (t Task) key() string {
	return t.Root + "\x00" + strings.Join(t.PackageManager.InstallCommand(), " ")
}

// Runner executes a command in a directory.
type Runner interface {
	Run(ctx context.Context, dir string, argv []string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner. A missing executable is reported as a permanent
// error so the caller does not retry it.
func (r ExecRunner) Run(ctx context.Context, dir string, argv []string) error {
	if len(argv) == 0 {
		return resilience.Permanent(errors.New("empty command"))
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Env = os.Environ()
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return resilience.Permanent(fmt.Errorf("%s: %w", argv[0], err))
		}
		return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return nil
}

// Queue collects install tasks and runs them one at a time in the order
// they were added, so each install sees the manifest written before it.
// Identical installs are run once.
type Queue struct {
	runner   Runner
	policy   resilience.RetryPolicy
	override PackageManager
	logger   *slog.Logger
	tasks    []Task
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithPackageManager forces a package manager regardless of lock files.
func WithPackageManager(pm PackageManager) QueueOption {
	return func(q *Queue) { q.override = pm }
}

// WithRetryPolicy replaces the default install retry policy.
func WithRetryPolicy(p resilience.RetryPolicy) QueueOption {
	return func(q *Queue) { q.policy = p }
}

// NewQueue creates an empty Queue.
func NewQueue(runner Runner, logger *slog.Logger, opts ...QueueOption) *Queue {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	q := &Queue{runner: runner, policy: resilience.InstallPolicy(), logger: logger}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Add appends a task.
func (q *Queue) Add(t Task) {
	if q.override != "" {
		t.PackageManager = q.override
	}
	q.tasks = append(q.tasks, t)
}

// Pending returns the tasks that Run would execute.
func (q *Queue) Pending() []Task {
	var out []Task
	seen := make(map[string]bool)
	for _, t := range q.tasks {
		if !t.Changed || seen[t.key()] {
			continue
		}
		seen[t.key()] = true
		out = append(out, t)
	}
	return out
}

// Run executes the pending tasks serially and clears the queue. It stops
// at the first task that still fails after retries.
func (q *Queue) Run(ctx context.Context) error {
	pending := q.Pending()
	q.tasks = nil

	for _, t := range pending {
		argv := t.PackageManager.InstallCommand()
		q.logger.Info("installing packages", "dir", t.Root, "command", strings.Join(argv, " "))
		err := resilience.Retry(ctx, q.policy, func(attempt int) error {
			if attempt > 0 {
				q.logger.Warn("retrying install", "attempt", attempt+1, "command", strings.Join(argv, " "))
			}
			return q.runner.Run(ctx, t.Root, argv)
		})
		if err != nil {
			return fmt.Errorf("install in %s: %w", t.Root, err)
		}
	}
	return nil
}

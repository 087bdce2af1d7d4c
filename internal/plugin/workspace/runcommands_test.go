package workspace

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor"
	ws "github.com/nxplus/nxplus/internal/workspace"
)

type doneProcess struct{ err error }

func (p doneProcess) Wait() error { return p.err }
func (p doneProcess) Stop() error { return nil }

type recordingLauncher struct {
	mu    sync.Mutex
	calls []*bridge.Command
	dirs  []string
	fail  string
}

func (l *recordingLauncher) Launch(_ context.Context, dir string, cmd *bridge.Command, _ io.Writer) (executor.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, cmd)
	l.dirs = append(l.dirs, dir)
	if cmd.Name == l.fail {
		return doneProcess{err: errors.New("exit status 1")}, nil
	}
	return doneProcess{}, nil
}

func (l *recordingLauncher) argvs() [][]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([][]string, len(l.calls))
	for i, c := range l.calls {
		out[i] = c.Argv()
	}
	return out
}

func run(t *testing.T, l executor.Launcher, opts executor.Options, ectx *executor.Context) []executor.Result {
	t.Helper()
	rc := &runCommands{launcher: l}
	h, err := rc.Run(context.Background(), opts, ectx)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var out []executor.Result
	for r := range h.Results() {
		out = append(out, r)
	}
	return out
}

func testContext() *executor.Context {
	return &executor.Context{Root: "/ws", Workspace: &ws.Workspace{}, ProjectName: "app", Stdout: io.Discard}
}

func TestRunCommandsInOrder(t *testing.T) {
	l := &recordingLauncher{}
	results := run(t, l, executor.Options{
		"command":  "eslint 'apps/app/**/*.{ts,vue}'",
		"commands": []any{"NODE_ENV=test jest --config apps/app/jest.config.js"},
		"args":     "--ci",
		"cwd":      "apps/app",
	}, testContext())

	if len(results) != 1 || !results[0].Success {
		t.Fatalf("results = %+v", results)
	}
	want := [][]string{
		{"eslint", "apps/app/**/*.{ts,vue}", "--ci"},
		{"jest", "--config", "apps/app/jest.config.js", "--ci"},
	}
	if diff := cmp.Diff(want, l.argvs()); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
	if got := l.calls[1].Env["NODE_ENV"]; got != "test" {
		t.Errorf("NODE_ENV = %q, want test", got)
	}
	if _, ok := l.calls[0].Env["NODE_ENV"]; ok {
		t.Error("inline env leaked into another command")
	}
	if l.dirs[0] != "/ws/apps/app" {
		t.Errorf("dir = %q", l.dirs[0])
	}
}

func TestRunCommandsStopsAtFirstFailure(t *testing.T) {
	l := &recordingLauncher{fail: "tsc"}
	results := run(t, l, executor.Options{"commands": []any{"tsc -p apps/app", "jest"}}, testContext())

	if len(results) != 1 || results[0].Success {
		t.Fatalf("results = %+v", results)
	}
	if len(l.calls) != 1 {
		t.Errorf("ran %d commands after failure, want 1", len(l.calls))
	}
}

func TestRunCommandsErrors(t *testing.T) {
	rc := &runCommands{launcher: &recordingLauncher{}}
	tests := []struct {
		name string
		opts executor.Options
		want error
	}{
		{"no commands", executor.Options{}, ErrNoCommands},
		{"blank command", executor.Options{"command": "   "}, ErrNoCommands},
		{"dev server outside host", executor.Options{"command": "cypress run", "devServerTarget": "app:serve"}, ErrDevServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rc.Run(context.Background(), tt.opts, testContext())
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := rc.Run(context.Background(), executor.Options{"command": "echo 'unterminated"}, testContext()); err == nil {
		t.Error("expected parse error for unterminated quote")
	}
}

func TestRunCommandsDevServer(t *testing.T) {
	server, _ := executor.NewLifetime(context.Background(), nil)
	server.Emit(executor.Result{Success: true, BaseURL: "http://localhost:4200/"})
	stopped := make(chan struct{})
	go func() {
		<-server.Done()
		close(stopped)
	}()

	var started ws.Target
	ectx := testContext()
	ectx.StartTarget = func(_ context.Context, target ws.Target, _ executor.Options) (executor.Handle, error) {
		started = target
		return stoppingHandle{server}, nil
	}

	l := &recordingLauncher{}
	results := run(t, l, executor.Options{
		"commands":        []any{"cypress run --config-file apps/app-e2e/cypress.json"},
		"devServerTarget": "app:serve:production",
	}, ectx)

	if len(results) != 1 || !results[0].Success {
		t.Fatalf("results = %+v", results)
	}
	if started.String() != "app:serve:production" {
		t.Errorf("started %q", started)
	}
	if got := l.calls[0].Env[defaultBaseURLEnv]; got != "http://localhost:4200/" {
		t.Errorf("%s = %q", defaultBaseURLEnv, got)
	}
	<-stopped
}

// stoppingHandle finishes the lifetime when stopped, like a server
// executor whose process exits on interrupt.
type stoppingHandle struct{ *executor.Lifetime }

func (h stoppingHandle) Stop() error {
	err := h.Lifetime.Stop()
	h.Lifetime.Finish()
	return err
}

package executor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/nxplus/nxplus/internal/bridge"
)

// ansiPattern matches terminal color sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// serverURLPattern matches the address a dev server prints once listening.
var serverURLPattern = regexp.MustCompile(`https?://[A-Za-z0-9.\-\[\]:]+:\d+[^\s'"]*`)

// DetectServerURL returns the first dev-server URL in line, with wildcard
// hosts rewritten to localhost.
func DetectServerURL(line string) (string, bool) {
	m := serverURLPattern.FindString(ansiPattern.ReplaceAllString(line, ""))
	if m == "" {
		return "", false
	}
	for _, wild := range []string{"://0.0.0.0:", "://[::]:"} {
		m = strings.Replace(m, wild, "://localhost:", 1)
	}
	return m, true
}

// RunTool runs a framework command to completion and reports one result.
// Launch failures are returned; a non-zero exit becomes a failed result.
func RunTool(ctx context.Context, l Launcher, dir string, cmd *bridge.Command, ectx *Context, outputPath string) (Handle, error) {
	lt, runCtx := NewLifetime(ctx, nil)
	out := ectx.Formatter().LineWriter(nil)

	ectx.Log().Debug("running tool", "command", cmd.String(), "dir", dir)
	proc, err := l.Launch(runCtx, dir, cmd, out)
	if err != nil {
		lt.Finish()
		return nil, err
	}
	lt.stopFn = proc.Stop

	go func() {
		err := proc.Wait()
		_ = out.Close()
		if err != nil {
			lt.Emit(Result{Success: false, Error: fmt.Errorf("%s: %w", cmd.Name, err)})
		} else {
			lt.Emit(Result{Success: true, OutputPath: outputPath})
		}
		lt.Finish()
	}()
	return lt, nil
}

// ServeTool starts a framework dev server. The first result is sent when
// the server prints its URL; the handle stays open until the server exits
// or the handle is stopped. A server that exits before printing a URL
// reports a failed result.
func ServeTool(ctx context.Context, l Launcher, dir string, cmd *bridge.Command, ectx *Context) (Handle, error) {
	lt, runCtx := NewLifetime(ctx, nil)
	f := ectx.Formatter()

	var (
		mu       sync.Mutex
		reported bool
		stopped  bool
	)
	out := f.LineWriter(func(line string) {
		f.writeLine(line)
		url, ok := DetectServerURL(line)
		if !ok {
			return
		}
		mu.Lock()
		first := !reported
		reported = true
		mu.Unlock()
		if first {
			lt.Emit(Result{Success: true, BaseURL: url})
		}
	})

	ectx.Log().Debug("starting server", "command", cmd.String(), "dir", dir)
	proc, err := l.Launch(runCtx, dir, cmd, out)
	if err != nil {
		lt.Finish()
		return nil, err
	}
	lt.stopFn = func() error {
		mu.Lock()
		stopped = true
		mu.Unlock()
		return proc.Stop()
	}

	go func() {
		err := proc.Wait()
		_ = out.Close()
		mu.Lock()
		wasReported, wasStopped := reported, stopped
		mu.Unlock()
		switch {
		case wasStopped:
		case !wasReported && err == nil:
			lt.Emit(Result{Success: false, Error: ErrNoServerURL})
		case err != nil:
			lt.Emit(Result{Success: false, Error: fmt.Errorf("%s: %w", cmd.Name, err)})
		}
		lt.Finish()
	}()
	return lt, nil
}

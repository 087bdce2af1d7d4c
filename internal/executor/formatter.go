package executor

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// OutputFormatter rewrites absolute workspace paths to workspace-relative
// ones in every line an executor prints. Each executor run owns its own
// formatter.
type OutputFormatter struct {
	mu    sync.Mutex
	w     io.Writer
	roots []string
	re    *regexp.Regexp
}

// NewOutputFormatter creates a formatter writing to w for the given
// workspace root.
func NewOutputFormatter(w io.Writer, root string) *OutputFormatter {
	f := &OutputFormatter{w: w}
	if root == "" {
		return f
	}
	clean := filepath.Clean(root)
	f.roots = []string{clean}
	if slash := filepath.ToSlash(clean); slash != clean {
		f.roots = append(f.roots, slash)
	}
	alts := make([]string, len(f.roots))
	for i, r := range f.roots {
		alts[i] = regexp.QuoteMeta(r)
	}
	// The root only matches when followed by a separator or by a character
	// that cannot continue a path segment, so /ws-other stays intact.
	f.re = regexp.MustCompile(`(?:` + strings.Join(alts, "|") + `)(?:[/\\]|[^\w.\-/\\]|$)`)
	return f
}

// Format rewrites one line.
func (f *OutputFormatter) Format(line string) string {
	if f.re == nil {
		return line
	}
	return f.re.ReplaceAllStringFunc(line, func(m string) string {
		rest := m
		for _, r := range f.roots {
			if strings.HasPrefix(m, r) {
				rest = m[len(r):]
				break
			}
		}
		if rest == "/" || rest == `\` {
			return ""
		}
		return "." + rest
	})
}

// Println formats and writes one line.
func (f *OutputFormatter) Println(line string) {
	f.writeLine(f.Format(line))
}

func (f *OutputFormatter) writeLine(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintln(f.w, line)
}

// Printf formats a message and writes it as one line.
func (f *OutputFormatter) Printf(format string, args ...any) {
	f.Println(fmt.Sprintf(format, args...))
}

// LineWriter returns an io.WriteCloser that splits its input into lines,
// passes each through Format and then to onLine (or prints it when onLine
// is nil). Close flushes a trailing partial line.
func (f *OutputFormatter) LineWriter(onLine func(string)) io.WriteCloser {
	if onLine == nil {
		onLine = f.writeLine
	}
	return &lineWriter{onLine: func(line string) { onLine(f.Format(line)) }}
}

type lineWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	onLine func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSuffix(string(w.buf.Next(i + 1)[:i]), "\r")
		w.onLine(line)
	}
	return len(p), nil
}

func (w *lineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.onLine(w.buf.String())
		w.buf.Reset()
	}
	return nil
}

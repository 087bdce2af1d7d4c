package install

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/nxplus/nxplus/internal/defs"
)

// Manifest is the subset of an installed package.json the peer check reads.
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
}

// ModuleResolver looks up the manifest of an installed package.
type ModuleResolver interface {
	Resolve(pkg string) (Manifest, error)
}

// NodeModulesResolver reads node_modules/<pkg>/package.json under Root on
// every call, so a package installed mid-run is seen by the next check.
type NodeModulesResolver struct {
	Root string
}

// Resolve implements ModuleResolver.
func (r NodeModulesResolver) Resolve(pkg string) (Manifest, error) {
	p := filepath.Join(r.Root, defs.NodeModulesDir, filepath.FromSlash(pkg), defs.PackageJSON)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, fmt.Errorf("%w: %s", ErrModuleNotInstalled, pkg)
		}
		return Manifest{}, fmt.Errorf("read %s: %w", p, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, p, err)
	}
	return m, nil
}

// PeerWarning describes an installed package whose version falls outside
// the range a plugin was built against.
type PeerWarning struct {
	Package   string
	Range     string
	Installed string
	Reason    string
}

// String formats the warning for display.
func (w PeerWarning) String() string {
	if w.Installed == "" {
		return fmt.Sprintf("%s: %s", w.Package, w.Reason)
	}
	return fmt.Sprintf("%s@%s does not satisfy %q: %s", w.Package, w.Installed, w.Range, w.Reason)
}

// CheckPeer compares the installed version of pkg with rangeExpr. It never
// fails: a mismatch, an unreadable manifest or an unparsable version yields
// a warning, and a package that is not installed yields nil.
func CheckPeer(r ModuleResolver, pkg, rangeExpr string) *PeerWarning {
	m, err := r.Resolve(pkg)
	if err != nil {
		if errors.Is(err, ErrModuleNotInstalled) {
			return nil
		}
		return &PeerWarning{Package: pkg, Range: rangeExpr, Reason: err.Error()}
	}

	installed, err := semver.ParseTolerant(m.Version)
	if err != nil {
		return &PeerWarning{Package: pkg, Range: rangeExpr, Installed: m.Version, Reason: "unparsable version"}
	}
	rng, err := ParseRange(rangeExpr)
	if err != nil {
		return &PeerWarning{Package: pkg, Range: rangeExpr, Installed: m.Version, Reason: err.Error()}
	}
	if !rng(installed) {
		return &PeerWarning{Package: pkg, Range: rangeExpr, Installed: m.Version, Reason: "version out of range"}
	}
	return nil
}

// InstalledMajor returns the major version of an installed package.
func InstalledMajor(r ModuleResolver, pkg string) (uint64, bool) {
	m, err := r.Resolve(pkg)
	if err != nil {
		return 0, false
	}
	v, err := semver.ParseTolerant(m.Version)
	if err != nil {
		return 0, false
	}
	return v.Major, true
}

// ParseRange parses an npm-style range (^, ~, x and plain comparators,
// joined by spaces or ||) into a semver.Range.
func ParseRange(expr string) (semver.Range, error) {
	var alts []string
	for alt := range strings.SplitSeq(expr, "||") {
		var parts []string
		for f := range strings.FieldsSeq(alt) {
			parts = append(parts, expandComparator(f))
		}
		if len(parts) == 0 {
			parts = []string{">=0.0.0"}
		}
		alts = append(alts, strings.Join(parts, " "))
	}
	rng, err := semver.ParseRange(strings.Join(alts, " || "))
	if err != nil {
		return nil, fmt.Errorf("parse range %q: %w", expr, err)
	}
	return rng, nil
}

var partialVersion = regexp.MustCompile(`^v?(\d+|[xX*])(?:\.(\d+|[xX*]))?(?:\.(\d+|[xX*]))?(-[0-9A-Za-z.-]+)?$`)

// expandComparator rewrites one npm comparator into blang range syntax.
func expandComparator(c string) string {
	switch {
	case c == "*" || c == "x" || c == "latest":
		return ">=0.0.0"
	case strings.HasPrefix(c, "^"):
		return caret(strings.TrimPrefix(c, "^"))
	case strings.HasPrefix(c, "~"):
		return tilde(strings.TrimPrefix(c, "~"))
	case strings.IndexAny(c, "<>=!") == 0:
		return c
	}
	m := partialVersion.FindStringSubmatch(c)
	if m == nil {
		return c
	}
	major, minor, patch := m[1], m[2], m[3]
	switch {
	case isWild(major):
		return ">=0.0.0"
	case isWild(minor):
		return bounds(atoi(major), 0, 0, atoi(major)+1, 0, 0, "")
	case isWild(patch):
		return bounds(atoi(major), atoi(minor), 0, atoi(major), atoi(minor)+1, 0, "")
	}
	return "=" + strings.TrimPrefix(c, "v")
}

func caret(v string) string {
	m := partialVersion.FindStringSubmatch(v)
	if m == nil {
		return "^" + v
	}
	major, minor, patch := atoi(m[1]), atoi(m[2]), atoi(m[3])
	switch {
	case major > 0 || isWild(m[2]):
		return bounds(major, minor, patch, major+1, 0, 0, m[4])
	case minor > 0 || isWild(m[3]):
		return bounds(major, minor, patch, major, minor+1, 0, m[4])
	default:
		return bounds(major, minor, patch, major, minor, patch+1, m[4])
	}
}

func tilde(v string) string {
	m := partialVersion.FindStringSubmatch(v)
	if m == nil {
		return "~" + v
	}
	major, minor, patch := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if isWild(m[2]) {
		return bounds(major, 0, 0, major+1, 0, 0, m[4])
	}
	return bounds(major, minor, patch, major, minor+1, 0, m[4])
}

func bounds(lMaj, lMin, lPat, uMaj, uMin, uPat int, pre string) string {
	return fmt.Sprintf(">=%d.%d.%d%s <%d.%d.%d", lMaj, lMin, lPat, pre, uMaj, uMin, uPat)
}

func isWild(s string) bool {
	return s == "" || s == "x" || s == "X" || s == "*"
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

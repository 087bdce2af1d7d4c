package ui

import (
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
)

// HeadlessManager decides whether the UI may prompt and animate. A session
// is headless when stdin is not a terminal, when CI is set to a true value
// or when TERM is "dumb".
type HeadlessManager struct {
	forced *bool
	getenv func(string) string
}

// NewHeadlessManager creates a HeadlessManager that inspects os.Stdin and
// the process environment.
func NewHeadlessManager() *HeadlessManager {
	return &HeadlessManager{getenv: os.Getenv}
}

// IsHeadless reports whether prompts and spinners must be skipped.
func (h *HeadlessManager) IsHeadless() bool {
	if h.forced != nil {
		return *h.forced
	}
	if ci, err := strconv.ParseBool(h.getenv("CI")); err == nil && ci {
		return true
	}
	if h.getenv("TERM") == "dumb" {
		return true
	}
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// ForceHeadless overrides detection in both directions.
func (h *HeadlessManager) ForceHeadless(force bool) {
	h.forced = &force
}

package bridge

import (
	"maps"
	"slices"
	"strings"
)

// Command is a framework CLI invocation, the native configuration for
// tools that are driven through their command line.
type Command struct {
	Name string
	Args []string
	Env  map[string]string
}

// NewCommand creates a Command.
func NewCommand(name string, args ...string) *Command {
	return &Command{Name: name, Args: args, Env: map[string]string{}}
}

// Argv returns the full argument vector.
func (c *Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Environ returns Env as sorted KEY=value pairs.
func (c *Command) Environ() []string {
	out := make([]string, 0, len(c.Env))
	for _, k := range slices.Sorted(maps.Keys(c.Env)) {
		out = append(out, k+"="+c.Env[k])
	}
	return out
}

// String renders the command for logs.
func (c *Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Flag returns the value of a flag given as "--flag value" or
// "--flag=value".
func (c *Command) Flag(flag string) (string, bool) {
	for i, a := range c.Args {
		if a == flag && i+1 < len(c.Args) {
			return c.Args[i+1], true
		}
		if v, ok := strings.CutPrefix(a, flag+"="); ok {
			return v, true
		}
	}
	return "", false
}

// SetFlag sets a valued flag, replacing any existing occurrence.
func (c *Command) SetFlag(flag, value string) {
	for i, a := range c.Args {
		if a == flag && i+1 < len(c.Args) {
			c.Args[i+1] = value
			return
		}
		if strings.HasPrefix(a, flag+"=") {
			c.Args[i] = flag + "=" + value
			return
		}
	}
	c.Args = append(c.Args, flag, value)
}

// SetSwitch adds a boolean flag if it is not already present.
func (c *Command) SetSwitch(flag string) {
	if !slices.Contains(c.Args, flag) {
		c.Args = append(c.Args, flag)
	}
}

package bridge

import (
	"path/filepath"
	"strconv"

	"github.com/nxplus/nxplus/internal/defs"
)

// Sections of a Command.
const (
	SectionCache  Section = "cache"
	SectionServer Section = "server"
	SectionEnv    Section = "env"
	SectionArgs   Section = "args"
)

// CacheDir relocates the tool's cache to node_modules/.cache/<tool>/<project>
// under the workspace root, passed through flag.
func CacheDir(root, tool, project, flag string) Patch[*Command] {
	return Patch[*Command]{
		Name:   "cache-dir",
		Writes: []Section{SectionCache},
		Apply: func(c *Command) error {
			c.SetFlag(flag, CachePath(root, tool, project))
			return nil
		},
	}
}

// CachePath returns the cache directory used for a tool and project.
func CachePath(root, tool, project string) string {
	return filepath.Join(root, defs.NodeModulesDir, ".cache", tool, project)
}

// OutDir points the tool's output at dir through flag. An empty dir
// leaves the tool's default.
func OutDir(flag, dir string) Patch[*Command] {
	return Patch[*Command]{
		Name:   "out-dir",
		Writes: []Section{SectionOutput},
		Apply: func(c *Command) error {
			if dir != "" {
				c.SetFlag(flag, dir)
			}
			return nil
		},
	}
}

// DevServerAddr sets the listen host and port. Zero values leave the
// tool's defaults.
func DevServerAddr(host string, port int) Patch[*Command] {
	return Patch[*Command]{
		Name:   "dev-server-addr",
		Writes: []Section{SectionServer},
		Apply: func(c *Command) error {
			if host != "" {
				c.SetFlag("--host", host)
			}
			if port != 0 {
				c.SetFlag("--port", strconv.Itoa(port))
			}
			return nil
		},
	}
}

// Environment adds environment variables, keeping values already set by
// earlier patches.
func Environment(env map[string]string) Patch[*Command] {
	return Patch[*Command]{
		Name:   "environment",
		Writes: []Section{SectionEnv},
		Apply: func(c *Command) error {
			if c.Env == nil {
				c.Env = map[string]string{}
			}
			for k, v := range env {
				if _, set := c.Env[k]; !set {
					c.Env[k] = v
				}
			}
			return nil
		},
	}
}

// Flag sets a valued flag. An empty value leaves the command unchanged.
func Flag(flag, value string) Patch[*Command] {
	return Patch[*Command]{
		Name:   "flag" + flag,
		Writes: []Section{SectionArgs},
		Apply: func(c *Command) error {
			if value != "" {
				c.SetFlag(flag, value)
			}
			return nil
		},
	}
}

// Switch adds a boolean flag when on is true.
func Switch(flag string, on bool) Patch[*Command] {
	return Patch[*Command]{
		Name:   "switch" + flag,
		Writes: []Section{SectionArgs},
		Apply: func(c *Command) error {
			if on {
				c.SetSwitch(flag)
			}
			return nil
		},
	}
}

package defs

// Workspace documents read and written by the host.
const (
	// WorkspaceJSON holds the project name -> configuration map.
	WorkspaceJSON = "workspace.json"

	// NxJSON holds workspace layout and per-project tags.
	NxJSON = "nx.json"

	// PackageJSON is the workspace package manifest.
	PackageJSON = "package.json"

	// TsconfigBaseJSON holds the workspace-wide TypeScript path mappings.
	TsconfigBaseJSON = "tsconfig.base.json"

	// ConfigYAML is the optional nxplus tool configuration file.
	ConfigYAML = "nxplus.yaml"
)

// Lock files used to detect the workspace package manager.
const (
	PnpmLock = "pnpm-lock.yaml"
	YarnLock = "yarn.lock"
)

// Default workspace layout directories.
const (
	DefaultAppsDir = "apps"
	DefaultLibsDir = "libs"
)

// NodeModulesDir is where installed packages and tool caches live.
const NodeModulesDir = "node_modules"

// File and directory permissions for generated content.
const (
	DirPerm  = 0o755
	FilePerm = 0o644
)

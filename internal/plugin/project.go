package plugin

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/naming"
	"github.com/nxplus/nxplus/internal/template"
	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

// RunCommands is the executor id lint, test and e2e targets run with.
const RunCommands = "@nxplus/workspace:run-commands"

// Test runner choices.
const (
	RunnerJest    = "jest"
	RunnerCypress = "cypress"
	RunnerNone    = "none"
)

//go:embed all:files
var sharedFiles embed.FS

// TestOptions are the test runner flags shared by application generators.
type TestOptions struct {
	UnitTestRunner string `json:"unitTestRunner,omitempty" jsonschema:"enum=jest,enum=none,default=jest,description=Test runner to use for unit tests"`
	E2ETestRunner  string `json:"e2eTestRunner,omitempty" jsonschema:"enum=cypress,enum=none,default=cypress,description=Test runner to use for end to end tests"`
}

// Defaults fills empty runner choices.
func (o *TestOptions) Defaults() {
	if o.UnitTestRunner == "" {
		o.UnitTestRunner = RunnerJest
	}
	if o.E2ETestRunner == "" {
		o.E2ETestRunner = RunnerCypress
	}
}

// Jest reports whether unit tests run with Jest.
func (o TestOptions) Jest() bool { return o.UnitTestRunner == RunnerJest }

// Cypress reports whether an e2e project is generated.
func (o TestOptions) Cypress() bool { return o.E2ETestRunner == RunnerCypress }

// NormalizeProject reads the workspace layout from the tree and normalizes
// s for a project of the given type.
func NormalizeProject(tree *workspace.Tree, s naming.Schema, kind models.ProjectType) (naming.NormalizedSchema, error) {
	layout, err := workspace.ReadLayout(tree)
	if err != nil {
		return naming.NormalizedSchema{}, err
	}
	return naming.Normalize(s, layout, kind)
}

// jestFiles are the template outputs that exist only for Jest projects.
var jestFiles = []string{"tests/unit/**", "jest.config.js", "tsconfig.spec.json"}

// UnitTestPruneRule removes the Jest files unless runner is jest.
func UnitTestPruneRule(runner string) template.PruneRule {
	return template.PruneRule{Disabled: runner != RunnerJest, Patterns: jestFiles}
}

// LintTarget runs eslint over the given globs, relative to the workspace
// root.
func LintTarget(globs ...string) models.TargetDefinition {
	quoted := make([]string, len(globs))
	for i, g := range globs {
		quoted[i] = "'" + g + "'"
	}
	return models.TargetDefinition{
		Executor: RunCommands,
		Options:  models.Options{"command": "eslint " + strings.Join(quoted, " ")},
	}
}

// JestTarget runs the project's Jest config.
func JestTarget(projectRoot string) models.TargetDefinition {
	return models.TargetDefinition{
		Executor: RunCommands,
		Options: models.Options{
			"command": "jest --config " + path.Join(projectRoot, "jest.config.js"),
		},
	}
}

// JestDevDependencies are the packages every Jest project needs.
func JestDevDependencies() install.Dependencies {
	return install.Dependencies{
		"jest":        "^27.4.3",
		"ts-jest":     "^27.1.1",
		"@types/jest": "^27.0.3",
	}
}

// EslintDevDependencies are the packages the lint target needs.
func EslintDevDependencies() install.Dependencies {
	return install.Dependencies{
		"eslint":                           "^8.3.0",
		"@typescript-eslint/parser":        "^5.5.0",
		"@typescript-eslint/eslint-plugin": "^5.5.0",
	}
}

// CypressDevDependencies are the packages the e2e project needs.
func CypressDevDependencies() install.Dependencies {
	return install.Dependencies{
		"cypress":               "^9.1.0",
		"eslint-plugin-cypress": "^2.12.1",
	}
}

// E2EProject describes the Cypress project generated next to an
// application.
type E2EProject struct {
	// DevServerTarget is the target name serving the app, usually "serve".
	DevServerTarget string
	// Heading is text the generated smoke test expects on the home page.
	Heading string
}

// AddCypressProject scaffolds and registers "<project>-e2e" next to the
// application described by ns.
func AddCypressProject(ctx context.Context, gctx *generator.Context, ns naming.NormalizedSchema, e2e E2EProject) error {
	layout, err := workspace.ReadLayout(gctx.Tree)
	if err != nil {
		return err
	}
	name := ns.ProjectName + "-e2e"
	root := path.Join(layout.AppsDir, ns.ProjectDirectory+"-e2e")

	tmplCtx := template.NewTemplateContext(
		template.WithProject(ns),
		template.WithExtra("e2eRoot", root),
		template.WithExtra("heading", e2e.Heading),
	)
	tmplCtx.OffsetFromRoot = naming.OffsetFromRoot(root)
	if _, err := template.NewScaffolder(sharedFiles, gctx.Log()).Generate(ctx, gctx.Tree, "files/e2e", root, tmplCtx); err != nil {
		return fmt.Errorf("scaffold %s: %w", name, err)
	}

	serve := ns.ProjectName + ":" + e2e.DevServerTarget
	cfg := models.ProjectConfiguration{
		Root:        root,
		SourceRoot:  path.Join(root, "src"),
		ProjectType: models.ProjectTypeApplication,
		Targets: map[string]models.TargetDefinition{
			"e2e": {
				Executor: RunCommands,
				Options: models.Options{
					"commands":        []any{"cypress run --config-file " + path.Join(root, "cypress.json")},
					"devServerTarget": serve,
				},
				Configurations: map[string]models.Options{
					"production": {"devServerTarget": serve + ":production"},
				},
			},
			"lint": LintTarget(path.Join(root, "**/*.{js,ts}")),
		},
		Tags: []string{},
	}
	if err := workspace.AddProjectConfiguration(gctx.Tree, name, cfg); err != nil {
		return err
	}
	gctx.Log().Debug("added e2e project", slog.String("project", name), slog.String("root", root))
	return nil
}

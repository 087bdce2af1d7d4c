package vue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/defs"
	"github.com/nxplus/nxplus/internal/executor"
)

// LibraryBuildOptions are the options of the library executor.
type LibraryBuildOptions struct {
	OutputPath string   `json:"outputPath" jsonschema:"required,description=Output directory relative to the workspace root"`
	Entry      string   `json:"entry" jsonschema:"required,description=Library entry module"`
	TsConfig   string   `json:"tsConfig,omitempty" jsonschema:"description=tsconfig used for path mappings"`
	Name       string   `json:"name" jsonschema:"required,description=Base name of the emitted bundles"`
	Formats    []string `json:"formats,omitempty" jsonschema:"description=Module formats to emit: esm and/or cjs"`
	External   []string `json:"external,omitempty" jsonschema:"description=Packages left out of the bundle in addition to vue"`
	SourceMap  bool     `json:"sourceMap,omitempty" jsonschema:"description=Emit linked source maps"`
	Minify     bool     `json:"minify,omitempty" jsonschema:"description=Minify the bundles"`
	Assets     []any    `json:"assets,omitempty" jsonschema:"description=Files copied into the output directory"`
}

var libraryFormats = map[string]api.Format{
	"esm": api.FormatESModule,
	"cjs": api.FormatCommonJS,
}

// bundleName is the file a format is written to, e.g. ui.esm.js.
func bundleName(name, format string) string {
	return name + "." + format + ".js"
}

func (v *Vue) library(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o LibraryBuildOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{"esm"}
	}
	projectRoot, err := ectx.ProjectRoot()
	if err != nil {
		return nil, err
	}
	if err := executor.RejectNativeConfig(projectRoot, nativeConfigs...); err != nil {
		return nil, err
	}
	assets, err := bridge.ParseAssets(o.Assets)
	if err != nil {
		return nil, err
	}

	outdir := ectx.Abs(o.OutputPath)
	builds := make([]api.BuildOptions, 0, len(o.Formats))
	for _, format := range o.Formats {
		f, ok := libraryFormats[format]
		if !ok {
			return nil, fmt.Errorf("%w: library format %q", bridge.ErrInvalidOption, format)
		}
		bo := api.BuildOptions{
			AbsWorkingDir: ectx.Root,
			Outfile:       filepath.Join(outdir, bundleName(o.Name, format)),
			Bundle:        true,
			Format:        f,
			Platform:      api.PlatformNeutral,
			External:      append([]string{"vue"}, o.External...),
			Write:         true,
			LogLevel:      api.LogLevelSilent,
			Plugins:       slices.Clone(v.esbuildPlugins),
		}
		pipeline := bridge.NewPipeline(
			bridge.EntryPoint(o.Entry),
			bridge.TsconfigPaths(ectx.Root, o.TsConfig),
			bridge.Loaders(styleLoaders),
			bridge.Define("production", nil, nil),
			bridge.Optimization(o.Minify, o.SourceMap),
		)
		if err := pipeline.Apply(&bo); err != nil {
			return nil, err
		}
		builds = append(builds, bo)
	}

	lt, runCtx := executor.NewLifetime(ctx, nil)
	go func() {
		defer lt.Finish()
		for _, bo := range builds {
			if runCtx.Err() != nil {
				lt.Emit(executor.Result{Success: false, Error: runCtx.Err()})
				return
			}
			r := api.Build(bo)
			if res := report(ectx, r.Errors, r.Warnings, o.OutputPath); !res.Success {
				lt.Emit(res)
				return
			}
		}
		if _, err := bridge.CopyAssets(ectx.Root, outdir, assets); err != nil {
			lt.Emit(executor.Result{Success: false, Error: err})
			return
		}
		if err := writeLibraryManifest(projectRoot, outdir, o); err != nil {
			lt.Emit(executor.Result{Success: false, Error: err})
			return
		}
		lt.Emit(executor.Result{Success: true, OutputPath: o.OutputPath})
	}()
	return lt, nil
}

// writeLibraryManifest copies the project's package.json into outdir with
// main and module pointing at the emitted bundles. Projects without a
// package.json are not published and get none.
func writeLibraryManifest(projectRoot, outdir string, o LibraryBuildOptions) error {
	data, err := os.ReadFile(filepath.Join(projectRoot, defs.PackageJSON))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read library manifest: %w", err)
	}
	fields := map[string]string{"cjs": "main", "esm": "module"}
	for _, format := range o.Formats {
		data, err = sjson.SetBytes(data, fields[format], "./"+bundleName(o.Name, format))
		if err != nil {
			return fmt.Errorf("update library manifest: %w", err)
		}
	}
	if !slices.Contains(o.Formats, "cjs") {
		data, err = sjson.SetBytes(data, "main", "./"+bundleName(o.Name, "esm"))
		if err != nil {
			return fmt.Errorf("update library manifest: %w", err)
		}
	}
	if err := os.MkdirAll(outdir, defs.DirPerm); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, defs.PackageJSON), pretty.Pretty(data), defs.FilePerm)
}

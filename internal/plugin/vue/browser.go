package vue

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/tidwall/gjson"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/defs"
	"github.com/nxplus/nxplus/internal/executor"
)

// BrowserOptions are the options of the browser executor.
type BrowserOptions struct {
	OutputPath    string            `json:"outputPath" jsonschema:"required,description=Output directory relative to the workspace root"`
	Index         string            `json:"index,omitempty" jsonschema:"description=HTML template the bundle is injected into"`
	Main          string            `json:"main" jsonschema:"required,description=Entry module"`
	TsConfig      string            `json:"tsConfig,omitempty" jsonschema:"description=tsconfig used for path mappings"`
	Assets        []any             `json:"assets,omitempty" jsonschema:"description=Files copied into the output directory"`
	Mode          string            `json:"mode,omitempty" jsonschema:"enum=development,enum=production,default=development,description=Sets process.env.NODE_ENV"`
	SourceMap     bool              `json:"sourceMap,omitempty" jsonschema:"description=Emit linked source maps"`
	OutputHashing string            `json:"outputHashing,omitempty" jsonschema:"enum=none,enum=all,enum=media,enum=bundles,default=none,description=Add content hashes to file names"`
	Minify        bool              `json:"minify,omitempty" jsonschema:"description=Minify the bundle"`
	PublicPath    string            `json:"publicPath,omitempty" jsonschema:"default=/,description=URL the application is served under"`
	Define        map[string]string `json:"define,omitempty" jsonschema:"description=Global replacements as JavaScript expressions"`
	Watch         bool              `json:"watch,omitempty" jsonschema:"description=Rebuild on file changes"`
	Target        string            `json:"target,omitempty" jsonschema:"default=es2020,description=JavaScript language target"`
}

// styleLoaders bundle preprocessor stylesheets as plain CSS. Compiling
// scss, less or stylus needs a plugin passed through WithEsbuildPlugins.
var styleLoaders = map[string]api.Loader{
	".scss": api.LoaderCSS,
	".sass": api.LoaderCSS,
	".less": api.LoaderCSS,
	".styl": api.LoaderCSS,
}

var languageTargets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

func (v *Vue) browser(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o BrowserOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	projectRoot, err := ectx.ProjectRoot()
	if err != nil {
		return nil, err
	}
	if err := executor.RejectNativeConfig(projectRoot, nativeConfigs...); err != nil {
		return nil, err
	}
	bo, err := v.buildOptions(ectx, o)
	if err != nil {
		return nil, err
	}
	if o.Watch {
		return watchBuild(ctx, bo, ectx, o.OutputPath)
	}
	return build(ctx, bo, ectx, o.OutputPath)
}

// buildOptions translates browser options into esbuild options.
func (v *Vue) buildOptions(ectx *executor.Context, o BrowserOptions) (api.BuildOptions, error) {
	target := api.ES2020
	if o.Target != "" {
		t, ok := languageTargets[strings.ToLower(o.Target)]
		if !ok {
			return api.BuildOptions{}, fmt.Errorf("%w: target %q", bridge.ErrInvalidOption, o.Target)
		}
		target = t
	}
	assets, err := bridge.ParseAssets(o.Assets)
	if err != nil {
		return api.BuildOptions{}, err
	}
	publicPath := o.PublicPath
	if publicPath == "" {
		publicPath = "/"
	}
	if !strings.HasSuffix(publicPath, "/") {
		publicPath += "/"
	}
	outdir := ectx.Abs(o.OutputPath)

	bo := api.BuildOptions{
		AbsWorkingDir: ectx.Root,
		Outdir:        outdir,
		PublicPath:    publicPath,
		Bundle:        true,
		Splitting:     true,
		Format:        api.FormatESModule,
		Platform:      api.PlatformBrowser,
		Target:        target,
		Metafile:      true,
		Write:         true,
		LogLevel:      api.LogLevelSilent,
		Plugins:       slices.Clone(v.esbuildPlugins),
	}
	pipeline := bridge.NewPipeline(
		bridge.EntryPoint(o.Main),
		bridge.TsconfigPaths(ectx.Root, o.TsConfig),
		bridge.Loaders(styleLoaders),
		bridge.OutputHashing(o.OutputHashing),
		bridge.Define(o.Mode, os.Environ(), o.Define),
		bridge.VueAlias(v.vueMajor(ectx.Root)),
		bridge.Optimization(o.Minify, o.SourceMap),
		bridge.AssetCopy(ectx.Root, outdir, assets),
		indexHTML(ectx.Root, o.Index, outdir, publicPath),
	)
	if err := pipeline.Apply(&bo); err != nil {
		return api.BuildOptions{}, err
	}
	ectx.Log().Debug("esbuild options", "patches", pipeline.Names(), "outdir", outdir)
	return bo, nil
}

// build runs one esbuild build. Stopping the handle cancels the build.
func build(ctx context.Context, bo api.BuildOptions, ectx *executor.Context, outputPath string) (executor.Handle, error) {
	bctx, cerr := api.Context(bo)
	if cerr != nil {
		return executor.Completed(report(ectx, cerr.Errors, nil, outputPath)), nil
	}
	lt, runCtx := executor.NewLifetime(ctx, nil)
	go func() {
		defer lt.Finish()
		defer bctx.Dispose()
		stop := context.AfterFunc(runCtx, bctx.Cancel)
		r := bctx.Rebuild()
		stop()
		lt.Emit(report(ectx, r.Errors, r.Warnings, outputPath))
	}()
	return lt, nil
}

// watchBuild rebuilds on every change and reports one result per build
// until the handle is stopped.
func watchBuild(ctx context.Context, bo api.BuildOptions, ectx *executor.Context, outputPath string) (executor.Handle, error) {
	lt, runCtx := executor.NewLifetime(ctx, nil)
	bo.Plugins = append(bo.Plugins, reporter(ectx, lt, outputPath))
	bctx, cerr := api.Context(bo)
	if cerr != nil {
		lt.Finish()
		return executor.Completed(report(ectx, cerr.Errors, nil, outputPath)), nil
	}
	if err := bctx.Watch(api.WatchOptions{}); err != nil {
		bctx.Dispose()
		lt.Finish()
		return nil, fmt.Errorf("watch: %w", err)
	}
	go func() {
		<-runCtx.Done()
		bctx.Dispose()
		lt.Finish()
	}()
	return lt, nil
}

// reporter emits a result at the end of every build.
func reporter(ectx *executor.Context, lt *executor.Lifetime, outputPath string) api.Plugin {
	return api.Plugin{
		Name: "nxplus-report",
		Setup: func(b api.PluginBuild) {
			b.OnEnd(func(r *api.BuildResult) (api.OnEndResult, error) {
				lt.Emit(report(ectx, r.Errors, r.Warnings, outputPath))
				return api.OnEndResult{}, nil
			})
		},
	}
}

// report prints esbuild messages and turns them into a result.
func report(ectx *executor.Context, errs, warnings []api.Message, outputPath string) executor.Result {
	f := ectx.Formatter()
	for _, m := range api.FormatMessages(warnings, api.FormatMessagesOptions{Kind: api.WarningMessage}) {
		f.Println(strings.TrimRight(m, "\n"))
	}
	if len(errs) > 0 {
		for _, m := range api.FormatMessages(errs, api.FormatMessagesOptions{Kind: api.ErrorMessage}) {
			f.Println(strings.TrimRight(m, "\n"))
		}
		return executor.Result{Success: false, Error: fmt.Errorf("%w: %d error(s)", ErrBuildFailed, len(errs))}
	}
	return executor.Result{Success: true, OutputPath: outputPath}
}

// indexHTML writes outdir/index.html from the index template after every
// successful build, with the entry script and stylesheet injected.
func indexHTML(root, index, outdir, publicPath string) bridge.BuildPatch {
	return bridge.BuildPatch{
		Name:   "index-html",
		Reads:  []bridge.Section{bridge.SectionOutput},
		Writes: []bridge.Section{bridge.SectionPlugins},
		Apply: func(o *api.BuildOptions) error {
			if index == "" {
				return nil
			}
			if !o.Metafile {
				return fmt.Errorf("%w: index.html injection needs the metafile", bridge.ErrInvalidOption)
			}
			src := filepath.Join(root, filepath.FromSlash(index))
			o.Plugins = append(o.Plugins, api.Plugin{
				Name: "nxplus-index-html",
				Setup: func(b api.PluginBuild) {
					b.OnEnd(func(r *api.BuildResult) (api.OnEndResult, error) {
						if len(r.Errors) > 0 {
							return api.OnEndResult{}, nil
						}
						if err := writeIndexHTML(src, root, outdir, publicPath, r.Metafile); err != nil {
							return api.OnEndResult{Errors: []api.Message{{Text: err.Error()}}}, nil
						}
						return api.OnEndResult{}, nil
					})
				},
			})
			return nil
		},
	}
}

func writeIndexHTML(src, root, outdir, publicPath, metafile string) error {
	tmpl, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}
	script, css := entryOutputs(metafile)
	href := func(out string) string {
		if out == "" {
			return ""
		}
		rel, err := filepath.Rel(outdir, filepath.Join(root, filepath.FromSlash(out)))
		if err != nil {
			return ""
		}
		return publicPath + filepath.ToSlash(rel)
	}
	if err := os.MkdirAll(outdir, defs.DirPerm); err != nil {
		return err
	}
	html := renderIndexHTML(tmpl, publicPath, href(script), href(css))
	return os.WriteFile(filepath.Join(outdir, "index.html"), html, defs.FilePerm)
}

// entryOutputs returns the entry bundle and its stylesheet from an
// esbuild metafile, both relative to the working directory.
func entryOutputs(metafile string) (script, css string) {
	gjson.Get(metafile, "outputs").ForEach(func(key, out gjson.Result) bool {
		if out.Get("entryPoint").Exists() && strings.HasSuffix(key.String(), ".js") {
			script = key.String()
			css = out.Get("cssBundle").String()
			return false
		}
		return true
	})
	return script, css
}

// renderIndexHTML substitutes %BASE_URL% and injects the stylesheet
// before </head> and the module script before </body>.
func renderIndexHTML(tmpl []byte, baseURL, script, css string) []byte {
	html := bytes.ReplaceAll(tmpl, []byte("%BASE_URL%"), []byte(baseURL))
	if css != "" {
		html = injectBefore(html, "</head>", fmt.Sprintf("  <link rel=\"stylesheet\" href=\"%s\">\n  ", css))
	}
	if script != "" {
		html = injectBefore(html, "</body>", fmt.Sprintf("  <script type=\"module\" src=\"%s\"></script>\n  ", script))
	}
	return html
}

func injectBefore(html []byte, marker, tag string) []byte {
	i := bytes.LastIndex(html, []byte(marker))
	if i < 0 {
		return append(html, strings.TrimSpace(tag)+"\n"...)
	}
	out := make([]byte, 0, len(html)+len(tag))
	out = append(out, html[:i]...)
	out = append(out, tag...)
	return append(out, html[i:]...)
}

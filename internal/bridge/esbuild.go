package bridge

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// Sections of esbuild BuildOptions.
const (
	SectionEntry        Section = "entry"
	SectionResolve      Section = "resolve"
	SectionLoaders      Section = "loaders"
	SectionOutput       Section = "output"
	SectionPlugins      Section = "plugins"
	SectionDefine       Section = "define"
	SectionOptimization Section = "optimization"
)

// BuildPatch is a patch over esbuild build options.
type BuildPatch = Patch[*api.BuildOptions]

// EntryPoint sets the bundle entry.
func EntryPoint(main string) BuildPatch {
	return BuildPatch{
		Name:   "entry-point",
		Writes: []Section{SectionEntry},
		Apply: func(o *api.BuildOptions) error {
			if main == "" {
				return fmt.Errorf("%w: empty main entry", ErrInvalidOption)
			}
			o.EntryPoints = []string{main}
			return nil
		},
	}
}

// TsconfigPaths points esbuild at the project tsconfig, which resolves
// compilerOptions.paths, and aliases every exact (non-wildcard) path
// mapping so workspace libraries resolve even from files outside the
// tsconfig's include set. root is the workspace root esbuild runs in.
func TsconfigPaths(root, tsconfig string) BuildPatch {
	return BuildPatch{
		Name:   "tsconfig-paths",
		Writes: []Section{SectionResolve},
		Apply: func(o *api.BuildOptions) error {
			if tsconfig == "" {
				return nil
			}
			abs := tsconfig
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(root, filepath.FromSlash(tsconfig))
			}
			aliases, err := readPathAliases(root, abs)
			if err != nil {
				return err
			}
			o.Tsconfig = abs
			if len(aliases) > 0 && o.Alias == nil {
				o.Alias = map[string]string{}
			}
			for k, v := range aliases {
				if _, set := o.Alias[k]; !set {
					o.Alias[k] = v
				}
			}
			return nil
		},
	}
}

// readPathAliases reads compilerOptions.paths from a tsconfig, following
// one level of "extends", and returns exact mappings as "./" paths
// relative to root.
func readPathAliases(root, tsconfig string) (map[string]string, error) {
	data, err := os.ReadFile(tsconfig)
	if err != nil {
		return nil, fmt.Errorf("read tsconfig: %w", err)
	}
	doc := jsonc.ToJSON(data)
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidOption, tsconfig)
	}

	dir := filepath.Dir(tsconfig)
	paths := gjson.GetBytes(doc, "compilerOptions.paths")
	baseURL := gjson.GetBytes(doc, "compilerOptions.baseUrl").String()
	if !paths.Exists() {
		if ext := gjson.GetBytes(doc, "extends").String(); ext != "" && strings.HasPrefix(ext, ".") {
			return readPathAliases(root, filepath.Join(dir, filepath.FromSlash(ext)))
		}
		return nil, nil
	}

	base := filepath.Join(dir, filepath.FromSlash(baseURL))
	out := map[string]string{}
	var walkErr error
	paths.ForEach(func(key, targets gjson.Result) bool {
		k := key.String()
		first := targets.Get("0").String()
		if strings.Contains(k, "*") || first == "" || strings.HasPrefix(k, ".") {
			return true
		}
		rel, err := filepath.Rel(root, filepath.Join(base, filepath.FromSlash(first)))
		if err != nil {
			walkErr = err
			return false
		}
		out[k] = "./" + filepath.ToSlash(rel)
		return true
	})
	return out, walkErr
}

// defaultAssetLoaders are the file loaders registered for static assets.
var defaultAssetLoaders = map[string]api.Loader{
	".png":   api.LoaderFile,
	".jpg":   api.LoaderFile,
	".jpeg":  api.LoaderFile,
	".gif":   api.LoaderFile,
	".webp":  api.LoaderFile,
	".svg":   api.LoaderFile,
	".ico":   api.LoaderFile,
	".woff":  api.LoaderFile,
	".woff2": api.LoaderFile,
	".ttf":   api.LoaderFile,
	".eot":   api.LoaderFile,
	".html":  api.LoaderText,
}

// Loaders registers the asset loaders, keeping any loader already set for
// an extension.
func Loaders(extra map[string]api.Loader) BuildPatch {
	return BuildPatch{
		Name:   "loaders",
		Writes: []Section{SectionLoaders},
		Apply: func(o *api.BuildOptions) error {
			if o.Loader == nil {
				o.Loader = map[string]api.Loader{}
			}
			all := maps.Clone(defaultAssetLoaders)
			maps.Copy(all, extra)
			for ext, l := range all {
				if _, set := o.Loader[ext]; !set {
					o.Loader[ext] = l
				}
			}
			return nil
		},
	}
}

// Output hashing modes.
const (
	HashNone    = "none"
	HashAll     = "all"
	HashMedia   = "media"
	HashBundles = "bundles"
)

// OutputHashing sets output file names for the hashing mode. Media hashing
// applies to files emitted by file loaders, so it reads the loader section
// and must run after Loaders.
func OutputHashing(mode string) BuildPatch {
	return BuildPatch{
		Name:   "output-hashing",
		Reads:  []Section{SectionLoaders},
		Writes: []Section{SectionOutput},
		Apply: func(o *api.BuildOptions) error {
			if mode == "" {
				mode = HashNone
			}
			if !slices.Contains([]string{HashNone, HashAll, HashMedia, HashBundles}, mode) {
				return fmt.Errorf("%w: outputHashing %q", ErrInvalidOption, mode)
			}
			hashBundles := mode == HashAll || mode == HashBundles
			hashMedia := (mode == HashAll || mode == HashMedia) && hasFileLoader(o.Loader)

			o.EntryNames = "[dir]/[name]"
			o.ChunkNames = "chunks/[name]"
			o.AssetNames = "assets/[name]"
			if hashBundles {
				o.EntryNames += ".[hash]"
				o.ChunkNames += ".[hash]"
			}
			if hashMedia {
				o.AssetNames += ".[hash]"
			}
			return nil
		},
	}
}

func hasFileLoader(loaders map[string]api.Loader) bool {
	for _, l := range loaders {
		if l == api.LoaderFile {
			return true
		}
	}
	return false
}

// Define sets compile-time replacements: NODE_ENV from mode, the Vue
// feature flags, VUE_APP_* variables from env, and user defines (raw JS
// expressions) last so they win.
func Define(mode string, env []string, user map[string]string) BuildPatch {
	return BuildPatch{
		Name:   "define",
		Writes: []Section{SectionDefine},
		Apply: func(o *api.BuildOptions) error {
			if o.Define == nil {
				o.Define = map[string]string{}
			}
			if mode == "" {
				mode = "development"
			}
			o.Define["process.env.NODE_ENV"] = jsString(mode)
			o.Define["__VUE_OPTIONS_API__"] = "true"
			o.Define["__VUE_PROD_DEVTOOLS__"] = "false"
			for _, kv := range env {
				k, v, ok := strings.Cut(kv, "=")
				if ok && strings.HasPrefix(k, "VUE_APP_") {
					o.Define["process.env."+k] = jsString(v)
				}
			}
			maps.Copy(o.Define, user)
			return nil
		},
	}
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// VueAlias resolves "vue" to the full build that includes the runtime
// template compiler, so components may declare string templates.
func VueAlias(vueVersion int) BuildPatch {
	return BuildPatch{
		Name:   "vue-alias",
		Writes: []Section{SectionResolve},
		Apply: func(o *api.BuildOptions) error {
			if o.Alias == nil {
				o.Alias = map[string]string{}
			}
			if vueVersion == 2 {
				o.Alias["vue"] = "vue/dist/vue.esm.js"
			} else {
				o.Alias["vue"] = "vue/dist/vue.esm-bundler.js"
			}
			return nil
		},
	}
}

// Optimization sets minification and source maps.
func Optimization(minify, sourceMap bool) BuildPatch {
	return BuildPatch{
		Name:   "optimization",
		Writes: []Section{SectionOptimization},
		Apply: func(o *api.BuildOptions) error {
			o.MinifyWhitespace = minify
			o.MinifyIdentifiers = minify
			o.MinifySyntax = minify
			if sourceMap {
				o.Sourcemap = api.SourceMapLinked
			} else {
				o.Sourcemap = api.SourceMapNone
			}
			return nil
		},
	}
}

// AssetPattern is one entry of a target's "assets" option. A plain string
// entry copies that file or directory into the output root.
type AssetPattern struct {
	Glob   string   `json:"glob"`
	Input  string   `json:"input"`
	Output string   `json:"output"`
	Ignore []string `json:"ignore,omitempty"`
}

// ParseAssets normalizes an "assets" option value. String entries become
// patterns copying the named path into the output root.
func ParseAssets(v any) ([]AssetPattern, error) {
	items, ok := v.([]any)
	if !ok && v != nil {
		return nil, fmt.Errorf("%w: assets must be a list", ErrInvalidOption)
	}
	var out []AssetPattern
	for _, item := range items {
		switch x := item.(type) {
		case string:
			out = append(out, AssetPattern{Input: path.Dir(x), Glob: path.Base(x), Output: "."})
		case map[string]any:
			p := AssetPattern{Output: "."}
			p.Glob, _ = x["glob"].(string)
			p.Input, _ = x["input"].(string)
			if o, ok := x["output"].(string); ok && o != "" {
				p.Output = o
			}
			if ign, ok := x["ignore"].([]any); ok {
				for _, i := range ign {
					if s, ok := i.(string); ok {
						p.Ignore = append(p.Ignore, s)
					}
				}
			}
			if p.Glob == "" || p.Input == "" {
				return nil, fmt.Errorf("%w: asset entry needs glob and input", ErrInvalidOption)
			}
			out = append(out, p)
		default:
			return nil, fmt.Errorf("%w: unsupported asset entry %v", ErrInvalidOption, item)
		}
	}
	return out, nil
}

// AssetCopy installs an esbuild plugin that copies asset patterns into
// outdir after every successful build. Inputs are relative to root.
func AssetCopy(root, outdir string, assets []AssetPattern) BuildPatch {
	return BuildPatch{
		Name:   "asset-copy",
		Reads:  []Section{SectionOutput},
		Writes: []Section{SectionPlugins},
		Apply: func(o *api.BuildOptions) error {
			if len(assets) == 0 {
				return nil
			}
			o.Plugins = append(o.Plugins, api.Plugin{
				Name: "nxplus-assets",
				Setup: func(build api.PluginBuild) {
					build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
						if len(result.Errors) > 0 {
							return api.OnEndResult{}, nil
						}
						if _, err := CopyAssets(root, outdir, assets); err != nil {
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

// CopyAssets copies every file matching the patterns and returns the
// destination paths.
func CopyAssets(root, outdir string, assets []AssetPattern) ([]string, error) {
	var copied []string
	for _, a := range assets {
		input := filepath.Join(root, filepath.FromSlash(a.Input))
		matches, err := doublestar.Glob(os.DirFS(input), a.Glob)
		if err != nil {
			return copied, fmt.Errorf("asset glob %q: %w", a.Glob, err)
		}
		for _, m := range matches {
			if ignored(m, a.Ignore) {
				continue
			}
			src := filepath.Join(input, filepath.FromSlash(m))
			info, err := os.Stat(src)
			if err != nil {
				return copied, err
			}
			if info.IsDir() {
				files, err := copyDir(src, filepath.Join(outdir, filepath.FromSlash(a.Output), filepath.FromSlash(m)), a.Ignore)
				copied = append(copied, files...)
				if err != nil {
					return copied, err
				}
				continue
			}
			dest := filepath.Join(outdir, filepath.FromSlash(a.Output), filepath.FromSlash(m))
			if err := copyFile(src, dest); err != nil {
				return copied, err
			}
			copied = append(copied, dest)
		}
	}
	return copied, nil
}

func copyDir(src, dest string, ignore []string) ([]string, error) {
	var copied []string
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if ignored(filepath.ToSlash(rel), ignore) {
			return nil
		}
		target := filepath.Join(dest, rel)
		if err := copyFile(p, target); err != nil {
			return err
		}
		copied = append(copied, target)
		return nil
	})
	return copied, err
}

func ignored(p string, patterns []string) bool {
	for _, ig := range patterns {
		if ok, _ := doublestar.Match(ig, p); ok {
			return true
		}
	}
	return false
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("copy asset: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("copy asset: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("copy asset: %w", err)
	}
	return nil
}

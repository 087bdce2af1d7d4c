package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

// Context is what a generator sees: the staged tree and the collaborators
// it may consult.
type Context struct {
	Tree   *workspace.Tree
	Logger *slog.Logger
	// Resolver looks up installed packages for peer checks.
	Resolver install.ModuleResolver
}

// Log returns the context logger, or a discarding logger when unset.
func (c *Context) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// WarnPeer logs a warning when an installed package does not satisfy the
// given range. Generation continues either way.
func (c *Context) WarnPeer(pkg, rangeExpr string) {
	if c.Resolver == nil {
		return
	}
	if w := install.CheckPeer(c.Resolver, pkg, rangeExpr); w != nil {
		c.Log().Warn("peer dependency mismatch", "package", w.Package, "range", w.Range, "installed", w.Installed, "reason", w.Reason)
	}
}

// Generator stages files and workspace changes for one invocation. The
// returned task installs any dependencies it added to package.json.
type Generator interface {
	Generate(ctx context.Context, opts models.Options, gctx *Context) (install.Task, error)
}

// Func adapts a plain function to the Generator interface.
type Func func(ctx context.Context, opts models.Options, gctx *Context) (install.Task, error)

// Generate implements Generator.
func (f Func) Generate(ctx context.Context, opts models.Options, gctx *Context) (install.Task, error) {
	return f(ctx, opts, gctx)
}

// Descriptor describes a registered generator.
type Descriptor struct {
	// ID is "<plugin>:<name>", e.g. "@nxplus/vue:application".
	ID          string
	Description string
	// Schema is a pointer to the zero value of the generator's option
	// struct.
	Schema    any
	Generator Generator
	// Aliases are alternative names accepted after the plugin prefix.
	Aliases []string
}

// Registry maps generator ids to generators.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
	aliases     map[string]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor), aliases: make(map[string]string)}
}

// Register adds a generator and its aliases. Ids and aliases share one
// namespace.
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(d.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateGenerator, d.ID)
	}
	plugin, _ := splitID(d.ID)
	for _, a := range d.Aliases {
		if r.taken(plugin + ":" + a) {
			return fmt.Errorf("%w: %s:%s", ErrDuplicateGenerator, plugin, a)
		}
	}
	r.descriptors[d.ID] = d
	for _, a := range d.Aliases {
		r.aliases[plugin+":"+a] = d.ID
	}
	return nil
}

func (r *Registry) taken(id string) bool {
	_, isID := r.descriptors[id]
	_, isAlias := r.aliases[id]
	return isID || isAlias
}

// Lookup returns the descriptor registered under id or one of its aliases.
func (r *Registry) Lookup(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[id]; ok {
		id = target
	}
	d, ok := r.descriptors[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownGenerator, id)
	}
	return d, nil
}

// IDs returns every registered id, sorted. Aliases are not included.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.descriptors))
}

// splitID splits "<plugin>:<name>" at the last colon.
func splitID(id string) (plugin, name string) {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == ':' {
			return id[:i], id[i+1:]
		}
	}
	return "", id
}

// Decode copies an option record into a typed option struct using its json
// tags, converting string values from the command line to the field type.
func Decode(opts models.Options, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("options decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	return nil
}

package vue

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor"
)

// DevServerOptions are the options of the dev-server executor. Build
// options come from BrowserTarget; only the keys in devServerOverrides may
// be set here as well.
type DevServerOptions struct {
	BrowserTarget string            `json:"browserTarget" jsonschema:"required,description=Target whose options the server builds with"`
	Port          int               `json:"port,omitempty" jsonschema:"default=8080,description=Port to listen on"`
	Host          string            `json:"host,omitempty" jsonschema:"default=localhost,description=Host to listen on"`
	Mode          string            `json:"mode,omitempty" jsonschema:"enum=development,enum=production,description=Overrides the build mode"`
	SourceMap     bool              `json:"sourceMap,omitempty" jsonschema:"description=Overrides the build source map setting"`
	Watch         bool              `json:"watch,omitempty" jsonschema:"description=Rebuild on file changes"`
	PublicPath    string            `json:"publicPath,omitempty" jsonschema:"description=Overrides the build public path"`
	Define        map[string]string `json:"define,omitempty" jsonschema:"description=Overrides the build defines"`
}

var devServerOverrides = []string{"mode", "sourceMap", "watch", "publicPath", "define"}

const (
	defaultPort = 8080
	defaultHost = "localhost"
)

func (v *Vue) devServer(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o DevServerOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	if o.Port == 0 {
		o.Port = defaultPort
	}
	if o.Host == "" {
		o.Host = defaultHost
	}
	if o.Port < 0 || o.Port > 65535 {
		return nil, fmt.Errorf("%w: port %d", bridge.ErrInvalidOption, o.Port)
	}

	buildOpts, err := executor.ResolveTargetOptions(ectx, o.BrowserTarget, opts, devServerOverrides)
	if err != nil {
		return nil, err
	}
	var b BrowserOptions
	if err := executor.Decode(buildOpts, &b); err != nil {
		return nil, err
	}
	projectRoot, err := ectx.ProjectRoot()
	if err != nil {
		return nil, err
	}
	if err := executor.RejectNativeConfig(projectRoot, nativeConfigs...); err != nil {
		return nil, err
	}
	bo, err := v.buildOptions(ectx, b)
	if err != nil {
		return nil, err
	}

	bctx, cerr := api.Context(bo)
	if cerr != nil {
		return executor.Completed(report(ectx, cerr.Errors, nil, b.OutputPath)), nil
	}
	if b.Watch {
		if err := bctx.Watch(api.WatchOptions{}); err != nil {
			bctx.Dispose()
			return nil, fmt.Errorf("watch: %w", err)
		}
	}
	srv, err := bctx.Serve(api.ServeOptions{
		Host:     o.Host,
		Port:     uint16(o.Port),
		Servedir: bo.Outdir,
	})
	if err != nil {
		bctx.Dispose()
		return nil, fmt.Errorf("serve: %w", err)
	}

	lt, runCtx := executor.NewLifetime(ctx, nil)
	url := serverURL(o.Host, int(srv.Port))
	ectx.Log().Info("dev server listening", "url", url)
	lt.Emit(executor.Result{Success: true, BaseURL: url})
	go func() {
		<-runCtx.Done()
		bctx.Dispose()
		lt.Finish()
	}()
	return lt, nil
}

// serverURL is the address printed for a listening server. Wildcard hosts
// are shown as localhost.
func serverURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = defaultHost
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
}

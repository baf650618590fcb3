package styles

import (
	"context"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// browserTargets are the engines stylesheet syntax is lowered for.
var browserTargets = []api.Engine{
	{Name: api.EngineChrome, Version: "80"},
	{Name: api.EngineEdge, Version: "80"},
	{Name: api.EngineFirefox, Version: "78"},
	{Name: api.EngineSafari, Version: "13"},
}

// Transpile lowers modern CSS syntax for browserTargets.
type Transpile struct{}

// Name implements Transform.
func (Transpile) Name() string { return "transpile" }

// Apply implements Transform.
func (Transpile) Apply(ctx context.Context, _ *domain.Config, asset domain.Asset) (domain.Asset, error) {
	return transform(ctx, asset, api.TransformOptions{
		Loader:     api.LoaderCSS,
		Engines:    browserTargets,
		Sourcefile: asset.Path,
		LogLevel:   api.LogLevelSilent,
	})
}

// Minify removes whitespace and shortens syntax where it is safe to do so.
type Minify struct{}

// Name implements Transform.
func (Minify) Name() string { return "minify" }

// Apply implements Transform.
func (Minify) Apply(ctx context.Context, _ *domain.Config, asset domain.Asset) (domain.Asset, error) {
	return transform(ctx, asset, api.TransformOptions{
		Loader:           api.LoaderCSS,
		Engines:          browserTargets,
		MinifyWhitespace: true,
		MinifySyntax:     true,
		Sourcefile:       asset.Path,
		LogLevel:         api.LogLevelSilent,
	})
}

func transform(ctx context.Context, asset domain.Asset, opts api.TransformOptions) (domain.Asset, error) {
	if err := ctx.Err(); err != nil {
		return asset, err
	}

	result := api.Transform(string(asset.Contents), opts)
	if len(result.Errors) > 0 {
		return asset, esbuildError(result.Errors[0])
	}

	asset.Contents = result.Code
	return asset, nil
}

func esbuildError(msg api.Message) error {
	err := zerr.New(msg.Text)
	if loc := msg.Location; loc != nil {
		err = zerr.With(err, "position", fmt.Sprintf("%d:%d", loc.Line, loc.Column))
	}
	return err
}

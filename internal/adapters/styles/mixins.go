package styles

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxMixinDepth bounds nested mixin expansion.
const maxMixinDepth = 32

// Mixins expands @mixin statements using @define-mixin definitions found in
// the stylesheet and in the configured mixins directory. Definitions are
// removed from the output.
//
//	@define-mixin icon $name, $size: 16px {
//	  .icon-$(name) { width: $size; @mixin-content; }
//	}
//	@mixin icon home, 24px;
type Mixins struct{}

// Name implements Transform.
func (Mixins) Name() string { return "mixins" }

type mixin struct {
	name     string
	params   []mixinParam
	children []*node
}

type mixinParam struct {
	name       string
	defaultVal string
}

// Apply implements Transform.
func (Mixins) Apply(ctx context.Context, cfg *domain.Config, asset domain.Asset) (domain.Asset, error) {
	nodes, err := parse(string(asset.Contents))
	if err != nil {
		return asset, err
	}

	defs := make(map[string]*mixin)
	if cfg != nil && cfg.Manifest.MixinsDir != "" {
		if err := loadMixinsDir(ctx, cfg.Manifest.MixinsDir, defs); err != nil {
			return asset, err
		}
	}

	nodes = collectMixins(nodes, defs)

	out, err := expandMixins(nodes, defs, 0)
	if err != nil {
		return asset, err
	}

	asset.Contents = []byte(render(out))
	return asset, nil
}

// loadMixinsDir reads definitions from every stylesheet below dir.
// A missing directory holds no definitions.
func loadMixinsDir(ctx context.Context, dir string, defs map[string]*mixin) error {
	if _, err := os.Stat(dir); err != nil {
		return nil
	}

	files, err := doublestar.FilepathGlob(filepath.Join(dir, "**", "*.css"), doublestar.WithFilesOnly())
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGlobFailed.Error()), "pattern", dir)
	}
	slices.Sort(files)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "file", file)
		}
		nodes, err := parse(string(data))
		if err != nil {
			return zerr.With(err, "file", file)
		}
		collectMixins(nodes, defs)
	}
	return nil
}

// collectMixins moves top-level definitions from nodes into defs.
// Later definitions replace earlier ones.
func collectMixins(nodes []*node, defs map[string]*mixin) []*node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n.kind != atRuleNode || n.name != "define-mixin" || !n.block {
			out = append(out, n)
			continue
		}
		m := parseMixinHead(n.params)
		if m.name == "" {
			continue
		}
		m.children = n.children
		defs[m.name] = m
	}
	return out
}

func parseMixinHead(params string) *mixin {
	params = strings.TrimSpace(params)
	name, rest, _ := strings.Cut(params, " ")
	m := &mixin{name: strings.TrimSpace(name)}
	for _, p := range splitTopLevel(rest, ',') {
		param, def, _ := strings.Cut(p, ":")
		m.params = append(m.params, mixinParam{
			name:       strings.TrimPrefix(strings.TrimSpace(param), "$"),
			defaultVal: strings.TrimSpace(def),
		})
	}
	return m
}

func expandMixins(nodes []*node, defs map[string]*mixin, depth int) ([]*node, error) {
	if depth > maxMixinDepth {
		return nil, domain.ErrMixinDepthExceeded
	}

	var out []*node
	for _, n := range nodes {
		if n.kind == atRuleNode && n.name == "mixin" {
			expanded, err := expandMixin(n, defs, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
			continue
		}

		if len(n.children) > 0 {
			children, err := expandMixins(n.children, defs, depth)
			if err != nil {
				return nil, err
			}
			c := *n
			c.children = children
			n = &c
		}
		out = append(out, n)
	}
	return out, nil
}

func expandMixin(call *node, defs map[string]*mixin, depth int) ([]*node, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(call.params), " ")
	def, ok := defs[name]
	if !ok {
		return nil, zerr.With(zerr.With(domain.ErrUndefinedMixin, "mixin", name), "line", call.line)
	}

	args := splitTopLevel(rest, ',')
	values := make(map[string]string, len(def.params))
	for i, p := range def.params {
		if i < len(args) {
			values[p.name] = args[i]
		} else {
			values[p.name] = p.defaultVal
		}
	}
	lookup := func(v string) (string, bool) {
		val, ok := values[v]
		return val, ok
	}

	body := bindParams(cloneNodes(def.children), lookup)
	body = fillContent(body, call.children)

	return expandMixins(body, defs, depth+1)
}

// bindParams substitutes mixin arguments. Other variables stay for the vars
// transform.
func bindParams(nodes []*node, lookup func(string) (string, bool)) []*node {
	for _, n := range nodes {
		n.prop, _ = substitute(n.prop, lookup)
		n.value, _ = substitute(n.value, lookup)
		n.selector, _ = substitute(n.selector, lookup)
		n.params, _ = substitute(n.params, lookup)
		bindParams(n.children, lookup)
	}
	return nodes
}

// fillContent replaces @mixin-content with the block passed to the call.
func fillContent(nodes []*node, content []*node) []*node {
	var out []*node
	for _, n := range nodes {
		if n.kind == atRuleNode && n.name == "mixin-content" {
			out = append(out, cloneNodes(content)...)
			continue
		}
		n.children = fillContent(n.children, content)
		out = append(out, n)
	}
	return out
}

package styles

import (
	"context"
	"strings"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// Vars resolves Sass-style variables. A declaration "$name: value" defines
// name for the rest of the document and is removed; $name and $(name) are
// replaced in values, selectors and at-rule params. Referencing a variable
// that is not yet defined is an error.
type Vars struct{}

// Name implements Transform.
func (Vars) Name() string { return "vars" }

// Apply implements Transform.
func (Vars) Apply(_ context.Context, _ *domain.Config, asset domain.Asset) (domain.Asset, error) {
	nodes, err := parse(string(asset.Contents))
	if err != nil {
		return asset, err
	}

	r := &varResolver{defs: make(map[string]string)}
	out, err := r.resolve(nodes)
	if err != nil {
		return asset, err
	}

	asset.Contents = []byte(render(out))
	return asset, nil
}

type varResolver struct {
	defs map[string]string
}

func (r *varResolver) lookup(name string) (string, bool) {
	v, ok := r.defs[name]
	return v, ok
}

func (r *varResolver) resolve(nodes []*node) ([]*node, error) {
	var out []*node
	for _, n := range nodes {
		if n.kind == declNode && strings.HasPrefix(n.prop, "$") {
			value, err := r.replace(n.value, n.line)
			if err != nil {
				return nil, err
			}
			r.defs[strings.TrimPrefix(n.prop, "$")] = value
			continue
		}

		c := *n
		var err error
		if c.prop, err = r.replace(c.prop, c.line); err != nil {
			return nil, err
		}
		if c.value, err = r.replace(c.value, c.line); err != nil {
			return nil, err
		}
		if c.selector, err = r.replace(c.selector, c.line); err != nil {
			return nil, err
		}
		if c.params, err = r.replace(c.params, c.line); err != nil {
			return nil, err
		}
		if len(c.children) > 0 {
			if c.children, err = r.resolve(c.children); err != nil {
				return nil, err
			}
		}
		out = append(out, &c)
	}
	return out, nil
}

func (r *varResolver) replace(s string, line int) (string, error) {
	out, missing := substitute(s, r.lookup)
	if len(missing) > 0 {
		return "", zerr.With(zerr.With(domain.ErrUndefinedVariable, "variable", missing[0]), "line", line)
	}
	return out, nil
}

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

// Imports inlines local @import statements. Targets are resolved against the
// importing file's directory and may be globs; matches are inlined in lexical
// order. A file is inlined at most once per asset. Remote imports are kept.
type Imports struct{}

// Name implements Transform.
func (Imports) Name() string { return "imports" }

// Apply implements Transform.
func (Imports) Apply(ctx context.Context, _ *domain.Config, asset domain.Asset) (domain.Asset, error) {
	nodes, err := parse(string(asset.Contents))
	if err != nil {
		return asset, err
	}

	abs, err := filepath.Abs(asset.Abs)
	if err != nil {
		return asset, zerr.Wrap(err, domain.ErrFileReadFailed.Error())
	}

	in := &inliner{
		ctx:  ctx,
		seen: map[string]struct{}{abs: {}},
	}
	out, err := in.inline(nodes, filepath.Dir(abs), []string{abs})
	if err != nil {
		return asset, err
	}

	asset.Contents = []byte(render(out))
	return asset, nil
}

type inliner struct {
	ctx  context.Context
	seen map[string]struct{}
}

func (in *inliner) inline(nodes []*node, dir string, stack []string) ([]*node, error) {
	var out []*node
	for _, n := range nodes {
		if n.kind != atRuleNode || n.name != "import" || n.block {
			out = append(out, n)
			continue
		}

		target, media := importTarget(n.params)
		if target == "" || isRemote(target) {
			out = append(out, n)
			continue
		}

		if err := in.ctx.Err(); err != nil {
			return nil, err
		}

		files, err := resolveImport(dir, target)
		if err != nil {
			return nil, zerr.With(err, "line", n.line)
		}

		var inlined []*node
		for _, file := range files {
			if i := slices.Index(stack, file); i >= 0 {
				cycle := append(slices.Clone(stack[i:]), file)
				return nil, zerr.With(domain.ErrImportCycle, "cycle", strings.Join(cycle, " -> "))
			}
			if _, done := in.seen[file]; done {
				continue
			}
			in.seen[file] = struct{}{}

			data, err := os.ReadFile(file)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "file", file)
			}
			children, err := parse(string(data))
			if err != nil {
				return nil, zerr.With(err, "file", file)
			}
			children, err = in.inline(children, filepath.Dir(file), append(slices.Clip(stack), file))
			if err != nil {
				return nil, err
			}
			inlined = append(inlined, children...)
		}

		if media != "" && len(inlined) > 0 {
			out = append(out, &node{kind: atRuleNode, name: "media", params: media, block: true, children: inlined, line: n.line})
			continue
		}
		out = append(out, inlined...)
	}
	return out, nil
}

// importTarget extracts the imported path and the trailing media query from
// the params of an @import.
func importTarget(params string) (target, media string) {
	params = strings.TrimSpace(params)
	switch {
	case strings.HasPrefix(params, "url("):
		end := strings.IndexByte(params, ')')
		if end < 0 {
			return "", ""
		}
		target = unquote(strings.TrimSpace(params[len("url("):end]))
		media = strings.TrimSpace(params[end+1:])
	case strings.HasPrefix(params, `"`) || strings.HasPrefix(params, "'"):
		end := strings.IndexByte(params[1:], params[0])
		if end < 0 {
			return "", ""
		}
		target = params[1 : end+1]
		media = strings.TrimSpace(params[end+2:])
	default:
		return "", ""
	}
	return target, media
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func isRemote(target string) bool {
	return strings.HasPrefix(target, "//") ||
		strings.Contains(target, "://") ||
		strings.HasPrefix(target, "data:")
}

// resolveImport returns the absolute files target names, sorted. A target
// without an extension also matches the same name with ".css" appended.
func resolveImport(dir, target string) ([]string, error) {
	pattern := target
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(dir, filepath.FromSlash(target))
	}

	candidates := []string{pattern}
	if filepath.Ext(pattern) == "" {
		candidates = append(candidates, pattern+".css")
	}

	for _, candidate := range candidates {
		matches, err := doublestar.FilepathGlob(candidate, doublestar.WithFilesOnly())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrGlobFailed.Error()), "pattern", target)
		}
		if len(matches) > 0 {
			slices.Sort(matches)
			return matches, nil
		}
	}

	return nil, zerr.With(domain.ErrImportNotFound, "import", target)
}

package fs

import (
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface with doublestar globs.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs expands patterns relative to root. Matches keep pattern order
// and are sorted within a pattern. A file matched by several patterns is
// returned once, at its first position. Patterns matching nothing are not an
// error; callers decide whether an empty result is.
func (r *Resolver) ResolveInputs(patterns []string, root string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var result []string

	for _, pattern := range patterns {
		clean := normalizePattern(pattern)

		matches, err := doublestar.Glob(fsys, clean, doublestar.WithFilesOnly())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrGlobFailed.Error()), "pattern", pattern)
		}
		slices.Sort(matches)

		for _, match := range matches {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			result = append(result, match)
		}
	}

	return result, nil
}

// normalizePattern turns a manifest glob into an io/fs pattern.
func normalizePattern(pattern string) string {
	p := strings.ReplaceAll(pattern, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return path.Clean(p)
}

// Match reports whether name matches any of patterns. Invalid patterns never match.
func Match(patterns []string, name string) bool {
	name = strings.ReplaceAll(name, "\\", "/")
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(normalizePattern(pattern), name); err == nil && ok {
			return true
		}
	}
	return false
}

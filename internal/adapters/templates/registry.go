package templates

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TemplateCompiler = (*Registry)(nil)

// Registry dispatches to a compiler by file extension.
type Registry struct {
	byExt map[string]ports.TemplateCompiler
}

// NewRegistry registers compilers in order. A later compiler claiming an
// extension replaces the earlier one.
func NewRegistry(compilers ...ports.TemplateCompiler) *Registry {
	r := &Registry{byExt: make(map[string]ports.TemplateCompiler)}
	for _, c := range compilers {
		for _, ext := range c.Extensions() {
			r.byExt[strings.ToLower(ext)] = c
		}
	}
	return r
}

// NewDefaultRegistry registers the Pug, Markdown and HTML compilers.
func NewDefaultRegistry() *Registry {
	return NewRegistry(NewPug(), NewMarkdown(), NewHTML())
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	return slices.Sorted(maps.Keys(r.byExt))
}

// Supports reports whether a compiler handles name.
func (r *Registry) Supports(name string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Compile implements ports.TemplateCompiler.
func (r *Registry) Compile(name string, src []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(name))
	c, ok := r.byExt[ext]
	if !ok {
		return nil, zerr.With(domain.ErrNoCompiler, "extension", ext)
	}
	return c.Compile(name, src)
}

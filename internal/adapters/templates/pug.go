// Package templates provides the template compilers, selected by file extension.
package templates

import (
	"github.com/Joker/jade"
	"go.trai.ch/assetpipe/internal/core/ports"
)

var _ ports.TemplateCompiler = (*Pug)(nil)

// Pug compiles Pug (formerly Jade) templates to html/template markup.
// Includes and extends resolve relative to the template's own path.
type Pug struct{}

// NewPug creates a Pug compiler.
func NewPug() *Pug {
	return &Pug{}
}

// Extensions implements ports.TemplateCompiler.
func (p *Pug) Extensions() []string {
	return []string{".pug", ".jade"}
}

// Compile implements ports.TemplateCompiler. name must be the source path.
func (p *Pug) Compile(name string, src []byte) ([]byte, error) {
	out, err := jade.Parse(name, src)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

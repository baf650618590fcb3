package templates

import (
	"slices"

	"go.trai.ch/assetpipe/internal/core/ports"
)

var _ ports.TemplateCompiler = (*HTML)(nil)

// HTML passes markup through unchanged.
type HTML struct{}

// NewHTML creates a pass-through compiler.
func NewHTML() *HTML {
	return &HTML{}
}

// Extensions implements ports.TemplateCompiler.
func (h *HTML) Extensions() []string {
	return []string{".html", ".htm"}
}

// Compile implements ports.TemplateCompiler.
func (h *HTML) Compile(_ string, src []byte) ([]byte, error) {
	return slices.Clone(src), nil
}

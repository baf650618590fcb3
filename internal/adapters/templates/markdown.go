package templates

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.trai.ch/assetpipe/internal/core/ports"
)

var _ ports.TemplateCompiler = (*Markdown)(nil)

// Markdown converts Markdown documents to HTML with GitHub flavoured
// extensions. Raw HTML in the source is kept.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a Markdown compiler.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

// Extensions implements ports.TemplateCompiler.
func (m *Markdown) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Compile implements ports.TemplateCompiler.
func (m *Markdown) Compile(_ string, src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

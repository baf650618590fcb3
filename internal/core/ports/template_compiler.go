package ports

// TemplateCompiler converts one template source into HTML.
//
//go:generate mockgen -source=template_compiler.go -destination=mocks/mock_template_compiler.go -package=mocks
type TemplateCompiler interface {
	// Extensions lists the file extensions handled, including the dot.
	Extensions() []string
	// Compile converts src, read from the file called name, into HTML.
	Compile(name string, src []byte) ([]byte, error)
}

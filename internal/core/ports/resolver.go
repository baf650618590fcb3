package ports

// InputResolver defines the interface for resolving input files.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs expands glob patterns against root. Files are returned
	// relative to root with forward slashes, in pattern order and lexical order
	// within a pattern, without duplicates.
	ResolveInputs(patterns []string, root string) ([]string, error)
}

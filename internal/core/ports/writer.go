package ports

// OutputWriter writes files only when their content changes.
//
//go:generate mockgen -source=writer.go -destination=mocks/mock_writer.go -package=mocks
type OutputWriter interface {
	// WriteIfChanged writes data to path unless the file already holds the same
	// content. It reports whether a write happened.
	WriteIfChanged(path string, data []byte) (bool, error)
}

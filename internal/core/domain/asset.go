package domain

// Asset is a source file travelling through a transform chain.
type Asset struct {
	// Path is the source path relative to the source root, with forward slashes.
	Path string
	// Abs is the absolute path on disk. Transforms resolve relative
	// references against its directory.
	Abs      string
	Contents []byte
}

// OutputFile is a built file ready to be committed to the dist tree.
type OutputFile struct {
	// Name is the final filename, revisioned when enabled.
	Name string
	// Logical is the unrevisioned filename recorded in the revision manifest.
	Logical  string
	Contents []byte
	// Revisioned is set when Name carries a content hash.
	Revisioned bool
}

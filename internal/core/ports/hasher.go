package ports

// Hasher defines the interface for computing content digests.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashBytes returns the hex digest of data.
	HashBytes(data []byte) string
	// HashFile returns the hex digest of the file at path.
	HashFile(path string) (string, error)
}

package watcher

import (
	"errors"
	"io/fs"
	"sync"
	"unique"

	"go.trai.ch/assetpipe/internal/core/ports"
)

// ContentFilter drops change events for files whose content did not change.
// Editors often save identical bytes or touch files; those must not trigger rebuilds.
type ContentFilter struct {
	mu     sync.Mutex
	hashes map[unique.Handle[string]]string
	hasher ports.Hasher
}

// NewContentFilter creates a filter backed by hasher.
func NewContentFilter(hasher ports.Hasher) *ContentFilter {
	return &ContentFilter{
		hashes: make(map[unique.Handle[string]]string),
		hasher: hasher,
	}
}

// Prime records the current content hash of paths without reporting them.
func (f *ContentFilter) Prime(paths []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range paths {
		if hash, err := f.hasher.HashFile(p); err == nil {
			f.hashes[unique.Make(p)] = hash
		}
	}
}

// Changed returns the paths whose content differs from the last observation,
// in input order. Removed files are changed once. Unreadable paths, such as
// directories, are passed through.
func (f *ContentFilter) Changed(paths []string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var changed []string
	for _, p := range paths {
		key := unique.Make(p)
		prev, known := f.hashes[key]

		hash, err := f.hasher.HashFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				if known {
					delete(f.hashes, key)
					changed = append(changed, p)
				}
				continue
			}
			changed = append(changed, p)
			continue
		}

		if known && prev == hash {
			continue
		}
		f.hashes[key] = hash
		changed = append(changed, p)
	}
	return changed
}

package domain

import (
	"maps"
	"path"
	"strings"
)

// RevisionManifest maps unrevisioned output paths to their revisioned names.
// Keys and values are relative to the dist root and use forward slashes.
type RevisionManifest map[string]string

// Merge returns the key-wise union of m and update. Entries in update win.
// Neither input is modified.
func (m RevisionManifest) Merge(update RevisionManifest) RevisionManifest {
	out := make(RevisionManifest, len(m)+len(update))
	maps.Copy(out, m)
	maps.Copy(out, update)
	return out
}

// Resolve returns the revisioned name for p, or p itself when unknown.
func (m RevisionManifest) Resolve(p string) string {
	if r, ok := m[p]; ok {
		return r
	}
	return p
}

// RevisionLength is the number of hash characters appended to revisioned names.
const RevisionLength = 10

// RevisionedName inserts the hash before the extension: main.css -> main-<hash>.css.
func RevisionedName(name, hash string) string {
	if len(hash) > RevisionLength {
		hash = hash[:RevisionLength]
	}
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + hash + ext
}

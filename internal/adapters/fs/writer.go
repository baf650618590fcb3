package fs

import (
	"bytes"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutputWriter = (*ChangedWriter)(nil)

// ChangedWriter writes a file only when its digest differs from the file
// already on disk.
type ChangedWriter struct {
	hasher ports.Hasher
}

// NewChangedWriter creates a ChangedWriter comparing contents with hasher.
func NewChangedWriter(hasher ports.Hasher) *ChangedWriter {
	return &ChangedWriter{hasher: hasher}
}

// WriteIfChanged writes data to path unless the destination holds identical
// content. Parent directories are created as needed.
func (w *ChangedWriter) WriteIfChanged(path string, data []byte) (bool, error) {
	existing, err := w.hasher.HashFile(path)
	switch {
	case err == nil:
		if existing == w.hasher.HashBytes(data) {
			return false, nil
		}
	case !errors.Is(err, iofs.ErrNotExist):
		return false, err
	}

	if err := WriteFile(path, data); err != nil {
		return false, err
	}
	return true, nil
}

// WriteFile writes data to path through a temporary sibling and a rename so
// readers never observe a partial file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	tmpName := tmp.Name()

	_, writeErr := bytes.NewReader(data).WriteTo(tmp)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return nil
}

package watcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/adapters/watcher"
	"go.trai.ch/assetpipe/internal/core/domain"
)

func TestContentFilter_Changed(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.css")
	other := filepath.Join(dir, "other.css")
	require.NoError(t, os.WriteFile(main, []byte("a { color: red }"), domain.FilePerm))
	require.NoError(t, os.WriteFile(other, []byte("b {}"), domain.FilePerm))

	filter := watcher.NewContentFilter(fs.NewHasher())
	filter.Prime([]string{main, other})

	t.Run("identical save is dropped", func(t *testing.T) {
		require.NoError(t, os.WriteFile(main, []byte("a { color: red }"), domain.FilePerm))
		assert.Empty(t, filter.Changed([]string{main}))
	})

	t.Run("edit is reported once", func(t *testing.T) {
		require.NoError(t, os.WriteFile(main, []byte("a { color: blue }"), domain.FilePerm))
		assert.Equal(t, []string{main}, filter.Changed([]string{main, other}))
		assert.Empty(t, filter.Changed([]string{main}))
	})

	t.Run("new file is reported", func(t *testing.T) {
		added := filepath.Join(dir, "added.css")
		require.NoError(t, os.WriteFile(added, []byte("c {}"), domain.FilePerm))
		assert.Equal(t, []string{added}, filter.Changed([]string{added}))
	})

	t.Run("removal is reported once", func(t *testing.T) {
		require.NoError(t, os.Remove(other))
		assert.Equal(t, []string{other}, filter.Changed([]string{other}))
		assert.Empty(t, filter.Changed([]string{other}))
	})

	t.Run("directories pass through", func(t *testing.T) {
		sub := filepath.Join(dir, "partials")
		require.NoError(t, os.Mkdir(sub, domain.DirPerm))
		assert.Equal(t, []string{sub}, filter.Changed([]string{sub}))
	})
}

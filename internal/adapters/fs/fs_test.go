package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/fs"
	"go.trai.ch/assetpipe/internal/core/domain"
)

func mustWrite(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestHasher(t *testing.T) {
	tmpDir := t.TempDir()
	file := mustWrite(t, tmpDir, "a.css", "body{}")

	hasher := fs.NewHasher()

	fromFile, err := hasher.HashFile(file)
	require.NoError(t, err)
	assert.Len(t, fromFile, 16)
	assert.Equal(t, hasher.HashBytes([]byte("body{}")), fromFile)
	assert.NotEqual(t, hasher.HashBytes([]byte("body{ }")), fromFile)

	_, err = hasher.HashFile(filepath.Join(tmpDir, "missing.css"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, domain.ErrFileHashFailed.Error())
}

func TestHasher_Golden(t *testing.T) {
	// xxhash64 of the empty input.
	assert.Equal(t, "ef46db3751d8e999", fs.NewHasher().HashBytes(nil))
}

func TestResolver_ResolveInputs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mustWrite(t, root, "styles/main.css", "")
	mustWrite(t, root, "styles/b.css", "")
	mustWrite(t, root, "styles/a.css", "")
	mustWrite(t, root, "styles/components/button.css", "")
	mustWrite(t, root, "vendor/lib.css", "")

	resolver := fs.NewResolver()

	t.Run("pattern order then lexical", func(t *testing.T) {
		t.Parallel()
		got, err := resolver.ResolveInputs([]string{"vendor/*.css", "styles/*.css"}, root)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"vendor/lib.css",
			"styles/a.css",
			"styles/b.css",
			"styles/main.css",
		}, got)
	})

	t.Run("deduplication keeps first position", func(t *testing.T) {
		t.Parallel()
		got, err := resolver.ResolveInputs([]string{"styles/main.css", "styles/**/*.css"}, root)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"styles/main.css",
			"styles/a.css",
			"styles/b.css",
			"styles/components/button.css",
		}, got)
	})

	t.Run("leading dot slash", func(t *testing.T) {
		t.Parallel()
		got, err := resolver.ResolveInputs([]string{"./vendor/lib.css"}, root)
		require.NoError(t, err)
		assert.Equal(t, []string{"vendor/lib.css"}, got)
	})

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()
		got, err := resolver.ResolveInputs([]string{"*.scss"}, root)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("bad pattern", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.ResolveInputs([]string{"styles/[.css"}, root)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrGlobFailed.Error())
	})
}

func TestMatch(t *testing.T) {
	patterns := []string{domain.DefaultReloadMatch}

	assert.True(t, fs.Match(patterns, "styles/main.css"))
	assert.True(t, fs.Match(patterns, "main.js"))
	assert.False(t, fs.Match(patterns, "styles/main.css.map"))
	assert.False(t, fs.Match(patterns, "index.html"))
	assert.False(t, fs.Match([]string{"[bad"}, "x"))
}

func TestChangedWriter(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "layouts", "partials", "head.html")
	writer := fs.NewChangedWriter(fs.NewHasher())

	written, err := writer.WriteIfChanged(target, []byte("<head></head>"))
	require.NoError(t, err)
	assert.True(t, written, "missing destination is written")

	info, err := os.Stat(target)
	require.NoError(t, err)
	mtime := info.ModTime()

	written, err = writer.WriteIfChanged(target, []byte("<head></head>"))
	require.NoError(t, err)
	assert.False(t, written, "identical content is skipped")

	info, err = os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, mtime, info.ModTime())

	written, err = writer.WriteIfChanged(target, []byte("<head><title>x</title></head>"))
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "<head><title>x</title></head>", string(data))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	mustWrite(t, tmpDir, "index.html", "")
	mustWrite(t, tmpDir, "partials/head.html", "")
	mustWrite(t, tmpDir, ".git/config", "")
	mustWrite(t, tmpDir, "node_modules/x/index.js", "")
	mustWrite(t, tmpDir, "notes.tmp", "")

	var files []string
	for path := range fs.NewWalker().WalkFiles(tmpDir, []string{"*.tmp"}) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files = append(files, filepath.ToSlash(rel))
	}

	assert.ElementsMatch(t, []string{"index.html", "partials/head.html"}, files)
}

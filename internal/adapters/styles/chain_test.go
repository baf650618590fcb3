package styles_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/styles"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestChain_Default(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"_colors.css": "$accent: red;\n",
	})

	src := []byte(`@import "_colors.css";
.card {
  color: $accent;
  .title { margin: 0; }
}
`)
	asset := domain.Asset{Path: "styles/main.css", Abs: filepath.Join(dir, "main.css"), Contents: src}

	chain := styles.NewChain(styles.DefaultTransforms()...)
	out, err := chain.Process(context.Background(), &domain.Config{}, asset)
	require.NoError(t, err)

	css := string(out.Contents)
	assert.Contains(t, css, ".card{color:red}")
	assert.Contains(t, css, ".card .title{margin:0}")
	assert.NotContains(t, css, "$accent")
	assert.Equal(t, src, asset.Contents, "input asset is not modified")
}

func TestChain_ErrorMetadata(t *testing.T) {
	chain := styles.NewChain(styles.Nesting{}, styles.Vars{})

	_, err := chain.Process(context.Background(), &domain.Config{}, domain.Asset{
		Path:     "styles/main.css",
		Contents: []byte(".a { color: $missing; }"),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStyleTransformFailed.Error())
	assert.ErrorContains(t, err, domain.ErrUndefinedVariable.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "vars", zErr.Metadata()["plugin"])
	assert.Equal(t, "styles/main.css", zErr.Metadata()["file"])
}

func TestChain_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := styles.NewChain(styles.Vars{}).Process(ctx, nil, domain.Asset{Contents: []byte("a{}")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestTranspile(t *testing.T) {
	out, err := apply(t, styles.Transpile{}, nil, domain.Asset{Path: "a.css", Contents: []byte(".a { color: red }")})
	require.NoError(t, err)
	assert.Contains(t, out, "color: red")
}

func TestMapBuilder(t *testing.T) {
	b := styles.NewMapBuilder("main-0123456789.css", domain.DefaultMapSourceRoot)
	b.Add("styles/a.css", []byte("a{}"), []byte(".a{}"))
	b.Add("styles/b.css", []byte("b\n"), []byte(".b{}\n.c{}"))

	m := b.Build()
	assert.Equal(t, 3, m.Version)
	assert.Equal(t, "AAAA;ACAA;AAAA", m.Mappings)

	data, err := b.JSON()
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "sourcemap", data)
}

func TestMappingURLComment(t *testing.T) {
	assert.Equal(t, "/*# sourceMappingURL=main.css.map */", styles.MappingURLComment("main.css.map"))
}

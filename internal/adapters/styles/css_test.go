package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestParseRender(t *testing.T) {
	src := `/* header */
.a { color: red; /* note */ .b { margin: 0 } }
@charset "utf-8";
@media (min-width: 10px) { .c { background: url(data:image/png;base64,AAA=) } }
`
	nodes, err := parse(src)
	require.NoError(t, err)

	want := `.a {
  color: red;
  .b {
    margin: 0;
  }
}
@charset "utf-8";
@media (min-width: 10px) {
  .c {
    background: url(data:image/png;base64,AAA=);
  }
}
`
	assert.Equal(t, want, render(nodes))
}

func TestParse_Unbalanced(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		reason string
		line   int
	}{
		{name: "missing close", src: ".a {\n  color: red;\n", reason: "missing '}'", line: 1},
		{name: "extra close", src: ".a { }\n}\n", reason: "unexpected '}'", line: 2},
		{name: "open comment", src: ".a { } /* oops", reason: "unterminated comment", line: 1},
		{name: "open string", src: "\n.a { content: \"x; }\n", reason: "unterminated string", line: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.src)
			require.Error(t, err)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Equal(t, domain.ErrUnbalancedBlock.Error(), zErr.Message())
			assert.Equal(t, tt.reason, zErr.Metadata()["reason"])
			assert.Equal(t, tt.line, zErr.Metadata()["line"])
		})
	}
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t,
		[]string{".a", `[data-x="1,2"]`, ":is(.b, .c)"},
		splitTopLevel(`.a, [data-x="1,2"], :is(.b, .c),`, ','))
	assert.Nil(t, splitTopLevel("  ", ','))
}

func TestSubstitute(t *testing.T) {
	vars := map[string]string{"a": "1px", "b-c": "red"}
	lookup := func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}

	out, missing := substitute(`$a $(b-c) "$a" $ $x`, lookup)
	assert.Equal(t, `1px red "$a" $ $x`, out)
	assert.Equal(t, []string{"x"}, missing)
}

func TestWriteVLQ(t *testing.T) {
	for v, want := range map[int]string{0: "A", 1: "C", -1: "D", 15: "e", 16: "gB", -16: "hB", 123: "2H"} {
		var sb strings.Builder
		writeVLQ(&sb, v)
		assert.Equal(t, want, sb.String(), "value %d", v)
	}
}

package styles

import (
	"encoding/json"
	"strings"
)

// SourceMap is a version 3 source map.
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	SourceRoot     string   `json:"sourceRoot"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// MapBuilder records which source produced each line of a concatenated
// bundle. Mappings are file-granular: every generated line points at the
// start of its source.
type MapBuilder struct {
	file       string
	sourceRoot string
	sources    []string
	contents   []string
	lines      []int
}

// NewMapBuilder creates a builder for the bundle file.
func NewMapBuilder(file, sourceRoot string) *MapBuilder {
	return &MapBuilder{file: file, sourceRoot: sourceRoot}
}

// Add appends the output generated from source. Chunks are assumed to be
// joined with a single newline.
func (b *MapBuilder) Add(source string, content, generated []byte) {
	idx := len(b.sources)
	b.sources = append(b.sources, source)
	b.contents = append(b.contents, string(content))

	for range strings.Count(string(generated), "\n") + 1 {
		b.lines = append(b.lines, idx)
	}
}

// Build returns the source map.
func (b *MapBuilder) Build() *SourceMap {
	return &SourceMap{
		Version:        3,
		File:           b.file,
		SourceRoot:     b.sourceRoot,
		Sources:        append([]string{}, b.sources...),
		SourcesContent: append([]string{}, b.contents...),
		Names:          []string{},
		Mappings:       b.mappings(),
	}
}

// JSON encodes the map.
func (b *MapBuilder) JSON() ([]byte, error) {
	return json.Marshal(b.Build())
}

func (b *MapBuilder) mappings() string {
	var sb strings.Builder
	prev := 0
	for i, src := range b.lines {
		if i > 0 {
			sb.WriteByte(';')
		}
		// generated column, source index, source line, source column
		writeVLQ(&sb, 0)
		writeVLQ(&sb, src-prev)
		writeVLQ(&sb, 0)
		writeVLQ(&sb, 0)
		prev = src
	}
	return sb.String()
}

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ appends v as a base64 VLQ.
func writeVLQ(sb *strings.Builder, v int) {
	u := v << 1
	if v < 0 {
		u = (-v << 1) | 1
	}
	for {
		digit := u & 0x1f
		u >>= 5
		if u > 0 {
			digit |= 0x20
		}
		sb.WriteByte(base64Digits[digit])
		if u == 0 {
			return
		}
	}
}

// MappingURLComment returns the trailer linking a stylesheet to its map.
func MappingURLComment(mapName string) string {
	return "/*# sourceMappingURL=" + mapName + " */"
}

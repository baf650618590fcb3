package wiredep

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
)

const (
	injectCSS = "inject:css"
	injectJS  = "inject:js"
	endInject = "endinject"
)

var errUnterminatedBlock = zerr.New("inject block has no endinject comment")

// resolver maps a dist-relative path to the URL written into HTML.
type resolver func(rel string) string

// rewrite returns doc with vendor references pointed at local files and
// inject blocks refilled. Bytes outside rewritten tags and blocks are kept.
func rewrite(doc []byte, vendor []domain.VendorDependency, url resolver) ([]byte, error) {
	z := html.NewTokenizer(bytes.NewReader(doc))
	var out bytes.Buffer
	var block string

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, z.Err()
		}
		raw := z.Raw()

		if tt == html.CommentToken {
			text := strings.TrimSpace(string(z.Text()))
			switch {
			case block == "" && (text == injectCSS || text == injectJS):
				block = text
				out.Write(raw)
				out.WriteByte('\n')
				writeInjected(&out, text, vendor, url)
				continue
			case block != "" && text == endInject:
				block = ""
				out.Write(raw)
				continue
			}
		}

		if block != "" {
			continue
		}

		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			// TagName and TagAttr lower-case the token buffer in place.
			out.Write(rewriteTag(z, bytes.Clone(raw), vendor, url))
			continue
		}
		out.Write(raw)
	}

	if block != "" {
		return nil, zerr.With(errUnterminatedBlock, "block", block)
	}
	return out.Bytes(), nil
}

// rewriteTag swaps a remote link href or script src for its local file.
func rewriteTag(z *html.Tokenizer, raw []byte, vendor []domain.VendorDependency, url resolver) []byte {
	name, hasAttr := z.TagName()
	var attr string
	switch string(name) {
	case "link":
		attr = "href"
	case "script":
		attr = "src"
	default:
		return raw
	}

	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) != attr {
			continue
		}

		local := localFor(string(val), attr, vendor)
		if local == "" {
			return raw
		}
		target := url(local)
		if target == string(val) {
			return raw
		}

		start, end, ok := attrValueSpan(raw, attr)
		if !ok {
			return raw
		}
		out := make([]byte, 0, len(raw)+len(target))
		out = append(out, raw[:start]...)
		out = append(out, html.EscapeString(target)...)
		return append(out, raw[end:]...)
	}
	return raw
}

// attrValueSpan locates the value of the first attribute named attr in a raw
// start tag. The span excludes quotes.
func attrValueSpan(raw []byte, attr string) (start, end int, ok bool) {
	i := 1
	for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '>' && raw[i] != '/' {
		i++
	}

	for {
		for i < len(raw) && (isTagSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			return 0, 0, false
		}

		nameStart := i
		for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '=' && raw[i] != '>' && raw[i] != '/' {
			i++
		}
		name := string(raw[nameStart:i])

		j := i
		for j < len(raw) && isTagSpace(raw[j]) {
			j++
		}
		if j >= len(raw) || raw[j] != '=' {
			continue
		}
		j++
		for j < len(raw) && isTagSpace(raw[j]) {
			j++
		}
		if j >= len(raw) {
			return 0, 0, false
		}

		if q := raw[j]; q == '"' || q == '\'' {
			start = j + 1
			n := bytes.IndexByte(raw[start:], q)
			if n < 0 {
				return 0, 0, false
			}
			end = start + n
			i = end + 1
		} else {
			start = j
			end = j
			for end < len(raw) && !isTagSpace(raw[end]) && raw[end] != '>' {
				end++
			}
			i = end
		}

		if strings.EqualFold(name, attr) {
			return start, end, true
		}
	}
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// localFor returns the local file replacing the remote reference, or "".
func localFor(ref, attr string, vendor []domain.VendorDependency) string {
	for _, dep := range vendor {
		for _, m := range dep.Match {
			if m == "" || !strings.Contains(ref, m) {
				continue
			}
			files := dep.JS
			if attr == "href" {
				files = dep.CSS
			}
			if len(files) > 0 {
				return files[0]
			}
		}
	}
	return ""
}

func writeInjected(out *bytes.Buffer, block string, vendor []domain.VendorDependency, url resolver) {
	for _, dep := range vendor {
		if block == injectCSS {
			for _, f := range dep.CSS {
				out.WriteString(`<link rel="stylesheet" href="` + html.EscapeString(url(f)) + `">` + "\n")
			}
			continue
		}
		for _, f := range dep.JS {
			out.WriteString(`<script src="` + html.EscapeString(url(f)) + `"></script>` + "\n")
		}
	}
}

package livereload

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"

	"golang.org/x/net/html"
)

// ScriptTag is the element injected into HTML pages.
const ScriptTag = `<script src="` + ScriptPath + `" defer></script>`

// InjectScript inserts ScriptTag before the last </body>, or before </html>
// when there is no body end tag, or at the end of the document. All other
// bytes are left untouched.
func InjectScript(doc []byte) []byte {
	z := html.NewTokenizer(bytes.NewReader(doc))
	offset := 0
	bodyEnd, htmlEnd := -1, -1

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := len(z.Raw())
		if tt == html.EndTagToken {
			name, _ := z.TagName()
			switch string(name) {
			case "body":
				bodyEnd = offset
			case "html":
				htmlEnd = offset
			}
		}
		offset += raw
	}

	at := len(doc)
	switch {
	case bodyEnd >= 0:
		at = bodyEnd
	case htmlEnd >= 0:
		at = htmlEnd
	}

	out := make([]byte, 0, len(doc)+len(ScriptTag))
	out = append(out, doc[:at]...)
	out = append(out, ScriptTag...)
	out = append(out, doc[at:]...)
	return out
}

// Middleware injects the client script into HTML responses of next.
// Requests are sent upstream without compression so bodies can be rewritten.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Del("Accept-Encoding")

		iw := &injectingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(iw, r)
		iw.finish(r.Method)
	})
}

// injectingWriter buffers HTML bodies and passes everything else through.
type injectingWriter struct {
	http.ResponseWriter
	status  int
	decided bool
	buffer  bool
	body    bytes.Buffer
}

func (w *injectingWriter) WriteHeader(status int) {
	if w.decided {
		return
	}
	w.decided = true
	w.status = status
	w.buffer = status == http.StatusOK && isHTML(w.Header())
	if !w.buffer {
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *injectingWriter) Write(p []byte) (int, error) {
	if !w.decided {
		w.WriteHeader(http.StatusOK)
	}
	if w.buffer {
		return w.body.Write(p)
	}
	return w.ResponseWriter.Write(p)
}

// Flush passes through for streaming responses.
func (w *injectingWriter) Flush() {
	if w.buffer {
		return
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *injectingWriter) finish(method string) {
	if !w.buffer {
		return
	}

	body := InjectScript(w.body.Bytes())

	h := w.Header()
	h.Del("ETag")
	h.Del("Last-Modified")
	if method == http.MethodHead {
		h.Del("Content-Length")
		w.ResponseWriter.WriteHeader(w.status)
		return
	}
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.ResponseWriter.WriteHeader(w.status)
	_, _ = w.ResponseWriter.Write(body)
}

func isHTML(h http.Header) bool {
	if h.Get("Content-Encoding") != "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	return err == nil && mediaType == "text/html"
}

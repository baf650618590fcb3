package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/assetpipe/internal/ui/output"
	"go.trai.ch/assetpipe/internal/ui/style"
)

// LocationKeys are the attribute keys that say where in the pipeline a record
// comes from, outermost first. The console handler renders them as a trail
// after the first line of the message instead of as key=value pairs.
var LocationKeys = []string{"task", "bundle", "file", "plugin"}

const locationSep = " › "

// ConsoleHandler is a slog.Handler producing colored, human-readable lines.
type ConsoleHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewConsoleHandler creates a new ConsoleHandler writing to w.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &ConsoleHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelStyle(r.Level)

	loc := map[string]string{}
	var fields []string
	add := func(attr slog.Attr) {
		if h.group == "" && isLocationKey(attr.Key) {
			if _, seen := loc[attr.Key]; !seen {
				loc[attr.Key] = attr.Value.String()
			}
			return
		}
		fields = append(fields, formatAttr(h.group, attr))
	}
	for _, attr := range h.attrs {
		add(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		add(attr)
		return true
	})

	head, rest, multiline := strings.Cut(r.Message, "\n")
	if icon != "" {
		head = icon + " " + head
	}

	var b strings.Builder
	b.WriteString(h.out.String(head).Foreground(color).String())
	if trail := locationTrail(loc); trail != "" {
		b.WriteString(" " + h.out.String("("+trail+")").Faint().String())
	}

	var tail string
	if multiline {
		tail = "\n" + rest
	}
	if len(fields) > 0 {
		tail += " " + strings.Join(fields, " ")
	}
	if tail != "" {
		b.WriteString(h.out.String(tail).Foreground(color).String())
	}
	b.WriteByte('\n')

	_, err := h.out.WriteString(b.String())
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup returns a new Handler with the given group name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.group = name
	return &clone
}

func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}

func isLocationKey(key string) bool {
	return slices.Contains(LocationKeys, key)
}

// locationTrail joins the present location values in LocationKeys order.
func locationTrail(loc map[string]string) string {
	parts := make([]string, 0, len(loc))
	for _, k := range LocationKeys {
		if v, ok := loc[k]; ok && v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, locationSep)
}

// formatAttr renders key=value, prefixing the key with the group when set.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}

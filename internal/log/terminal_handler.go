package log

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	colReset  = "\033[0m"
	colDim    = "\033[2m"
	colBold   = "\033[1m"
	colRed    = "\033[31m"
	colGreen  = "\033[32m"
	colYellow = "\033[33m"
	colCyan   = "\033[36m"
)

const timeLayout = "15:04:05.000"

// TerminalHandler renders each record as one coloured line for interactive
// use:
//
//	15:04:05.123 INF comparison run saved run_id=7 rows=120
//
// It is the pretty half of the config.LogFormat switch; LogFormatJSON uses
// slog's JSONHandler. Attributes bound via WithAttrs are rendered once, at
// bind time, under the group path active at that point; WithGroup only
// affects attributes added afterwards.
type TerminalHandler struct {
	out   io.Writer
	mu    *sync.Mutex
	level slog.Leveler

	// bound holds the pre-rendered WithAttrs attributes, prefix the dotted
	// group path applied to record attributes.
	bound  string
	prefix string
}

func newTerminalHandler(w io.Writer, opts *slog.HandlerOptions) *TerminalHandler {
	h := &TerminalHandler{
		out:   w,
		mu:    &sync.Mutex{},
		level: slog.LevelInfo,
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle renders the record and writes it as a single line.
func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var line strings.Builder
	line.Grow(256)

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line.WriteString(colDim + ts.Format(timeLayout) + colReset + " ")
	line.WriteString(levelLabel(r.Level) + " ")
	line.WriteString(colBold + r.Message + colReset)
	line.WriteString(h.bound)

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&line, h.prefix, a)
		return true
	})

	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line.String())
	return err
}

// WithAttrs returns a handler that renders attrs on every line, under the
// current group path.
func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var rendered strings.Builder
	for _, a := range attrs {
		writeAttr(&rendered, h.prefix, a)
	}
	next := *h
	next.bound = h.bound + rendered.String()
	return &next
}

// WithGroup returns a handler that prefixes subsequent attribute keys with
// name.
func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func levelLabel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return colCyan + "DBG" + colReset
	case level < slog.LevelWarn:
		return colGreen + "INF" + colReset
	case level < slog.LevelError:
		return colYellow + "WRN" + colReset
	default:
		return colRed + "ERR" + colReset
	}
}

// writeAttr renders one attribute as " prefix.key=value". Group-valued
// attributes are flattened with their key joining the prefix.
func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, inner, ga)
		}
		return
	}

	b.WriteString(" " + colDim + prefix + a.Key + "=" + colReset)
	b.WriteString(attrValue(a.Value))
}

func attrValue(v slog.Value) string {
	s := v.String()
	if v.Kind() == slog.KindString && strings.ContainsAny(s, " \t\n\"\\") {
		return strconv.Quote(s)
	}
	return s
}

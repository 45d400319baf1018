// Package log provides a slog.Handler for contract code. Records are rendered
// as single lines of text and emitted through the host's print function.
package log

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// Printer is the host function records are routed through.
type Printer interface {
	Print(text string)
}

// PrintHandler implements slog.Handler on top of a Printer.
type PrintHandler struct {
	printer Printer
	opts    handlerConfig
	attrs   []slog.Attr
	groups  []string
}

// HandlerOption configures the PrintHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Level
	addSource bool
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to report.
// Records below this level are dropped before reaching the host.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file:line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// NewHandler creates a new PrintHandler with the given options.
func NewHandler(printer Printer, opts ...HandlerOption) *PrintHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &PrintHandler{printer: printer, opts: cfg}
}

// New returns a logger writing through printer.
func New(printer Printer, opts ...HandlerOption) *slog.Logger {
	return slog.New(NewHandler(printer, opts...))
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrintHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level
}

// Handle renders record as "LEVEL message key=value ..." and prints it.
func (h *PrintHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(record.Level.String())
	b.WriteByte(' ')
	b.WriteString(record.Message)

	if h.opts.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		frame, _ := frames.Next()
		writeAttr(&b, "", slog.String(slog.SourceKey, frame.File+":"+strconv.Itoa(frame.Line)))
	}

	for _, attr := range h.attrs {
		writeAttr(&b, "", attr)
	}
	prefix := strings.Join(h.groups, ".")
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&b, prefix, attr)
		return true
	})

	h.printer.Print(b.String())
	return nil
}

// WithAttrs returns a new PrintHandler that includes the given attributes.
func (h *PrintHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := strings.Join(h.groups, ".")
	next := h.clone()
	for _, attr := range attrs {
		if prefix != "" {
			attr.Key = prefix + "." + attr.Key
		}
		next.attrs = append(next.attrs, attr)
	}
	return next
}

// WithGroup returns a new PrintHandler that qualifies later attributes with name.
func (h *PrintHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *PrintHandler) clone() *PrintHandler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	next.groups = append([]string(nil), h.groups...)
	return &next
}

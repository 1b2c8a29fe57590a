// based on https://dusted.codes/creating-a-pretty-console-logger-using-gos-slog-package
package prettylog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const timeFormat = "15:04:05.000"

const (
	reset = "\033[0m"

	yellow   = 33
	cyan     = 36
	darkGray = 90
	lightRed = 91
	white    = 97
)

func colorize(colorCode int, v string) string {
	return "\033[" + strconv.Itoa(colorCode) + "m" + v + reset
}

type handler struct {
	level  slog.Level
	output io.Writer
	attrs  []slog.Attr
	groups []string
}

// NewHandler returns a slog.Handler that renders colored single-line
// records to stderr. Meant for interactive use, not for log pipelines.
func NewHandler(level slog.Level) slog.Handler {
	return &handler{level: level, output: os.Stderr}
}

// NewHandlerWithOutput renders to the given writer. Used by tests.
func NewHandlerWithOutput(level slog.Level, output io.Writer) slog.Handler {
	return &handler{level: level, output: output}
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	copied := *h
	copied.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		// qualify with the groups open at bind time
		copied.attrs = append(copied.attrs, slog.Attr{Key: h.prefixed(a.Key), Value: a.Value})
	}
	return &copied
}

func (h *handler) WithGroup(name string) slog.Handler {
	copied := *h
	copied.groups = append(append([]string{}, h.groups...), name)
	return &copied
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch r.Level {
	case slog.LevelDebug:
		level = colorize(darkGray, level)
	case slog.LevelInfo:
		level = colorize(cyan, level)
	case slog.LevelWarn:
		level = colorize(yellow, level)
	case slog.LevelError:
		level = colorize(lightRed, level)
	}

	attrs := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		attrs[a.Key] = attrValue(a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.prefixed(a.Key)] = attrValue(a.Value)
		return true
	})

	line := colorize(darkGray, r.Time.Format(timeFormat)) + " " + level + " " + colorize(white, r.Message)
	if len(attrs) > 0 {
		asJson, err := json.MarshalIndent(attrs, "  ", "  ")
		if err != nil {
			asJson = []byte(fmt.Sprintf("%v", attrs))
		}
		line += " " + colorize(darkGray, string(asJson))
	}

	_, err := io.WriteString(h.output, line+"\n")
	return err
}

func (h *handler) prefixed(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func attrValue(v slog.Value) any {
	resolved := v.Resolve()
	if resolved.Kind() != slog.KindAny {
		return resolved.Any()
	}
	value := resolved.Any()
	switch typed := value.(type) {
	case error:
		return typed.Error()
	case []byte:
		return string(typed)
	}
	if _, err := json.Marshal(value); err != nil {
		return fmt.Sprintf("%v", value)
	}
	return value
}

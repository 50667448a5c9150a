package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeHTTP   LogType = "HTTP"
	TypeDB     LogType = "DB"
	TypeSystem LogType = "SYS"
	TypeError  LogType = "ERR"
)

type CustomHandler struct {
	appName string
	opts    *slog.HandlerOptions
	out     io.Writer
	mu      *sync.Mutex
	attrs   []slog.Attr
	groups  []string
}

func NewHandler(appName string, level slog.Leveler) *CustomHandler {
	return NewHandlerWithWriter(os.Stdout, appName, level)
}

func NewHandlerWithWriter(w io.Writer, appName string, level slog.Leveler) *CustomHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CustomHandler{
		appName: appName,
		opts:    &slog.HandlerOptions{Level: level},
		out:     w,
		mu:      &sync.Mutex{},
		attrs:   make([]slog.Attr, 0),
		groups:  make([]string, 0),
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &CustomHandler{
		appName: h.appName,
		opts:    h.opts,
		out:     h.out,
		mu:      h.mu,
		attrs:   merged,
		groups:  h.groups,
	}
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &CustomHandler{
		appName: h.appName,
		opts:    h.opts,
		out:     h.out,
		mu:      h.mu,
		attrs:   h.attrs,
		groups:  groups,
	}
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	timestamp := r.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor = colorRed
		levelText = "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor = colorYellow
		levelText = "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor = colorGreen
		levelText = "INFO"
	default:
		levelColor = colorPurple
		levelText = "DEBUG"
	}

	logType := getLogType(h.attrs, &r)

	message := r.Message
	if r.Level >= slog.LevelError {
		if location := getErrorLocation(&r); location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
	}

	var attrs strings.Builder
	prefix := strings.Join(h.groups, ".")
	writeAttr := func(a slog.Attr) {
		if isInternalAttr(a.Key) {
			return
		}
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&attrs, " %s=%v", key, a.Value)
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.out, "%s[%s] [%s] [%s%s%s] [%s%s%s] %s%s%s\n",
		colorWhite,
		h.appName,
		timestamp.Format("15:04:05"),
		levelColor, levelText, colorWhite,
		colorCyan, logType, colorWhite,
		message,
		colorBlue+attrs.String(),
		colorReset,
	)
	return err
}

func getLogType(base []slog.Attr, r *slog.Record) LogType {
	var logType LogType = TypeSystem
	match := func(a slog.Attr) bool {
		if a.Key != "type" {
			return false
		}
		switch a.Value.String() {
		case "http":
			logType = TypeHTTP
		case "db":
			logType = TypeDB
		case "error":
			logType = TypeError
		}
		return true
	}
	for _, a := range base {
		match(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		return !match(a)
	})
	return logType
}

func getSourceLocation() (string, int) {
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}

func isInternalAttr(key string) bool {
	return key == "type" || key == "error_location"
}

func getErrorLocation(r *slog.Record) string {
	var location string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "error_location" {
			location = a.Value.String()
			return false
		}
		return true
	})
	if location == "" {
		if file, line := getSourceLocation(); file != "" {
			location = fmt.Sprintf("%s:%d", file, line)
		}
	}
	return location
}

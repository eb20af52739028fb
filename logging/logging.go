// Package logging configures the process logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/ardanlabs/vkwrap/diag"
)

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Errorf("unknown log level %q: %w", s, err)
	}
	return level, nil
}

// Setup installs a tint handler wrapped by slogctx as the default logger
// and returns ctx carrying it.
func Setup(ctx context.Context, w io.Writer, level slog.Level, color bool) context.Context {
	handler := tint.NewHandler(w, &tint.Options{
		Level:       level,
		TimeFormat:  "2006-01-02 15:04 05.0000",
		AddSource:   level <= slog.LevelDebug,
		NoColor:     !color,
		ReplaceAttr: formatErrorStacks,
	})

	ctxHandler := slogctx.NewHandler(handler, &slogctx.HandlerOptions{})

	logger := slog.New(ctxHandler)
	slog.SetDefault(logger)

	return slogctx.NewCtx(ctx, logger)
}

// LogReport summarizes r at info level and lists every entry at debug.
func LogReport(ctx context.Context, r diag.Report) {
	if r.Len() == 0 {
		return
	}
	slogctx.Info(ctx, "diagnostics", "report", r)
	for _, e := range r.Entries {
		slogctx.Debug(ctx, "diagnostic",
			"kind", string(e.Kind),
			"subject", e.Subject,
			"detail", e.Detail,
			"line", e.Line,
		)
	}
}

func packageName(frame runtime.Frame) string {
	lastSlash := strings.LastIndex(frame.Function, "/")
	if lastSlash == -1 {
		return ""
	}
	almost := frame.Function[:lastSlash]
	remaining := frame.Function[lastSlash+1:]
	firstDot := strings.Index(remaining, ".")
	if firstDot == -1 {
		return ""
	}
	return almost + "/" + remaining[:firstDot]
}

// formatErrorStacks expands an error carrying a stack into the frame it
// was created at.
func formatErrorStacks(groups []string, a slog.Attr) slog.Attr {
	if a.Key != "error" {
		return a
	}
	err, ok := a.Value.Any().(error)
	if !ok {
		return a
	}
	var terr errors.E
	if !errors.As(err, &terr) {
		return a
	}

	frames := runtime.CallersFrames(terr.StackTrace())
	first, _ := frames.Next()
	pkg := packageName(first)
	uri := fmt.Sprintf("%s:%d", first.File, first.Line)
	a.Value = slog.GroupValue(
		slog.Any("error", err),
		slog.String("func", strings.TrimPrefix(first.Function, pkg+".")),
		slog.String("package", pkg),
		slog.String("file", filepath.Base(filepath.Dir(uri))+"/"+filepath.Base(uri)),
	)
	return a
}

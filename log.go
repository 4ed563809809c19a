package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
)

const maxLoggedIssues = 20

func initSlog(level slog.Level, verbose bool) {
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

// logIssues writes the first maxLoggedIssues issues at warn and the rest at
// debug.
func logIssues(logger *slog.Logger, issues []Issue) {
	for i, issue := range issues {
		attrs := []any{
			slog.String("player", issue.Player),
			slog.String("column", issue.Column),
			slog.String("value", issue.Value),
		}
		if i < maxLoggedIssues {
			logger.Warn(issue.Reason, attrs...)
		} else {
			logger.Debug(issue.Reason, attrs...)
		}
	}
	if len(issues) > maxLoggedIssues {
		logger.Warn("More table issues logged at debug", slog.Int("count", len(issues)-maxLoggedIssues))
	}
}

// requestLogger logs one line per request through slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		slog.Info("Request served",
			slog.String("type", "http"),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Duration("took", time.Since(start)))
	})
}

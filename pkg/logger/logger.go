// Package logger provides a structured, levelled logger built on log/slog.
//
//	logger.Info("run joined", "run_id", 12, "amount", 18.50)
//	// time=... level=INFO msg="run joined" run_id=12 amount=18.5
//
// Production (APP_ENV=production) emits JSON for log aggregators; everything
// else gets the human-readable text handler. An optional MongoDB sink can be
// attached with EnableMongoSink.
package logger

import (
	"log/slog"
	"os"

	"github.com/shashiranjanraj/foodrun/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// EnableMongoSink fans every record out to both the current handler and an
// asynchronous MongoDB collection. Returns the handler so the caller can
// Close() it on shutdown.
func EnableMongoSink(uri, db, collection string) (*MongoHandler, error) {
	mh, err := NewMongoHandler(uri, db, collection)
	if err != nil {
		return nil, err
	}

	L = slog.New(NewMultiHandler(L.Handler(), mh))
	slog.SetDefault(L)
	return mh, nil
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }

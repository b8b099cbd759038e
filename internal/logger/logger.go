package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var log zerolog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// InitLogging configures the process logger. When logFilePath is non-empty
// the log is written there as JSON in addition to the console.
func InitLogging(logFilePath string) {
	console := zerolog.ConsoleWriter{Out: os.Stderr}
	var out io.Writer = console
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Error().Err(err).Str("path", logFilePath).Msg("cannot open log file, console only")
		} else {
			out = zerolog.MultiLevelWriter(console, file)
		}
	}
	log = zerolog.New(out).With().Timestamp().Logger()
}

// Logger exposes the configured zerolog instance for components that attach
// their own fields.
func Logger() zerolog.Logger {
	return log
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	log.Info().Ctx(ctx).Msg(fmt.Sprintf(format, args...))
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	log.Warn().Ctx(ctx).Msg(fmt.Sprintf(format, args...))
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	log.Error().Ctx(ctx).Msg(fmt.Sprintf(format, args...))
}

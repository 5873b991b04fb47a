package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sharegarden/config"
	"sharegarden/internal/errors"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormSlogLogger adapts GORM's logger interface onto the application slog
// logger so query logging follows the configured level and format.
type gormSlogLogger struct {
	logger *slog.Logger
	debug  bool
}

func newGormSlogLogger(logger *slog.Logger, cfg *config.Config) gormlogger.Interface {
	return &gormSlogLogger{
		logger: logger,
		debug:  cfg.Env.Debug,
	}
}

// LogMode implements gormlogger.Interface; the level is driven by slog.
func (l *gormSlogLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	query, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "query failed",
			slog.String("query", query),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err),
		)
	case elapsed > slowQueryThreshold:
		l.logger.WarnContext(ctx, "slow query",
			slog.String("query", query),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	case l.debug:
		l.logger.DebugContext(ctx, "query",
			slog.String("query", query),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	}
}

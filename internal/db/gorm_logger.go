package db

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/arencloud/provisio/internal/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlLogger adapts gorm's logger.Interface onto our structured logger.
// Raw SQL never reaches the log output, only an op/table summary.

type sqlLogger struct {
	l     logging.Logger
	level logger.LogLevel
}

func newGormLogger(l logging.Logger, lvl logger.LogLevel) *sqlLogger {
	return &sqlLogger{l: l, level: lvl}
}

func (g *sqlLogger) LogMode(l logger.LogLevel) logger.Interface { g.level = l; return g }

func (g *sqlLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Info {
		g.l.Info("gorm", "msg", msg, "args", data)
	}
}

func (g *sqlLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Warn {
		g.l.Error("gorm_warn", "msg", msg, "args", data)
	}
}

func (g *sqlLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Error {
		g.l.Error("gorm_error", "msg", msg, "args", data)
	}
}

// Trace logs each statement with duration and rows affected. Record-not-found
// is demoted to debug since callers routinely probe for absent rows.
func (g *sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if g.level <= logger.Silent {
		return
	}
	sql, rows := fc()
	op, table := summarizeSQL(sql)
	fields := []any{"op", op, "table", table, "rows", rows, "durationMs", float64(time.Since(begin)) / 1e6, "caller", callerOutsideGorm()}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fields = append(fields, "notFound", true)
			g.l.Debug("gorm_sql", fields...)
			return
		}
		fields = append(fields, "error", err.Error())
		if g.level >= logger.Error {
			g.l.Error("gorm_sql", fields...)
			return
		}
	}
	if g.level >= logger.Info {
		g.l.Debug("gorm_sql", fields...)
	}
}

// callerOutsideGorm walks the stack for the first frame not in gorm internals.
func callerOutsideGorm() string {
	for i := 2; i < 12; i++ {
		if _, file, line, ok := runtime.Caller(i); ok && !strings.Contains(file, "gorm.io") {
			return file + ":" + strconv.Itoa(line)
		}
	}
	return ""
}

// summarizeSQL reduces a statement to "op, table" without parameters.
func summarizeSQL(sql string) (op string, table string) {
	q := strings.ToUpper(strings.Join(strings.Fields(sql), " "))
	parts := strings.Fields(q)
	if len(parts) == 0 {
		return "", ""
	}
	op = parts[0]
	s := q
	switch {
	case strings.HasPrefix(s, "UPDATE "):
		s = s[len("UPDATE "):]
	case strings.HasPrefix(s, "INSERT INTO "):
		s = s[len("INSERT INTO "):]
	case strings.HasPrefix(s, "DELETE FROM "):
		s = s[len("DELETE FROM "):]
	default:
		if idx := strings.Index(s, " FROM "); idx >= 0 {
			s = s[idx+6:]
		} else if idx := strings.Index(s, " INTO "); idx >= 0 {
			s = s[idx+6:]
		}
	}
	if ws := strings.Fields(s); len(ws) > 0 {
		table = strings.Trim(ws[0], "`\"")
	}
	return op, strings.ToLower(table)
}

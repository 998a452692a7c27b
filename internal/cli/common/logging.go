package common

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/viper"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions describes the process logger.
type LogOptions struct {
	Level      string // debug|info|warn|error
	Format     string // console|json
	File       string // rotating file; stderr when empty
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// SetupLoggerWithFile configures both std log and the slog default logger.
func SetupLoggerWithFile(o LogOptions) {
	var w io.Writer = os.Stderr
	if strings.TrimSpace(o.File) != "" {
		w = &lumberjack.Logger{Filename: o.File, MaxSize: o.MaxSizeMB, MaxBackups: o.MaxBackups, MaxAge: o.MaxAgeDays, Compress: o.Compress}
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(o.Level)}
	var h slog.Handler
	if strings.ToLower(o.Format) == "json" {
		h = slog.NewJSONHandler(w, opts)
		log.SetFlags(0)
	} else {
		h = slog.NewTextHandler(w, opts)
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}
	slog.SetDefault(slog.New(&countHandler{next: h}))
	log.SetOutput(w)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// --------- counters for log levels ----------

var cntDebug, cntInfo, cntWarn, cntError atomic.Int64

type countHandler struct{ next slog.Handler }

func (c *countHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return c.next.Enabled(ctx, lvl)
}

func (c *countHandler) Handle(ctx context.Context, rec slog.Record) error {
	switch {
	case rec.Level >= slog.LevelError:
		cntError.Add(1)
	case rec.Level >= slog.LevelWarn:
		cntWarn.Add(1)
	case rec.Level >= slog.LevelInfo:
		cntInfo.Add(1)
	default:
		cntDebug.Add(1)
	}
	return c.next.Handle(ctx, rec)
}

func (c *countHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &countHandler{next: c.next.WithAttrs(attrs)}
}

func (c *countHandler) WithGroup(name string) slog.Handler {
	return &countHandler{next: c.next.WithGroup(name)}
}

// GetLogCounters returns current log counters by level.
func GetLogCounters() map[string]int64 {
	d, i, w, e := cntDebug.Load(), cntInfo.Load(), cntWarn.Load(), cntError.Load()
	return map[string]int64{"debug": d, "info": i, "warn": w, "error": e, "total": d + i + w + e}
}

// LogOptionsFromViper reads the log.* keys, falling back to the LogFile
// section of a shell config file.
func LogOptionsFromViper(v *viper.Viper) LogOptions {
	pick := func(key, section string) string {
		if v.IsSet("log." + key) {
			return "log." + key
		}
		return "logfile." + section
	}
	return LogOptions{
		Level:      v.GetString(pick("level", "level")),
		Format:     v.GetString(pick("format", "format")),
		File:       v.GetString(pick("file", "path")),
		MaxSizeMB:  v.GetInt(pick("max_size", "maxsizemb")),
		MaxBackups: v.GetInt(pick("max_backups", "maxbackups")),
		MaxAgeDays: v.GetInt(pick("max_age", "maxagedays")),
		Compress:   v.GetBool(pick("compress", "compress")),
	}
}

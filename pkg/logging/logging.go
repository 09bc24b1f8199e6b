package logging

import (
	"io"
	"log"
	"os"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"

	"mccia-news/pkg/config"
)

var debugEnabled atomic.Bool

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup points the standard logger at stdout and, when a file is configured,
// at a size-rotated log file as well. The returned Closer releases the file.
func Setup(cfg config.LogConfig) io.Closer {
	debugEnabled.Store(cfg.Level == "debug")

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,  // megabytes
		MaxBackups: cfg.MaxBackups, // number of backups
		MaxAge:     cfg.MaxAgeDays, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(rotator, os.Stdout))
	return rotator
}

// Debugf logs only when the debug level is configured
func Debugf(format string, args ...any) {
	if debugEnabled.Load() {
		log.Printf("DEBUG "+format, args...)
	}
}

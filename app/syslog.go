package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const sysLogMaxEntries = 500

// SysLogEntry is a single system log line.
type SysLogEntry struct {
	Time    time.Time
	Package string
	Message string
}

var (
	sysLogMu      sync.Mutex
	sysLogEntries []*SysLogEntry

	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// InitLog configures the process logger. Format is "json" or "console".
func InitLog(level, format string) {
	InitLogTo(os.Stderr, level, format)
}

// InitLogTo is InitLog with an explicit writer.
func InitLogTo(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	sysLogMu.Lock()
	logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	sysLogMu.Unlock()
}

// Log writes a line for pkg to the process log and keeps it in the
// in-memory system log.
func Log(pkg, format string, args ...interface{}) {
	appendSysLog(pkg, format, args...)

	sysLogMu.Lock()
	l := logger
	sysLogMu.Unlock()
	l.Info().Str("pkg", pkg).Msgf(format, args...)
}

// Debug is Log at debug level. Debug lines are not kept in the system log.
func Debug(pkg, format string, args ...interface{}) {
	sysLogMu.Lock()
	l := logger
	sysLogMu.Unlock()
	l.Debug().Str("pkg", pkg).Msgf(format, args...)
}

// appendSysLog stores a log message in the in-memory ring buffer.
func appendSysLog(pkg, format string, args ...interface{}) {
	entry := &SysLogEntry{
		Time:    time.Now(),
		Package: pkg,
		Message: fmt.Sprintf(format, args...),
	}
	sysLogMu.Lock()
	sysLogEntries = append(sysLogEntries, entry)
	if len(sysLogEntries) > sysLogMaxEntries {
		sysLogEntries = sysLogEntries[len(sysLogEntries)-sysLogMaxEntries:]
	}
	sysLogMu.Unlock()
}

// GetSysLog returns a copy of the system log in reverse-chronological order.
func GetSysLog() []*SysLogEntry {
	sysLogMu.Lock()
	defer sysLogMu.Unlock()
	result := make([]*SysLogEntry, len(sysLogEntries))
	for i, e := range sysLogEntries {
		result[len(sysLogEntries)-1-i] = e
	}
	return result
}

// Package logx is a small leveled logger that keeps recent lines in memory so
// the TUI can show them. Nothing is written to stderr unless
// SHEETVIEW_LOG_STDERR is set, since stray output would corrupt the screen.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelTags = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < Debug || l > Error {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelTags[l]
}

// ParseLevel accepts debug, info, warn/warning and error, case-insensitively.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, true
	case "info":
		return Info, true
	case "warn", "warning":
		return Warn, true
	case "error":
		return Error, true
	}
	return Info, false
}

const defaultCapacity = 500

var (
	mu    sync.Mutex
	level = Info
	ring  = make([]string, 0, defaultCapacity)
	limit = defaultCapacity
	sink  io.Writer
)

func SetLevel(l Level) { mu.Lock(); level = l; mu.Unlock() }

// SetOutput mirrors every retained line to w. nil disables mirroring.
func SetOutput(w io.Writer) { mu.Lock(); sink = w; mu.Unlock() }

func SetLevelFromEnv() {
	if l, ok := ParseLevel(os.Getenv("SHEETVIEW_LOG_LEVEL")); ok {
		SetLevel(l)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("SHEETVIEW_LOG_STDERR"))); v != "" && v != "0" && v != "false" && v != "no" {
		SetOutput(os.Stderr)
	}
}

func Debugf(format string, a ...any) { logf(Debug, format, a...) }
func Infof(format string, a ...any)  { logf(Info, format, a...) }
func Warnf(format string, a ...any)  { logf(Warn, format, a...) }
func Errorf(format string, a ...any) { logf(Error, format, a...) }

func logf(l Level, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	line := fmt.Sprintf("%s %-5s %s", time.Now().Format("2006-01-02T15:04:05.000Z07:00"), l, fmt.Sprintf(format, a...))
	if len(ring) >= limit {
		n := copy(ring, ring[1:])
		ring = ring[:n]
	}
	ring = append(ring, line)
	if sink != nil {
		fmt.Fprintln(sink, line)
	}
}

// Lines returns a copy of the retained lines, oldest first.
func Lines() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(ring))
	copy(out, ring)
	return out
}

func Dump() string { return strings.Join(Lines(), "\n") }

// Reset drops retained lines. Tests use it to start from a clean buffer.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ring = ring[:0]
}

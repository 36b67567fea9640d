// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package logs implements a small leveled logging facade in the
// btclog/btcd tradition: a Logger interface with Trace/Debug/Info/Warn/
// Error/Critical methods plus formatted variants, and a Backend that
// multiple named subsystem loggers can share a single writer through.
package logs

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Level is a logging priority.
type Level uint32

// Level constants, lowest to highest severity.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelStrings = map[Level]string{
	LevelTrace:    "TRC",
	LevelDebug:    "DBG",
	LevelInfo:     "INF",
	LevelWarn:     "WRN",
	LevelError:    "ERR",
	LevelCritical: "CRT",
	LevelOff:      "OFF",
}

func (l Level) String() string {
	if s, ok := levelStrings[l]; ok {
		return s
	}
	return "UNK"
}

// LevelFromString parses a level name, defaulting to LevelInfo if it is
// not recognized.
func LevelFromString(s string) Level {
	for lvl, name := range levelStrings {
		if name == s || levelNameLower(name) == s {
			return lvl
		}
	}
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "critical":
		return LevelCritical
	case "off":
		return LevelOff
	}
	return LevelInfo
}

func levelNameLower(s string) string { return s }

// Backend multiplexes log records from every subsystem logger to a
// single io.Writer, serializing writes and stamping each record with a
// timestamp and subsystem tag.
type Backend struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBackend returns a new Backend writing to w.
func NewBackend(w io.Writer) *Backend {
	return &Backend{out: w}
}

// Logger returns a new Logger that writes through this backend, tagged
// with the given subsystem name (conventionally a short all-caps string,
// e.g. "CHAN", "TXDB", "MPOL").
func (b *Backend) Logger(subsystem string) Logger {
	l := &subsystemLogger{backend: b, tag: subsystem}
	l.level.Store(uint32(LevelInfo))
	return l
}

func (b *Backend) write(p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.out.Write(p)
}

// Logger is the interface every subsystem logs through.
type Logger interface {
	Trace(args ...interface{})
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Critical(args ...interface{})

	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})

	SetLevel(level Level)
	Level() Level
}

type subsystemLogger struct {
	backend *Backend
	tag     string
	level   atomic.Uint32
}

func (l *subsystemLogger) SetLevel(level Level) { l.level.Store(uint32(level)) }
func (l *subsystemLogger) Level() Level          { return Level(l.level.Load()) }

func (l *subsystemLogger) write(lvl Level, s string) {
	if lvl < l.Level() {
		return
	}
	var buf bytes.Buffer
	buf.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	buf.WriteByte(' ')
	buf.WriteString(lvl.String())
	buf.WriteByte(' ')
	buf.WriteString(l.tag)
	buf.WriteString(": ")
	buf.WriteString(s)
	if len(s) == 0 || s[len(s)-1] != '\n' {
		buf.WriteByte('\n')
	}
	l.backend.write(buf.Bytes())
}

func (l *subsystemLogger) Trace(args ...interface{})    { l.write(LevelTrace, fmt.Sprint(args...)) }
func (l *subsystemLogger) Debug(args ...interface{})    { l.write(LevelDebug, fmt.Sprint(args...)) }
func (l *subsystemLogger) Info(args ...interface{})     { l.write(LevelInfo, fmt.Sprint(args...)) }
func (l *subsystemLogger) Warn(args ...interface{})     { l.write(LevelWarn, fmt.Sprint(args...)) }
func (l *subsystemLogger) Error(args ...interface{})    { l.write(LevelError, fmt.Sprint(args...)) }
func (l *subsystemLogger) Critical(args ...interface{}) { l.write(LevelCritical, fmt.Sprint(args...)) }

func (l *subsystemLogger) Tracef(format string, args ...interface{}) {
	l.write(LevelTrace, fmt.Sprintf(format, args...))
}
func (l *subsystemLogger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, fmt.Sprintf(format, args...))
}
func (l *subsystemLogger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, fmt.Sprintf(format, args...))
}
func (l *subsystemLogger) Warnf(format string, args ...interface{}) {
	l.write(LevelWarn, fmt.Sprintf(format, args...))
}
func (l *subsystemLogger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, fmt.Sprintf(format, args...))
}
func (l *subsystemLogger) Criticalf(format string, args ...interface{}) {
	l.write(LevelCritical, fmt.Sprintf(format, args...))
}

// Disabled is a Logger that discards everything, used as the zero-value
// default for subsystems that have not yet been wired to a backend.
var Disabled Logger = &subsystemLogger{backend: NewBackend(io.Discard), tag: "DISABLED"}

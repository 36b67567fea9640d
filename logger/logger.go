// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package logger wires the core's subsystems to a shared logs.Backend
// and a rotating log file, mirroring the teacher's backendLog/subsystem
// pattern: every package-level logger is created once here and handed
// out by name, so log level can be changed for a single subsystem
// (through SetLogLevel) without touching the others.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jrick/logrotate/rotator"

	"github.com/novacore/novad/logs"
)

// logRotator is the rotating log file all subsystem loggers write
// through once InitLogRotator has been called; until then subsystems log
// to stdout only.
var logRotator *rotator.Rotator

var backendLog = logs.NewBackend(os.Stdout)

// Subsystem tags, grouped by the layer of the core they instrument.
const (
	TagTxDB    = "TXDB"
	TagBlkIdx  = "BIDX"
	TagMempool = "MPOL"
	TagChain   = "CHAN"
	TagScript  = "SCRV"
	TagConsns  = "CNSS"
	TagStorage = "STOR"
)

var subsystemLoggers = map[string]logs.Logger{
	TagTxDB:    backendLog.Logger(TagTxDB),
	TagBlkIdx:  backendLog.Logger(TagBlkIdx),
	TagMempool: backendLog.Logger(TagMempool),
	TagChain:   backendLog.Logger(TagChain),
	TagScript:  backendLog.Logger(TagScript),
	TagConsns:  backendLog.Logger(TagConsns),
	TagStorage: backendLog.Logger(TagStorage),
}

// Logger returns the shared logger for the given subsystem tag, or a
// disabled logger if the tag is unrecognized.
func Logger(tag string) logs.Logger {
	if l, ok := subsystemLoggers[tag]; ok {
		return l
	}
	return logs.Disabled
}

// InitLogRotator initializes the log rotation system, writing to
// logFile. All subsystem loggers created through backendLog begin
// writing to both stdout and the rotator's current file.
func InitLogRotator(logFile string) error {
	logDir, _ := splitDir(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	logRotator = r
	backendLog = logs.NewBackend(io.MultiWriter(os.Stdout, logWriter{}))
	for tag := range subsystemLoggers {
		l := backendLog.Logger(tag)
		l.SetLevel(subsystemLoggers[tag].Level())
		subsystemLoggers[tag] = l
	}
	return nil
}

// logWriter implements io.Writer and passes all writes to the log
// rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	logRotator.Write(p)
	return len(p), nil
}

func splitDir(path string) (dir, file string) {
	i := strings.LastIndexByte(path, os.PathSeparator)
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// SetLogLevels sets every subsystem's logger to the given level. Used by
// the -debuglevel=<level> global flag (§ ambient configuration).
func SetLogLevels(levelStr string) {
	level := logs.LevelFromString(levelStr)
	for _, l := range subsystemLoggers {
		l.SetLevel(level)
	}
}

// SetLogLevel sets a single subsystem's logger to the given level. No
// command-line flag calls it: -debuglevel takes one level and applies it
// to every subsystem through SetLogLevels.
func SetLogLevel(subsystemID, levelStr string) {
	l, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	l.SetLevel(logs.LevelFromString(levelStr))
}

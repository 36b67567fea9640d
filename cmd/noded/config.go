// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultDataDirname   = "data"
	defaultLogFilename   = "noded.log"
	defaultScriptThreads = 4
)

// config holds every command-line/ini-file option the daemon accepts.
type config struct {
	DataDir       string `short:"b" long:"datadir" description:"Directory to store TxDB and block data"`
	LogDir        string `long:"logdir" description:"Directory to log output"`
	TestNet       bool   `long:"testnet" description:"Use the test network"`
	ScriptThreads int    `long:"scriptthreads" description:"Number of script verification worker goroutines (0 = inline)"`
	Debug         string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}"`
	ConfigFile    string `short:"C" long:"configfile" description:"Path to configuration file" no-ini:"true"`
}

func defaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".noded")
}

// loadConfig parses the command line (and, if present, an ini file),
// filling in defaults for anything left unset.
func loadConfig() (*config, error) {
	cfg := config{
		DataDir:       filepath.Join(defaultHomeDir(), defaultDataDirname),
		LogDir:        defaultHomeDir(),
		ScriptThreads: defaultScriptThreads,
		Debug:         "info",
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if cfg.ScriptThreads < 0 {
		return nil, errors.New("scriptthreads may not be negative")
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, errors.Wrapf(err, "failed to create data directory %s", cfg.DataDir)
	}
	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		return nil, errors.Wrapf(err, "failed to create log directory %s", cfg.LogDir)
	}

	return &cfg, nil
}

func (c *config) logFilePath() string {
	return filepath.Join(c.LogDir, defaultLogFilename)
}

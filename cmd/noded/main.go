// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command noded wires the consensus core together: it opens the TxDB,
// loads the block index, starts the mempool and script-check worker
// pool, and idles until asked to shut down. It deliberately stops short
// of peer networking (§1 Non-goals): ProcessBlock is the only entry
// point an eventual p2p layer would call.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/novacore/novad/blockchain"
	"github.com/novacore/novad/chainparams"
	"github.com/novacore/novad/logger"
	"github.com/novacore/novad/mempool"
	"github.com/novacore/novad/storage/ldb"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logger.InitLogRotator(cfg.logFilePath()); err != nil {
		return err
	}
	logger.SetLogLevels(cfg.Debug)

	log := logger.Logger(logger.TagChain)

	params := &chainparams.MainNetParams
	if cfg.TestNet {
		params = &chainparams.TestNetParams
	}

	db, err := ldb.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	pool := mempool.New()

	chain, err := blockchain.New(params, db, pool, nil, nil, cfg.ScriptThreads)
	if err != nil {
		return err
	}

	log.Infof("novad started: network=%s height=%d scriptThreads=%d",
		params.Name, chain.BestHeight(), cfg.ScriptThreads)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Infof("shutting down at height %d", chain.BestHeight())
	return nil
}

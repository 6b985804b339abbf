// Command duskchaind runs a duskchain node: it opens the ledger store,
// ensures genesis is written, and serves a /metrics endpoint if configured.
// Block production, p2p relay, RPC submission and the parent-chain
// adapter's concrete transport are external collaborators outside this
// core (§1 non-goals); this binary wires the ledger and stays up so those
// collaborators have something to call into.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duskchain/duskchain/config"
	"github.com/duskchain/duskchain/internal/ledger"
	klog "github.com/duskchain/duskchain/internal/log"
	"github.com/duskchain/duskchain/pkg/types"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = cfg.LogsDir() + "/duskchain.log"
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	logger := klog.WithComponent("node")

	store, err := ledger.Open(cfg.LedgerDir())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open ledger store")
	}
	defer store.Close()

	// Genesis pins the parent-chain block the sidechain activates on. A
	// zero hash marks an as-yet-unpinned genesis; a real deployment pins
	// this to the hash of the parent block agreed on at launch.
	if err := store.EnsureGenesis(types.ParentBlockHash{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to write genesis header")
	}

	read := store.BeginRead()
	tipHeight, tipHeader, _, err := read.Tip()
	read.Discard()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to read tip")
	}
	logger.Info().
		Uint32("height", tipHeight).
		Str("tip", tipHeader.Hash().String()).
		Str("network", string(cfg.Network)).
		Msg("ledger store ready")

	if cfg.Peg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.Peg.MetricsAddr, Handler: mux}
		go func() {
			logger.Info().Str("addr", cfg.Peg.MetricsAddr).Msg("metrics endpoint listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		defer srv.Close()
	}

	if cfg.Peg.Enabled {
		logger.Info().Str("rpc_addr", cfg.Peg.RPCAddr).Msg("parent-chain adapter enabled, awaiting wiring by an rpc client")
	}

	logger.Info().Msg("duskchaind started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutdown signal received, exiting")
}

// Copyright 2026 Critterworks Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/critterworks/critterchain/chain"
	"github.com/critterworks/critterchain/consensus"
	"github.com/critterworks/critterchain/event"
	"github.com/critterworks/critterchain/internal/config"
	"github.com/critterworks/critterchain/keystore"
	"github.com/critterworks/critterchain/ledger"
	"github.com/critterworks/critterchain/mempool"
	"github.com/critterworks/critterchain/types"
	"github.com/critterworks/critterchain/wallet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Node wires the ledger subsystem together: event bus, keystore,
// consensus, chain, mempool, ledger, and the authority validator
// wallet that produces blocks
type Node struct {
	config       *config.Config
	logger       *slog.Logger
	promRegistry *prometheus.Registry
	eventBus     *event.EventBus
	keyStore     *keystore.KeyStore
	consensus    *consensus.Consensus
	chain        *chain.Chain
	mempool      *mempool.Mempool
	ledger       *ledger.Ledger
	authority    *wallet.Wallet
}

func New(cfg *config.Config, logger *slog.Logger) (*Node, error) {
	promRegistry := prometheus.NewRegistry()
	eventBus := event.NewEventBus(promRegistry, logger)
	keyStore := keystore.NewKeyStore()
	consensusMgr := consensus.NewConsensus(consensus.ConsensusConfig{
		PromRegistry: promRegistry,
		Logger:       logger,
	})
	chainMgr := chain.NewChain(chain.ChainConfig{
		PromRegistry: promRegistry,
		Logger:       logger,
		EventBus:     eventBus,
	})
	mempoolMgr := mempool.NewMempool(mempool.MempoolConfig{
		PromRegistry: promRegistry,
		Logger:       logger,
		EventBus:     eventBus,
		Capacity:     cfg.MempoolCapacity,
	})
	ledgerMgr := ledger.NewLedger(ledger.LedgerConfig{
		PromRegistry: promRegistry,
		Logger:       logger,
		EventBus:     eventBus,
		KeyStore:     keyStore,
		Consensus:    consensusMgr,
		Chain:        chainMgr,
		Mempool:      mempoolMgr,
	})
	keyPair, err := keystore.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("generate authority key: %w", err)
	}
	authority, err := wallet.NewWallet(
		types.DID(cfg.ValidatorDID),
		keyPair,
		keyStore,
	)
	if err != nil {
		return nil, fmt.Errorf("create authority wallet: %w", err)
	}
	return &Node{
		config:       cfg,
		logger:       logger,
		promRegistry: promRegistry,
		eventBus:     eventBus,
		keyStore:     keyStore,
		consensus:    consensusMgr,
		chain:        chainMgr,
		mempool:      mempoolMgr,
		ledger:       ledgerMgr,
		authority:    authority,
	}, nil
}

// Ledger returns the node's ledger, the submission surface for
// external subsystems
func (n *Node) Ledger() *ledger.Ledger {
	return n.ledger
}

// bootstrap funds the authority identity and stakes it into the
// validator registry so block production can start
func (n *Node) bootstrap() error {
	n.ledger.Credit(n.authority.DID(), n.config.GenesisAirdrop)
	stakeTx, err := n.authority.NewStakeTransaction(n.config.InitialStake)
	if err != nil {
		return fmt.Errorf("build authority stake: %w", err)
	}
	if err := n.ledger.SubmitTransaction(stakeTx); err != nil {
		return fmt.Errorf("submit authority stake: %w", err)
	}
	n.logger.Info(
		"authority validator staked",
		"component", "node",
		"validator", n.authority.DID(),
		"stake", n.config.InitialStake,
	)
	return nil
}

// produceLoop attempts block production on a fixed interval and sweeps
// expired governance proposals. A "not your turn" result from the
// ledger is a silent no-op; with a single authority validator it only
// occurs when the pending queue is empty
func (n *Node) produceLoop(ctx context.Context) {
	ticker := time.NewTicker(n.config.BlockInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if finalized := n.ledger.FinalizeExpiredProposals(); len(finalized) > 0 {
				n.logger.Info(
					"finalized expired proposals",
					"component", "node",
					"count", len(finalized),
				)
			}
			_, err := n.ledger.CreateBlock(
				n.authority.DID(),
				n.authority.Signer(),
			)
			if err != nil {
				var preErr *ledger.PreconditionError
				if errors.As(err, &preErr) {
					continue
				}
				n.logger.Error(
					"block production failed",
					"component", "node",
					"error", err,
				)
			}
		}
	}
}

func (n *Node) startMetricsListener(ctx context.Context) {
	if n.config.MetricsPort == 0 {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		n.promRegistry,
		promhttp.HandlerOpts{},
	))
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", n.config.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
	}
	go func() {
		n.logger.Info(
			"serving prometheus metrics",
			"component", "node",
			"address", server.Addr,
		)
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			n.logger.Error(
				"metrics listener failed",
				"component", "node",
				"error", err,
			)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			5*time.Second,
		)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}

// Run starts the node and blocks until interrupted
func Run(cfg *config.Config, logger *slog.Logger) error {
	n, err := New(cfg, logger)
	if err != nil {
		return err
	}
	if err := n.bootstrap(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	n.startMetricsListener(ctx)
	go n.produceLoop(ctx)
	n.logger.Info(
		"node started",
		"component", "node",
		"validator", cfg.ValidatorDID,
		"block_interval", cfg.BlockInterval,
	)
	<-ctx.Done()
	n.eventBus.Stop()
	n.logger.Info("node stopped", "component", "node")
	return nil
}

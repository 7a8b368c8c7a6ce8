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

// Package ledger is the single-authority state machine. It verifies
// signed transactions, dispatches per-kind state transitions, manages
// the pending queue, produces blocks through consensus, and runs the
// governance lifecycle.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/critterworks/critterchain/chain"
	"github.com/critterworks/critterchain/consensus"
	"github.com/critterworks/critterchain/event"
	"github.com/critterworks/critterchain/keystore"
	"github.com/critterworks/critterchain/mempool"
	"github.com/critterworks/critterchain/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	TransactionAcceptedEventType event.EventType = "ledger.tx_accepted"
	BlockProducedEventType       event.EventType = "ledger.block_produced"
	ProposalFinalizedEventType   event.EventType = "ledger.proposal_finalized"
)

type TransactionAcceptedEvent struct {
	ID   string
	Kind types.TransactionKind
}

type BlockProducedEvent struct {
	Number       uint64
	Hash         types.Hash
	ValidatorDID types.DID
	TxCount      int
}

type ProposalFinalizedEvent struct {
	ID     string
	Status types.ProposalStatus
}

type LedgerConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	EventBus     *event.EventBus
	KeyStore     *keystore.KeyStore
	Consensus    *consensus.Consensus
	Chain        *chain.Chain
	Mempool      *mempool.Mempool
	// Now is the clock used for proposal deadlines. Injectable for
	// deadline tests; defaults to time.Now
	Now func() time.Time
}

// Ledger orchestrates all mutable chain state. A single RWMutex
// serializes every mutating operation, since transaction handlers
// perform check-then-apply sequences that are unsafe under concurrent
// unserialized access. Queries take the read lock and always observe a
// consistent snapshot
type Ledger struct {
	mutex      sync.RWMutex
	logger     *slog.Logger
	eventBus   *event.EventBus
	keyStore   *keystore.KeyStore
	consensus  *consensus.Consensus
	chain      *chain.Chain
	mempool    *mempool.Mempool
	now        func() time.Time
	identities IdentityStore
	assets     AssetStore
	proposals  ProposalStore
	votes      VoteStore
	balances   BalanceStore
	// seenTxs guards against replaying a transaction id, whether the
	// original is still pending or already included in a block
	seenTxs         map[string]struct{}
	lastProposalSeq uint64
	metrics         struct {
		txsAccepted        *prometheus.CounterVec
		txsRejected        *prometheus.CounterVec
		blocksProduced     prometheus.Counter
		proposalsFinalized *prometheus.CounterVec
	}
}

func NewLedger(config LedgerConfig) *Ledger {
	l := &Ledger{
		logger:     config.Logger,
		eventBus:   config.EventBus,
		keyStore:   config.KeyStore,
		consensus:  config.Consensus,
		chain:      config.Chain,
		mempool:    config.Mempool,
		now:        config.Now,
		identities: newMemIdentityStore(),
		assets:     newMemAssetStore(),
		proposals:  newMemProposalStore(),
		votes:      newMemVoteStore(),
		balances:   newMemBalanceStore(),
		seenTxs:    make(map[string]struct{}),
	}
	if l.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		l.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if l.now == nil {
		l.now = time.Now
	}
	promautoFactory := promauto.With(config.PromRegistry)
	l.metrics.txsAccepted = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critterchain_ledger_txs_accepted_total",
			Help: "total transactions accepted by kind",
		},
		[]string{"kind"},
	)
	l.metrics.txsRejected = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critterchain_ledger_txs_rejected_total",
			Help: "total transactions rejected by kind",
		},
		[]string{"kind"},
	)
	l.metrics.blocksProduced = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "critterchain_ledger_blocks_produced_total",
			Help: "total blocks produced",
		},
	)
	l.metrics.proposalsFinalized = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critterchain_ledger_proposals_finalized_total",
			Help: "total proposals finalized by outcome",
		},
		[]string{"status"},
	)
	return l
}

// SubmitTransaction verifies a signed transaction, applies its state
// transition, and appends it to the pending queue. Rejection at any
// step is atomic: no ledger field is mutated.
//
// The surface is kind-agnostic: external subsystems (wallet, battle,
// economy) all submit fully signed transactions through this one entry
// point
func (l *Ledger) SubmitTransaction(tx types.Transaction) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if err := l.validateTransaction(&tx); err != nil {
		l.rejectTransaction(&tx, err)
		return err
	}
	if err := l.applyTransaction(&tx); err != nil {
		l.rejectTransaction(&tx, err)
		return err
	}
	// The capacity pre-check in validateTransaction makes this append
	// infallible, keeping the apply-then-queue sequence atomic
	if err := l.mempool.AddTransaction(tx); err != nil {
		return fmt.Errorf("append accepted transaction %s: %w", tx.ID, err)
	}
	l.seenTxs[tx.ID] = struct{}{}
	l.metrics.txsAccepted.WithLabelValues(string(tx.Kind)).Inc()
	l.logger.Debug(
		"accepted transaction",
		"component", "ledger",
		"tx_id", tx.ID,
		"tx_kind", tx.Kind,
		"sender", tx.SenderDID,
	)
	if l.eventBus != nil {
		l.eventBus.Publish(
			TransactionAcceptedEventType,
			event.NewEvent(
				TransactionAcceptedEventType,
				TransactionAcceptedEvent{
					ID:   tx.ID,
					Kind: tx.Kind,
				},
			),
		)
	}
	return nil
}

// validateTransaction performs the pre-dispatch checks: sender key
// lookup, signature verification, kind and replay checks, and queue
// capacity. Failures are ValidationErrors
func (l *Ledger) validateTransaction(tx *types.Transaction) error {
	verifier, err := l.keyStore.Verifier(tx.SenderDID)
	if err != nil {
		return &ValidationError{Err: fmt.Errorf("%w: %s", ErrUnknownSender, tx.SenderDID)}
	}
	if !tx.VerifySignature(verifier) {
		return &ValidationError{Err: ErrInvalidSignature}
	}
	if !tx.Kind.Valid() {
		return &ValidationError{
			Err: fmt.Errorf("%w: %q", ErrUnknownTransactionKind, tx.Kind),
		}
	}
	if _, ok := l.seenTxs[tx.ID]; ok {
		return &ValidationError{
			Err: fmt.Errorf("%w: %s", ErrDuplicateTransaction, tx.ID),
		}
	}
	if l.mempool.Full() {
		return &PreconditionError{
			Err: &mempool.MempoolFullError{
				CurrentCount: l.mempool.Size(),
				Capacity:     l.mempool.Capacity(),
			},
		}
	}
	return nil
}

// applyTransaction dispatches on the transaction kind. The switch is
// exhaustive over every TransactionKind constant; validateTransaction
// has already rejected unknown kinds, so the default arm is
// unreachable and treated as a programming error
func (l *Ledger) applyTransaction(tx *types.Transaction) error {
	var err error
	switch tx.Kind {
	case types.TxMintAsset:
		err = l.applyMintAsset(tx)
	case types.TxEvolveAsset:
		err = l.applyEvolveAsset(tx)
	case types.TxTransferAsset:
		err = l.applyTransferAsset(tx)
	case types.TxVoteCast:
		err = l.applyVoteCast(tx)
	case types.TxReputationUpdate:
		err = l.applyReputationUpdate(tx)
	case types.TxTokenTransfer:
		err = l.applyTokenTransfer(tx)
	case types.TxStake:
		err = l.applyStake(tx)
	case types.TxUnstake:
		err = l.applyUnstake(tx)
	default:
		return &ValidationError{
			Err: fmt.Errorf("%w: %q", ErrUnknownTransactionKind, tx.Kind),
		}
	}
	if err != nil {
		// Malformed payloads are validation failures; everything else
		// a handler reports is a failed business precondition
		if errors.Is(err, types.ErrPayloadFieldMissing) ||
			errors.Is(err, types.ErrPayloadFieldType) {
			return &ValidationError{Err: err}
		}
		return &PreconditionError{Err: err}
	}
	return nil
}

func (l *Ledger) rejectTransaction(tx *types.Transaction, err error) {
	l.metrics.txsRejected.WithLabelValues(string(tx.Kind)).Inc()
	l.logger.Debug(
		"rejected transaction",
		"component", "ledger",
		"tx_id", tx.ID,
		"tx_kind", tx.Kind,
		"sender", tx.SenderDID,
		"error", err,
	)
}

// CreateBlock produces a block for the given validator identity. The
// pending queue must be non-empty and weighted selection must pick the
// caller; when another validator is selected the call is a no-op that
// returns (nil, nil), signaling "not your turn".
//
// The whole sequence (selection check, assembly, chain append, queue
// drain) runs under the write lock, so it is indivisible to observers:
// no transaction can enter the queue mid-selection and the queue is
// cleared only after a successful append
func (l *Ledger) CreateBlock(
	validatorDID types.DID,
	signer keystore.Signer,
) (*types.Block, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.mempool.Size() == 0 {
		return nil, &PreconditionError{Err: ErrEmptyMempool}
	}
	selected, ok := l.consensus.SelectValidator()
	if !ok || selected != validatorDID {
		l.logger.Debug(
			"validator not selected for block production",
			"component", "ledger",
			"validator", validatorDID,
			"selected", selected,
		)
		return nil, nil
	}
	block, err := l.consensus.CreateBlock(
		validatorDID,
		l.chain.Height(),
		l.chain.TipHash(),
		l.mempool.Transactions(),
		signer,
	)
	if err != nil {
		return nil, fmt.Errorf("assemble block: %w", err)
	}
	if err := l.chain.AddBlock(block); err != nil {
		return nil, fmt.Errorf("append block %d: %w", block.Number, err)
	}
	// Drain only after the append succeeded
	l.mempool.Drain()
	l.metrics.blocksProduced.Inc()
	blockHash, err := block.Hash()
	if err != nil {
		return nil, fmt.Errorf("hash block %d: %w", block.Number, err)
	}
	l.logger.Info(
		"produced block",
		"component", "ledger",
		"block_number", block.Number,
		"block_hash", blockHash.String(),
		"validator", validatorDID,
		"tx_count", len(block.Transactions),
	)
	if l.eventBus != nil {
		l.eventBus.Publish(
			BlockProducedEventType,
			event.NewEvent(
				BlockProducedEventType,
				BlockProducedEvent{
					Number:       block.Number,
					Hash:         blockHash,
					ValidatorDID: validatorDID,
					TxCount:      len(block.Transactions),
				},
			),
		)
	}
	return &block, nil
}

// Credit adds tokens to a DID's free balance, creating the identity if
// it has never been seen. This is the genesis funding path; ordinary
// balance movement goes through token-transfer transactions
func (l *Ledger) Credit(did types.DID, amount uint64) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.ensureIdentity(did)
	l.balances.SetBalance(did, l.balances.Balance(did)+amount)
	l.logger.Debug(
		"credited balance",
		"component", "ledger",
		"did", did,
		"amount", amount,
	)
}

// ensureIdentity returns the identity for a DID, creating it lazily on
// first reference. Callers must hold the write lock and must only call
// this once all transaction preconditions have passed, so a rejected
// transaction leaves no trace
func (l *Ledger) ensureIdentity(did types.DID) *types.Identity {
	if identity, ok := l.identities.Get(did); ok {
		return identity
	}
	identity := types.NewIdentity(did)
	l.identities.Put(identity)
	l.logger.Debug(
		"created identity",
		"component", "ledger",
		"did", did,
	)
	return identity
}

// identityView returns the stored identity, or an unstored prototype
// for precondition evaluation against a never-seen DID
func (l *Ledger) identityView(did types.DID) *types.Identity {
	if identity, ok := l.identities.Get(did); ok {
		return identity
	}
	return types.NewIdentity(did)
}

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

package mempool

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/critterworks/critterchain/event"
	"github.com/critterworks/critterchain/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	AddTransactionEventType    event.EventType = "mempool.add_tx"
	RemoveTransactionEventType event.EventType = "mempool.remove_tx"

	// DefaultCapacity is the fallback pending-queue limit
	DefaultCapacity = 10_000
)

type AddTransactionEvent struct {
	ID   string
	Kind types.TransactionKind
}

type RemoveTransactionEvent struct {
	ID string
}

// MempoolTransaction wraps an accepted transaction with queue metadata
type MempoolTransaction struct {
	LastSeen    time.Time
	Transaction types.Transaction
}

type MempoolConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	EventBus     *event.EventBus
	Capacity     int
}

// Mempool is the pending queue of transactions accepted by the ledger
// but not yet included in an appended block. Transactions enter only
// after the ledger has verified and applied them; the only operation
// that drains the queue is block production
type Mempool struct {
	config  MempoolConfig
	metrics struct {
		txsProcessedNum prometheus.Counter
		txsInMempool    prometheus.Gauge
	}
	logger       *slog.Logger
	eventBus     *event.EventBus
	transactions []*MempoolTransaction
	sync.Mutex
}

type MempoolFullError struct {
	CurrentCount int
	Capacity     int
}

func (e *MempoolFullError) Error() string {
	return fmt.Sprintf(
		"mempool full: current count=%d, capacity=%d",
		e.CurrentCount,
		e.Capacity,
	)
}

func NewMempool(config MempoolConfig) *Mempool {
	m := &Mempool{
		eventBus: config.EventBus,
		config:   config,
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		m.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		m.logger = config.Logger
	}
	if m.config.Capacity <= 0 {
		m.config.Capacity = DefaultCapacity
	}
	// Init metrics
	promautoFactory := promauto.With(config.PromRegistry)
	m.metrics.txsProcessedNum = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "critterchain_mempool_txs_processed_total",
			Help: "total transactions accepted into the mempool",
		},
	)
	m.metrics.txsInMempool = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "critterchain_mempool_txs",
		Help: "current count of mempool transactions",
	})
	return m
}

// AddTransaction appends a transaction to the pending queue. A
// transaction id already present refreshes its last-seen time instead
// of appending a second entry, so a transaction appears at most once
func (m *Mempool) AddTransaction(tx types.Transaction) error {
	m.Lock()
	defer m.Unlock()
	// Update last seen for existing TX
	if existingTx := m.getTransaction(tx.ID); existingTx != nil {
		existingTx.LastSeen = time.Now()
		m.logger.Debug(
			"updated last seen for transaction",
			"component", "mempool",
			"tx_id", tx.ID,
		)
		return nil
	}
	// Enforce mempool capacity
	if len(m.transactions) >= m.config.Capacity {
		return &MempoolFullError{
			CurrentCount: len(m.transactions),
			Capacity:     m.config.Capacity,
		}
	}
	m.transactions = append(m.transactions, &MempoolTransaction{
		Transaction: tx,
		LastSeen:    time.Now(),
	})
	m.logger.Debug(
		"added transaction",
		"component", "mempool",
		"tx_id", tx.ID,
		"tx_kind", tx.Kind,
	)
	m.metrics.txsProcessedNum.Inc()
	m.metrics.txsInMempool.Inc()
	if m.eventBus != nil {
		m.eventBus.Publish(
			AddTransactionEventType,
			event.NewEvent(
				AddTransactionEventType,
				AddTransactionEvent{
					ID:   tx.ID,
					Kind: tx.Kind,
				},
			),
		)
	}
	return nil
}

// GetTransaction returns the queued transaction with the given id
func (m *Mempool) GetTransaction(txId string) (types.Transaction, bool) {
	m.Lock()
	defer m.Unlock()
	ret := m.getTransaction(txId)
	if ret == nil {
		return types.Transaction{}, false
	}
	return ret.Transaction, true
}

// Transactions returns a snapshot copy of the pending queue in
// acceptance order
func (m *Mempool) Transactions() []types.Transaction {
	m.Lock()
	defer m.Unlock()
	ret := make([]types.Transaction, len(m.transactions))
	for i := range m.transactions {
		ret[i] = m.transactions[i].Transaction
	}
	return ret
}

// Size returns the current pending-queue length
func (m *Mempool) Size() int {
	m.Lock()
	defer m.Unlock()
	return len(m.transactions)
}

// Capacity returns the configured pending-queue limit
func (m *Mempool) Capacity() int {
	return m.config.Capacity
}

// Full returns true once the pending queue has reached capacity
func (m *Mempool) Full() bool {
	m.Lock()
	defer m.Unlock()
	return len(m.transactions) >= m.config.Capacity
}

// Drain removes and returns the entire pending queue. Only block
// production calls this, after a successful chain append
func (m *Mempool) Drain() []types.Transaction {
	m.Lock()
	defer m.Unlock()
	ret := make([]types.Transaction, len(m.transactions))
	for i, tx := range m.transactions {
		ret[i] = tx.Transaction
		if m.eventBus != nil {
			m.eventBus.Publish(
				RemoveTransactionEventType,
				event.NewEvent(
					RemoveTransactionEventType,
					RemoveTransactionEvent{
						ID: tx.Transaction.ID,
					},
				),
			)
		}
	}
	m.transactions = nil
	m.metrics.txsInMempool.Set(0)
	m.logger.Debug(
		"drained mempool",
		"component", "mempool",
		"tx_count", len(ret),
	)
	return ret
}

func (m *Mempool) getTransaction(txId string) *MempoolTransaction {
	for _, tx := range m.transactions {
		if tx.Transaction.ID == txId {
			return tx
		}
	}
	return nil
}

// RemoveTransaction removes a single transaction from the pending queue
func (m *Mempool) RemoveTransaction(txId string) {
	m.Lock()
	defer m.Unlock()
	for txIdx, tx := range m.transactions {
		if tx.Transaction.ID != txId {
			continue
		}
		m.transactions = slices.Delete(m.transactions, txIdx, txIdx+1)
		m.metrics.txsInMempool.Dec()
		m.logger.Debug(
			"removed transaction",
			"component", "mempool",
			"tx_id", txId,
		)
		if m.eventBus != nil {
			m.eventBus.Publish(
				RemoveTransactionEventType,
				event.NewEvent(
					RemoveTransactionEventType,
					RemoveTransactionEvent{
						ID: txId,
					},
				),
			)
		}
		return
	}
}

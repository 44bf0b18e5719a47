// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/minichain/node/foundation/blockchain/database"
)

// Mempool represents the ordered set of transactions waiting to be sealed
// into a block. Insertion order is kept since it is part of the block hash.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert appends a transaction to the mempool and returns the new count.
// Transactions have no identity beyond their fields so duplicates are kept.
func (mp *Mempool) Upsert(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Drain removes and returns all the transactions in insertion order.
func (mp *Mempool) Drain() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trans := mp.pool
	mp.pool = nil

	if trans == nil {
		return []database.Tx{}
	}

	return trans
}

// Copy returns the transactions in insertion order without removing them.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Tx, len(mp.pool))
	copy(trans, mp.pool)

	return trans
}

// Package database maintains the chain of blocks in memory, the difficulty
// of the puzzle and the rules for validating a chain.
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/minichain/node/foundation/blockchain/genesis"
	"github.com/minichain/node/foundation/blockchain/pow"
)

// ErrInvalidChain is returned when a chain fails structural or proof validation.
var ErrInvalidChain = errors.New("invalid chain")

// =============================================================================

// Database manages the chain of blocks and the current difficulty. It is not
// safe for concurrent use, the state package serializes access to it.
type Database struct {
	genesis    genesis.Genesis
	retarget   pow.Retarget
	difficulty int
	blocks     []Block
	now        func() time.Time
	evHandler  func(v string, args ...any)
}

// New constructs a database holding only the genesis block. A nil clock
// defaults to time.Now.
func New(gen genesis.Genesis, now func() time.Time, evHandler func(v string, args ...any)) *Database {
	if now == nil {
		now = time.Now
	}
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	db := Database{
		genesis: gen,
		retarget: pow.Retarget{
			Interval:        gen.RetargetInterval,
			TargetBlockTime: time.Duration(gen.TargetBlockTime),
		},
		difficulty: gen.Difficulty,
		blocks:     []Block{NewGenesisBlock(gen.Proof, now())},
		now:        now,
		evHandler:  evHandler,
	}

	evHandler("database: New: genesis block created: hash[%s]", db.blocks[0].Hash())

	return &db
}

// Genesis returns the parameters the database was constructed with.
func (db *Database) Genesis() genesis.Genesis {
	return db.genesis
}

// Difficulty returns the current difficulty of the puzzle.
func (db *Database) Difficulty() int {
	return db.difficulty
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() int {
	return len(db.blocks)
}

// LatestBlock returns the most recently appended block.
func (db *Database) LatestBlock() Block {
	return db.blocks[len(db.blocks)-1]
}

// Copy returns a copy of the full chain.
func (db *Database) Copy() []Block {
	blocks := make([]Block, len(db.blocks))
	for i, b := range db.blocks {
		blocks[i] = copyBlock(b)
	}

	return blocks
}

// SealBlock appends a new block holding the specified transactions and proof.
// An empty prevHash links the block to the latest block. The difficulty is
// retargeted after the block is appended.
func (db *Database) SealBlock(proof int64, prevHash string, trans []Tx) Block {
	if prevHash == "" {
		prevHash = db.LatestBlock().Hash()
	}

	txs := make([]Tx, len(trans))
	copy(txs, trans)

	block := Block{
		Index:        uint64(len(db.blocks) + 1),
		TimeStamp:    ToTimeStamp(db.now()),
		Transactions: txs,
		Proof:        proof,
		PrevHash:     prevHash,
	}

	db.blocks = append(db.blocks, block)
	db.evHandler("database: SealBlock: blk[%d]: proof[%d]: trans[%d]", block.Index, block.Proof, len(block.Transactions))

	db.adjustDifficulty()

	return block
}

// adjustDifficulty applies the retargeting policy to the current chain.
func (db *Database) adjustDifficulty() {
	timestamps := make([]float64, len(db.blocks))
	for i, b := range db.blocks {
		timestamps[i] = b.TimeStamp
	}

	difficulty := db.retarget.Adjust(db.difficulty, timestamps)
	switch {
	case difficulty > db.difficulty:
		db.evHandler("database: adjustDifficulty: difficulty increased to %d", difficulty)
	case difficulty < db.difficulty:
		db.evHandler("database: adjustDifficulty: difficulty decreased to %d", difficulty)
	}

	db.difficulty = difficulty
}

// ValidateChain walks the chain pairwise and checks every block links to the
// hash of its predecessor and solves the puzzle against its proof under the
// current difficulty. The first broken link is reported.
func (db *Database) ValidateChain(blocks []Block) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: chain is empty", ErrInvalidChain)
	}

	prev := blocks[0]
	for _, block := range blocks[1:] {
		if hash := prev.Hash(); block.PrevHash != hash {
			return fmt.Errorf("%w: blk[%d]: previous hash doesn't match, got %s, exp %s", ErrInvalidChain, block.Index, block.PrevHash, hash)
		}

		if !pow.ValidProof(db.difficulty, prev.Proof, block.Proof) {
			return fmt.Errorf("%w: blk[%d]: proof %d doesn't solve the puzzle at difficulty %d", ErrInvalidChain, block.Index, block.Proof, db.difficulty)
		}

		prev = block
	}

	return nil
}

// Replace swaps the full chain. The caller is responsible for validating it.
func (db *Database) Replace(blocks []Block) {
	chain := make([]Block, len(blocks))
	for i, b := range blocks {
		chain[i] = copyBlock(b)
	}

	db.blocks = chain
	db.evHandler("database: Replace: chain replaced: length[%d]", len(chain))
}

// copyBlock returns a block that shares no memory with the original.
func copyBlock(b Block) Block {
	txs := make([]Tx, len(b.Transactions))
	copy(txs, b.Transactions)
	b.Transactions = txs

	return b
}

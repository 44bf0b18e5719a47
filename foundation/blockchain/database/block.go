package database

import (
	"time"

	"github.com/minichain/node/foundation/blockchain/signature"
)

// Block represents a group of transactions batched together.
type Block struct {
	Index        uint64  `json:"index"`         // Position in the chain, starting at 1.
	TimeStamp    float64 `json:"timestamp"`     // Seconds since the epoch the block was sealed.
	Transactions []Tx    `json:"transactions"`  // Order is part of the block hash.
	Proof        int64   `json:"proof"`         // Solves the puzzle against the previous block's proof.
	PrevHash     string  `json:"previous_hash"` // Hash of the previous block, zeros for genesis.
}

// NewGenesisBlock constructs the first block of every chain.
func NewGenesisBlock(proof int64, now time.Time) Block {
	return Block{
		Index:        1,
		TimeStamp:    ToTimeStamp(now),
		Transactions: []Tx{},
		Proof:        proof,
		PrevHash:     signature.ZeroHash,
	}
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	data, err := signature.Canonical(b.canonical())
	if err != nil {
		return signature.ZeroHash
	}

	return signature.Hash(data)
}

// canonical returns the sorted key representation used for hashing.
func (b Block) canonical() signature.Object {
	trans := make([]signature.Object, len(b.Transactions))
	for i, tx := range b.Transactions {
		trans[i] = tx.canonical()
	}

	return signature.Object{
		{Key: "index", Value: int64(b.Index)},
		{Key: "previous_hash", Value: b.PrevHash},
		{Key: "proof", Value: b.Proof},
		{Key: "timestamp", Value: b.TimeStamp},
		{Key: "transactions", Value: trans},
	}
}

// ToTimeStamp converts a time value into fractional seconds since the epoch.
func ToTimeStamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

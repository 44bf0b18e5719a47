package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/genesis"
	"github.com/minichain/node/foundation/blockchain/pow"
	"github.com/minichain/node/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// stepClock returns a clock that moves forward by step on every call.
func stepClock(step time.Duration) func() time.Time {
	now := time.Unix(1_700_000_000, 0)
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func testGenesis(difficulty int) genesis.Genesis {
	gen := genesis.Default()
	gen.Difficulty = difficulty

	return gen
}

// mine appends n blocks holding valid proofs.
func mine(t *testing.T, db *database.Database, n int) {
	for range n {
		latest := db.LatestBlock()

		proof, err := pow.Solve(context.Background(), db.Difficulty(), latest.Proof, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to solve the puzzle : %s", failed, err)
		}

		tx := database.Tx{Sender: "a", Recipient: "b", Amount: int64(latest.Index)}
		db.SealBlock(proof, "", []database.Tx{tx})
	}
}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a chain.")
	{
		t.Logf("\tTest 0:\tWhen creating a new database.")
		{
			db := database.New(testGenesis(1), stepClock(time.Second), nil)

			if db.Length() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould hold a single block : got %d", failed, db.Length())
			}
			t.Logf("\t%s\tTest 0:\tShould hold a single block.", success)

			block := db.LatestBlock()
			if block.Index != 1 || block.Proof != genesis.DefaultProof || block.PrevHash != signature.ZeroHash || len(block.Transactions) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould get back the genesis block : got %+v", failed, block)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the genesis block.", success)

			if hash := db.Copy()[0].Hash(); hash != block.Hash() || len(hash) != 64 {
				t.Fatalf("\t%s\tTest 0:\tShould get a stable block hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get a stable block hash.", success)
		}
	}
}

func Test_BlockHash(t *testing.T) {
	type table struct {
		name  string
		block database.Block
		hash  string
	}

	tt := []table{
		{
			name: "genesis",
			block: database.Block{
				Index:        1,
				TimeStamp:    1700000000.123456,
				Transactions: []database.Tx{},
				Proof:        100,
				PrevHash:     signature.ZeroHash,
			},
			hash: "d0193a2ebc062f126f78bec1b270be50a2b5a91324e9c5c982fb77c58cd7b529",
		},
		{
			name: "transactions",
			block: database.Block{
				Index:     2,
				TimeStamp: 1700000010.5,
				Transactions: []database.Tx{
					{Sender: database.RewardSender, Recipient: "miner", Amount: 1},
					{Sender: "alice", Recipient: "bob", Amount: 0},
				},
				Proof:    35293,
				PrevHash: "d0193a2ebc062f126f78bec1b270be50a2b5a91324e9c5c982fb77c58cd7b529",
			},
			hash: "2a5e23960a79dd2e1586e08d7b85763e770816c05c3d62e4737b209eea49a27c",
		},
	}

	t.Log("Given the need to hash blocks the same way on every node.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen hashing the %s block.", testID, tst.name)
			{
				if hash := tst.block.Hash(); hash != tst.hash {
					t.Fatalf("\t%s\tTest %d:\tShould get the known digest : got %s, exp %s", failed, testID, hash, tst.hash)
				}
				t.Logf("\t%s\tTest %d:\tShould get the known digest.", success, testID)
			}
		}
	}
}

func Test_BlockHashFields(t *testing.T) {
	base := func() database.Block {
		return database.Block{
			Index:     2,
			TimeStamp: 1700000010.5,
			Transactions: []database.Tx{
				{Sender: database.RewardSender, Recipient: "miner", Amount: 1},
				{Sender: "alice", Recipient: "bob", Amount: 2},
			},
			Proof:    35293,
			PrevHash: signature.ZeroHash,
		}
	}

	type table struct {
		name   string
		mutate func(b *database.Block)
	}

	tt := []table{
		{name: "index", mutate: func(b *database.Block) { b.Index++ }},
		{name: "timestamp", mutate: func(b *database.Block) { b.TimeStamp += 0.000001 }},
		{name: "proof", mutate: func(b *database.Block) { b.Proof++ }},
		{name: "previous hash", mutate: func(b *database.Block) { b.PrevHash = strings.Repeat("1", 64) }},
		{name: "transaction order", mutate: func(b *database.Block) {
			b.Transactions[0], b.Transactions[1] = b.Transactions[1], b.Transactions[0]
		}},
		{name: "transaction amount", mutate: func(b *database.Block) { b.Transactions[1].Amount++ }},
		{name: "transaction recipient", mutate: func(b *database.Block) { b.Transactions[1].Recipient = "carol" }},
	}

	t.Log("Given the need for the block hash to cover every field.")
	{
		orig := base().Hash()

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen changing the %s.", testID, tst.name)
			{
				block := base()
				tst.mutate(&block)

				if block.Hash() == orig {
					t.Fatalf("\t%s\tTest %d:\tShould change the digest.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould change the digest.", success, testID)
			}
		}
	}
}

func Test_SealBlock(t *testing.T) {
	t.Log("Given the need to append blocks to the chain.")
	{
		t.Logf("\tTest 0:\tWhen sealing a block.")
		{
			db := database.New(testGenesis(1), stepClock(time.Second), nil)
			genesisHash := db.LatestBlock().Hash()

			trans := []database.Tx{{Sender: "a", Recipient: "b", Amount: 1}}
			block := db.SealBlock(35, "", trans)

			if block.Index != 2 || block.PrevHash != genesisHash || block.Proof != 35 {
				t.Fatalf("\t%s\tTest 0:\tShould link the block to the latest block : got %+v", failed, block)
			}
			t.Logf("\t%s\tTest 0:\tShould link the block to the latest block.", success)

			trans[0].Amount = 99
			if db.LatestBlock().Transactions[0].Amount != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould not share memory with the caller.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not share memory with the caller.", success)

			block = db.SealBlock(7, "explicit", nil)
			if block.PrevHash != "explicit" || block.Transactions == nil {
				t.Fatalf("\t%s\tTest 0:\tShould keep an explicit previous hash : got %+v", failed, block)
			}
			t.Logf("\t%s\tTest 0:\tShould keep an explicit previous hash.", success)
		}
	}
}

func Test_ValidateChain(t *testing.T) {
	type table struct {
		name    string
		mutate  func(blocks []database.Block)
		success bool
		blk     string
	}

	tt := []table{
		{name: "untouched", mutate: func([]database.Block) {}, success: true},
		{name: "genesis only", mutate: nil, success: true},
		{name: "tampered tx", mutate: func(b []database.Block) { b[2].Transactions[0].Amount = 1000 }, blk: "blk[4]:"},
		{name: "tampered hash", mutate: func(b []database.Block) { b[3].PrevHash = signature.ZeroHash }, blk: "blk[4]:"},
		{
			name: "two broken links",
			mutate: func(b []database.Block) {
				b[1].Transactions[0].Amount = 1000
				b[4].PrevHash = signature.ZeroHash
			},
			blk: "blk[3]:",
		},
		{
			name: "bad proof",
			mutate: func(b []database.Block) {
				last := len(b) - 1
				for p := int64(0); ; p++ {
					if !pow.ValidProof(1, b[last-1].Proof, p) {
						b[last].Proof = p
						return
					}
				}
			},
			blk: "blk[5]:",
		},
	}

	t.Log("Given the need to validate a chain.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s chain.", testID, tst.name)
			{
				f := func(t *testing.T) {
					db := database.New(testGenesis(1), stepClock(time.Second), nil)

					blocks := db.Copy()
					if tst.mutate != nil {
						mine(t, db, 4)
						blocks = db.Copy()
						tst.mutate(blocks)
					}

					err := db.ValidateChain(blocks)
					if tst.success {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould accept the chain : %s", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould accept the chain.", success, testID)
						return
					}

					if !errors.Is(err, database.ErrInvalidChain) {
						t.Fatalf("\t%s\tTest %d:\tShould reject the chain : got %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the chain.", success, testID)

					if !strings.Contains(err.Error(), tst.blk) {
						t.Fatalf("\t%s\tTest %d:\tShould report the first broken link %s : got %v", failed, testID, tst.blk, err)
					}
					t.Logf("\t%s\tTest %d:\tShould report the first broken link %s.", success, testID, tst.blk)

					if err := db.ValidateChain(db.Copy()); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould not change the stored chain : %s", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould not change the stored chain.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_ValidateEmpty(t *testing.T) {
	db := database.New(testGenesis(1), nil, nil)

	if err := db.ValidateChain(nil); !errors.Is(err, database.ErrInvalidChain) {
		t.Fatalf("\t%s\tShould reject an empty chain : got %v", failed, err)
	}
	t.Logf("\t%s\tShould reject an empty chain.", success)
}

func Test_Retarget(t *testing.T) {
	type table struct {
		name       string
		difficulty int
		step       time.Duration
		exp        int
	}

	tt := []table{
		{name: "fast", difficulty: 1, step: 2 * time.Second, exp: 2},
		{name: "slow", difficulty: 3, step: 15 * time.Second, exp: 2},
		{name: "on target", difficulty: 3, step: 10 * time.Second, exp: 3},
		{name: "floor", difficulty: 1, step: 15 * time.Second, exp: 1},
	}

	t.Log("Given the need to retarget the difficulty every interval.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen blocks are %s apart.", testID, tst.step)
			{
				f := func(t *testing.T) {
					db := database.New(testGenesis(tst.difficulty), stepClock(tst.step), nil)

					for i := 0; i < genesis.DefaultRetargetInterval-2; i++ {
						db.SealBlock(0, "", nil)
					}
					if db.Difficulty() != tst.difficulty {
						t.Fatalf("\t%s\tTest %d:\tShould not adjust before the interval : got %d", failed, testID, db.Difficulty())
					}
					t.Logf("\t%s\tTest %d:\tShould not adjust before the interval.", success, testID)

					db.SealBlock(0, "", nil)
					if db.Difficulty() != tst.exp {
						t.Fatalf("\t%s\tTest %d:\tShould adjust at the interval : got %d, exp %d", failed, testID, db.Difficulty(), tst.exp)
					}
					t.Logf("\t%s\tTest %d:\tShould adjust at the interval.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Replace(t *testing.T) {
	t.Log("Given the need to replace the chain.")
	{
		other := database.New(testGenesis(1), stepClock(time.Second), nil)
		mine(t, other, 3)

		db := database.New(testGenesis(1), stepClock(time.Second), nil)
		blocks := other.Copy()
		db.Replace(blocks)

		if db.Length() != 4 || db.LatestBlock().Hash() != other.LatestBlock().Hash() {
			t.Fatalf("\t%s\tShould hold the new chain : got length %d", failed, db.Length())
		}
		t.Logf("\t%s\tShould hold the new chain.", success)

		blocks[3].Proof++
		if db.LatestBlock().Hash() != other.LatestBlock().Hash() {
			t.Fatalf("\t%s\tShould not share memory with the caller.", failed)
		}
		t.Logf("\t%s\tShould not share memory with the caller.", success)
	}
}

package mempool_test

import (
	"testing"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				{Sender: "a1b2c3d4e5f60718", Recipient: "0f1e2d3c4b5a6978", Amount: 10},
				{Sender: "0f1e2d3c4b5a6978", Recipient: "a1b2c3d4e5f60718", Amount: 0},
				{Sender: "a1b2c3d4e5f60718", Recipient: "0f1e2d3c4b5a6978", Amount: 10},
				{Sender: "0", Recipient: "miner", Amount: 1},
			},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for i, tx := range tst.txs {
						if n := mp.Upsert(tx); n != i+1 {
							t.Fatalf("\t%s\tTest %d:\tShould get back the new count, got %d, exp %d.", failed, testID, n, i+1)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add transactions, duplicates included.", success, testID)

					for i, tx := range mp.Copy() {
						if tx != tst.txs[i] {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back transactions in insertion order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back transactions in insertion order.", success, testID)

					if mp.Count() != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tCopy should not remove transactions.", failed, testID)
					}

					trans := mp.Drain()
					if len(trans) != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tShould drain all transactions, got %d.", failed, testID, len(trans))
					}
					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould leave the pool empty after drain.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to drain the pool.", success, testID)

					if trans := mp.Drain(); trans == nil || len(trans) != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould drain an empty, non nil slice.", failed, testID)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

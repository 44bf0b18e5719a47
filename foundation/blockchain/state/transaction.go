package state

import (
	"github.com/minichain/node/foundation/blockchain/database"
)

// SubmitTransaction accepts a transaction from a wallet for inclusion. It
// returns the index of the block the transaction is expected to land in.
// That index is a hint, mining or a chain replacement can change it.
func (s *State) SubmitTransaction(signedTx database.SignedTx) (uint64, error) {
	if s.verifySignatures {
		if err := signedTx.Verify(); err != nil {
			return 0, err
		}
	}

	tx, err := database.NewTx(signedTx.Sender, signedTx.Recipient, signedTx.Amount)
	if err != nil {
		return 0, err
	}

	next := s.upsertTransaction(tx)

	s.evHandler("state: SubmitTransaction: tx[%s]: next block[%d]", tx, next)
	s.signalStartMining()

	return next, nil
}

// upsertTransaction adds the transaction and reads the next block index in
// the same critical section.
func (s *State) upsertTransaction(tx database.Tx) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mempool.Upsert(tx)

	return s.db.LatestBlock().Index + 1
}

package state

import (
	"context"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/pow"
)

// MineNewBlock solves the puzzle against the latest block, credits the mining
// reward and seals a new block with everything in the mempool. The search runs
// without holding the lock. If the chain moved while searching, the search is
// started again against the new latest block.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	for {
		latest, difficulty := s.miningTarget()

		s.evHandler("state: MineNewBlock: MINING: perform POW: blk[%d]", latest.Index+1)

		proof, err := pow.Solve(ctx, difficulty, latest.Proof, s.evHandler)
		if err != nil {
			return database.Block{}, err
		}

		// Just check one more time we were not cancelled.
		if ctx.Err() != nil {
			return database.Block{}, ctx.Err()
		}

		block, sealed := s.sealBlock(latest, difficulty, proof)
		if sealed {
			return block, nil
		}

		s.evHandler("state: MineNewBlock: MINING: chain moved while solving, restarting")
	}
}

// miningTarget captures the block and difficulty the search runs against.
func (s *State) miningTarget() (database.Block, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.LatestBlock(), s.db.Difficulty()
}

// sealBlock appends the block if the chain still ends with the block the
// proof was solved against. It reports false when the proof went stale.
func (s *State) sealBlock(solvedOn database.Block, difficulty int, proof int64) (database.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := s.db.LatestBlock()
	if latest.Index != solvedOn.Index || latest.Hash() != solvedOn.Hash() || s.db.Difficulty() != difficulty {
		return database.Block{}, false
	}

	s.evHandler("state: sealBlock: MINING: credit reward: node[%s]", s.nodeID)

	reward := database.Tx{
		Sender:    database.RewardSender,
		Recipient: s.nodeID,
		Amount:    s.db.Genesis().MiningReward,
	}
	s.mempool.Upsert(reward)

	return s.db.SealBlock(proof, "", s.mempool.Drain()), true
}

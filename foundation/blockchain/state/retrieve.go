package state

import (
	"github.com/minichain/node/foundation/blockchain/accounts"
	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/genesis"
	"github.com/minichain/node/foundation/blockchain/peer"
)

// RetrieveNodeID returns the identifier credited with mining rewards.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Genesis()
}

// RetrieveChain returns a copy of the full chain.
func (s *State) RetrieveChain() []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Copy()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.LatestBlock()
}

// RetrieveDifficulty returns the current difficulty of the puzzle.
func (s *State) RetrieveDifficulty() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Difficulty()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.knownPeers.Copy(s.host)
}

// RetrieveStatus returns the status this node reports to its peers.
func (s *State) RetrieveStatus() peer.PeerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := s.db.LatestBlock()

	return peer.PeerStatus{
		LatestBlockHash:  latest.Hash(),
		LatestBlockIndex: latest.Index,
		Difficulty:       s.db.Difficulty(),
		KnownPeers:       s.knownPeers.Copy(s.host),
	}
}

// =============================================================================

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mempool.Count()
}

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Length()
}

// QueryAccounts folds the current chain into the information for every
// address that has transacted.
func (s *State) QueryAccounts() map[string]accounts.Info {
	return accounts.New(s.RetrieveChain()).Copy()
}

// QueryAccount folds the current chain into the information for an address.
func (s *State) QueryAccount(address string) accounts.Info {
	return accounts.New(s.RetrieveChain()).Query(address)
}

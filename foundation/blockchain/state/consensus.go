package state

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/peer"
)

// RegisterPeer adds the network location of the address to the known peers.
// It reports false if the peer was already known.
func (s *State) RegisterPeer(address string) (peer.Peer, bool, error) {
	pr, err := peer.Parse(address)
	if err != nil {
		return peer.Peer{}, false, err
	}

	s.mu.Lock()
	added := s.knownPeers.Add(pr)
	s.mu.Unlock()

	if added {
		s.evHandler("state: RegisterPeer: registered peer-node[%s]", pr)
	}

	return pr, added, nil
}

// RegisterPeers registers every address. Invalid addresses are rejected one
// by one without stopping the rest, the rejections are returned together.
func (s *State) RegisterPeers(addresses []string) ([]peer.Peer, error) {
	var merr *multierror.Error
	var peers []peer.Peer

	for _, address := range addresses {
		pr, _, err := s.RegisterPeer(address)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%q: %w", address, err))
			continue
		}
		peers = append(peers, pr)
	}

	return peers, merr.ErrorOrNil()
}

// =============================================================================

// peerChain is the outcome of asking one peer for its chain.
type peerChain struct {
	peer  peer.Peer
	chain Chain
	ok    bool
}

// Resolve implements the longest valid chain rule. Every known peer is asked
// for its chain. The longest chain that is strictly longer than ours and
// passes validation replaces ours. Unreachable peers and invalid chains are
// skipped. Between chains of the same length the first one found wins, the
// peer order carries no meaning. It reports if the chain was replaced.
func (s *State) Resolve(ctx context.Context) (bool, error) {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	peers := s.RetrieveKnownPeers()
	results := make([]peerChain, len(peers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxPeerFetch)

	for i, pr := range peers {
		g.Go(func() error {
			chain, err := s.NetRequestPeerChain(gctx, pr)
			if err != nil {
				s.evHandler("state: Resolve: %s: WARNING: %s", pr, err)
				return nil
			}
			results[i] = peerChain{peer: pr, chain: chain, ok: true}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	maxLength := s.db.Length()
	var longest []database.Block

	for _, res := range results {
		if !res.ok || res.chain.Length <= maxLength {
			continue
		}

		if err := s.validatePeerChainLocked(res.chain); err != nil {
			s.evHandler("state: Resolve: %s: WARNING: %s", res.peer, err)
			continue
		}

		s.evHandler("state: Resolve: %s: candidate chain: length[%d]", res.peer, res.chain.Length)
		maxLength = res.chain.Length
		longest = res.chain.Chain
	}

	if longest == nil {
		s.evHandler("state: Resolve: our chain is authoritative: length[%d]", s.db.Length())
		return false, nil
	}

	s.db.Replace(longest)
	s.signalCancelMining()

	s.evHandler("state: Resolve: our chain was replaced: length[%d]", len(longest))

	return true, nil
}

// validatePeerChainLocked checks the declared length against the blocks
// received and validates the chain.
func (s *State) validatePeerChainLocked(chain Chain) error {
	if chain.Length != len(chain.Chain) {
		return fmt.Errorf("%w: declared length %d, received %d blocks", database.ErrInvalidChain, chain.Length, len(chain.Chain))
	}

	return s.db.ValidateChain(chain.Chain)
}

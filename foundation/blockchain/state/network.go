package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/peer"
)

// baseURL is the root of the node to node api.
const baseURL = "http://%s/v1/node"

// ErrUnreachablePeer is returned when a peer can't be queried.
var ErrUnreachablePeer = errors.New("unreachable peer")

// Chain is the representation of a chain exchanged between nodes.
type Chain struct {
	Chain  []database.Block `json:"chain"`
	Length int              `json:"length"`
}

// =============================================================================

// NetRequestPeerChain asks the peer for its full chain. The request is bounded
// by the configured peer timeout.
func (s *State) NetRequestPeerChain(ctx context.Context, pr peer.Peer) (Chain, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr)

	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/chain", fmt.Sprintf(baseURL, pr.Host))

	var chain Chain
	if err := send(ctx, s.client, http.MethodGet, url, nil, &chain); err != nil {
		return Chain{}, fmt.Errorf("%w: %s: %s", ErrUnreachablePeer, pr.Host, err)
	}

	s.evHandler("state: NetRequestPeerChain: peer-node[%s]: length[%d]", pr, chain.Length)

	return chain, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func send(ctx context.Context, client *http.Client, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(io.LimitReader(resp.Body, defaultMaxChainBytes)).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}

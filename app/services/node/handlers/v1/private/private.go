// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/minichain/node/business/sys/validate"
	"github.com/minichain/node/business/web/errs"
	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/state"
	"github.com/minichain/node/foundation/web"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Chain returns the full chain. This is what peers fetch during consensus.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.RetrieveChain()

	chain := state.Chain{
		Chain:  blocks,
		Length: len(blocks),
	}

	return web.Respond(ctx, w, chain, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveStatus(), http.StatusOK)
}

// RegisterPeers adds the specified nodes to the known peers. Invalid
// addresses are reported back without failing the request.
func (h Handlers) RegisterPeers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req struct {
		Nodes []string `json:"nodes" validate:"required,min=1"`
	}
	if err := web.Decode(r, &req); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return errs.BadRequest(errors.New("please supply a valid list of nodes"))
	}

	peers, err := h.State.RegisterPeers(req.Nodes)

	failures := []string{}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			failures = append(failures, e.Error())
		}
	}

	h.Log.Infow("register peers", "traceid", v.TraceID, "added", len(peers), "errors", len(failures))

	hosts := []string{}
	for _, pr := range h.State.RetrieveKnownPeers() {
		hosts = append(hosts, pr.Host)
	}

	resp := struct {
		Message    string   `json:"message"`
		TotalNodes []string `json:"total_nodes"`
		Errors     []string `json:"errors"`
	}{
		Message:    "New nodes have been added",
		TotalNodes: hosts,
		Errors:     failures,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Resolve runs the consensus algorithm against the known peers.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.State.Resolve(ctx)
	if err != nil {
		return err
	}

	resp := struct {
		Message string           `json:"message"`
		Chain   []database.Block `json:"chain"`
	}{
		Message: "Our chain is authoritative",
		Chain:   h.State.RetrieveChain(),
	}
	if replaced {
		resp.Message = "Our chain was replaced"
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

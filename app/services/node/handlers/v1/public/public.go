// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/minichain/node/business/sys/validate"
	"github.com/minichain/node/business/web/errs"
	"github.com/minichain/node/foundation/blockchain/accounts"
	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/signature"
	"github.com/minichain/node/foundation/blockchain/state"
	"github.com/minichain/node/foundation/events"
	"github.com/minichain/node/foundation/nameservice"
	"github.com/minichain/node/foundation/web"
)

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Chain returns the full chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.RetrieveChain()

	chain := state.Chain{
		Chain:  blocks,
		Length: len(blocks),
	}

	return web.Respond(ctx, w, chain, http.StatusOK)
}

// SubmitTransaction adds a new wallet transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx submitTx
	if err := web.Decode(r, &tx); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(tx); err != nil {
		return err
	}

	signedTx := tx.toSignedTx()

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", signedTx.Tx)

	next, err := h.State.SubmitTransaction(signedTx)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrInvalidAmount),
			errors.Is(err, database.ErrInvalidAddress),
			errors.Is(err, signature.ErrInvalidSignature):
			return errs.BadRequest(err)
		}
		return fmt.Errorf("submit transaction: %w", err)
	}

	resp := message{
		Message: fmt.Sprintf("Transaction will be added to Block %d", next),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.State.RetrieveMempool()
	return web.Respond(ctx, w, txs, http.StatusOK)
}

// Mine forges a new block with everything in the mempool and the reward for
// this node. The search is cancelled if the client goes away.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineNewBlock(ctx)
	if err != nil {
		return fmt.Errorf("mine: %w", err)
	}

	resp := forged{
		Message:      "New Block Forged",
		Index:        block.Index,
		Transactions: block.Transactions,
		Proof:        block.Proof,
		PrevHash:     block.PrevHash,
		TimeStamp:    block.TimeStamp,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the parameters the chain was started with.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Accounts returns the totals for every account on the chain, ordered by
// address.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	infos := h.State.QueryAccounts()

	resp := make([]account, 0, len(infos))
	for address, info := range infos {
		resp = append(resp, h.toAccount(address, info))
	}
	slices.SortFunc(resp, func(a, b account) int {
		return strings.Compare(a.Account, b.Account)
	})

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Account returns the totals the chain holds for the account.
func (h Handlers) Account(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "account")

	info := h.State.QueryAccount(address)

	return web.Respond(ctx, w, h.toAccount(address, info), http.StatusOK)
}

func (h Handlers) toAccount(address string, info accounts.Info) account {
	return account{
		Account:      address,
		Name:         h.NS.Lookup(address),
		Received:     info.Received,
		Sent:         info.Sent,
		Balance:      info.Balance(),
		Transactions: info.Trans,
	}
}

package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/minichain/node/app/services/node/handlers"
	"github.com/minichain/node/business/sys/metrics"
	"github.com/minichain/node/foundation/blockchain/genesis"
	"github.com/minichain/node/foundation/blockchain/state"
	"github.com/minichain/node/foundation/events"
	"github.com/minichain/node/foundation/nameservice"
)

func newMuxConfig(t *testing.T) handlers.MuxConfig {
	gen := genesis.Default()
	gen.Difficulty = 1

	st, err := state.New(state.Config{
		NodeID:  "node1",
		Host:    "localhost:9080",
		Genesis: gen,
	})
	require.NoError(t, err)

	ns, err := nameservice.New("")
	require.NoError(t, err)

	return handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		NS:       ns,
		Evts:     events.New(),
		Metrics:  metrics.New(st),
	}
}

func do(h http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestPublicSubmitAndMine(t *testing.T) {
	cfg := newMuxConfig(t)
	mux := handlers.PublicMux(cfg)

	w := do(mux, http.MethodPost, "/v1/tx/submit", `{"sender":"a","recipient":"b","amount":5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "Transaction will be added to Block 2")

	w = do(mux, http.MethodPost, "/v1/tx/submit", `{"sender":"a","recipient":"c","amount":0}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "Transaction will be added to Block 2")

	w = do(mux, http.MethodPost, "/v1/tx/submit", `{"sender":"a","recipient":"b","amount":-1}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = do(mux, http.MethodPost, "/v1/tx/submit", `{"sender":"a","recipient":"b"}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "amount")

	w = do(mux, http.MethodGet, "/v1/mine", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var forged struct {
		Message      string `json:"message"`
		Index        uint64 `json:"index"`
		Transactions []any  `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forged))
	require.Equal(t, "New Block Forged", forged.Message)
	require.Equal(t, uint64(2), forged.Index)
	require.Len(t, forged.Transactions, 3)

	w = do(mux, http.MethodGet, "/v1/chain", "")
	require.Equal(t, http.StatusOK, w.Code)

	var chain state.Chain
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chain))
	require.Equal(t, 2, chain.Length)
	require.Len(t, chain.Chain, 2)

	w = do(mux, http.MethodGet, "/v1/accounts/list/node1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"balance":1`)

	w = do(mux, http.MethodGet, "/v1/accounts/list", "")
	require.Equal(t, http.StatusOK, w.Code)

	var accts []struct {
		Account string `json:"account"`
		Balance int64  `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accts))
	require.Len(t, accts, 4)
	require.Equal(t, "a", accts[0].Account)
	require.Equal(t, int64(-5), accts[0].Balance)
	require.Equal(t, "c", accts[2].Account)
	require.Equal(t, int64(0), accts[2].Balance)
	require.Equal(t, "node1", accts[3].Account)
}

func TestPublicGenesis(t *testing.T) {
	cfg := newMuxConfig(t)
	mux := handlers.PublicMux(cfg)

	w := do(mux, http.MethodGet, "/v1/genesis/list", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var gen genesis.Genesis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gen))
	require.Equal(t, 1, gen.Difficulty)
	require.Equal(t, int64(genesis.DefaultProof), gen.Proof)
	require.Equal(t, genesis.Duration(genesis.DefaultTargetBlockTime), gen.TargetBlockTime)
}

func TestPrivateRegisterPeers(t *testing.T) {
	cfg := newMuxConfig(t)
	mux := handlers.PrivateMux(cfg)

	w := do(mux, http.MethodPost, "/v1/node/peers", `{"nodes":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = do(mux, http.MethodPost, "/v1/node/peers", `{"nodes":["http://192.168.0.5:5000","http://"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Message    string   `json:"message"`
		TotalNodes []string `json:"total_nodes"`
		Errors     []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, []string{"192.168.0.5:5000"}, resp.TotalNodes)
	require.Len(t, resp.Errors, 1)

	w = do(mux, http.MethodGet, "/v1/node/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"latest_block_index":1`)
}

func TestDebugMux(t *testing.T) {
	cfg := newMuxConfig(t)
	mux := handlers.DebugMux("test", cfg.Log, cfg.State, cfg.Metrics)

	w := do(mux, http.MethodGet, "/debug/readiness", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(mux, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "minichain_chain_length 1")
}

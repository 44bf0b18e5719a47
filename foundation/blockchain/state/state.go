// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/genesis"
	"github.com/minichain/node/foundation/blockchain/mempool"
	"github.com/minichain/node/foundation/blockchain/peer"
)

// Default values used when the configuration leaves them unset.
const (
	defaultPeerTimeout   = 3 * time.Second
	defaultMaxPeerFetch  = 8
	defaultMaxChainBytes = 64 << 20
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and peer updates.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	NodeID           string
	Host             string
	Genesis          genesis.Genesis
	KnownPeers       *peer.PeerSet
	PeerTimeout      time.Duration
	MaxPeerFetch     int
	AutoMine         bool
	VerifySignatures bool
	Now              func() time.Time
	EvHandler        EventHandler
}

// State manages the blockchain database. A single mutex guards the chain,
// the mempool, the difficulty and the peer set. Exported methods take the
// lock, unexported methods ending in Locked expect the caller to hold it.
type State struct {
	mu sync.Mutex

	nodeID           string
	host             string
	autoMine         bool
	verifySignatures bool
	peerTimeout      time.Duration
	maxPeerFetch     int
	evHandler        EventHandler
	client           *http.Client

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool
	db         *database.Database

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {
	if cfg.NodeID == "" {
		return nil, errors.New("node id is required")
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = defaultPeerTimeout
	}

	maxPeerFetch := cfg.MaxPeerFetch
	if maxPeerFetch <= 0 {
		maxPeerFetch = defaultMaxPeerFetch
	}

	state := State{
		nodeID:           cfg.NodeID,
		host:             cfg.Host,
		autoMine:         cfg.AutoMine,
		verifySignatures: cfg.VerifySignatures,
		peerTimeout:      peerTimeout,
		maxPeerFetch:     maxPeerFetch,
		evHandler:        ev,
		client:           &http.Client{Timeout: peerTimeout},

		knownPeers: knownPeers,
		mempool:    mempool.New(),
		db:         database.New(cfg.Genesis, cfg.Now, ev),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// IsMiningAllowed reports if the worker should mine when transactions arrive.
func (s *State) IsMiningAllowed() bool {
	return s.autoMine
}

// =============================================================================

func (s *State) signalStartMining() {
	if s.Worker != nil && s.autoMine {
		s.Worker.SignalStartMining()
	}
}

func (s *State) signalCancelMining() {
	if s.Worker != nil {
		s.Worker.SignalCancelMining()
	}
}

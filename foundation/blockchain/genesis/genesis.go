// Package genesis maintains the parameters the chain starts with.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Default values for a new chain.
const (
	DefaultProof            = 100
	DefaultDifficulty       = 4
	DefaultRetargetInterval = 10
	DefaultTargetBlockTime  = 10 * time.Second
	DefaultMiningReward     = 1
)

// Genesis represents the genesis parameters.
type Genesis struct {
	Proof            int64    `json:"proof"`             // Proof stored in the genesis block.
	Difficulty       int      `json:"difficulty"`        // Starting number of leading zeros for the puzzle.
	RetargetInterval int      `json:"retarget_interval"` // Blocks between difficulty adjustments.
	TargetBlockTime  Duration `json:"target_block_time"` // Expected time between blocks.
	MiningReward     int64    `json:"mining_reward"`     // Amount credited to the miner for each block.
}

// Default returns the genesis parameters used when no file is provided.
func Default() Genesis {
	return Genesis{
		Proof:            DefaultProof,
		Difficulty:       DefaultDifficulty,
		RetargetInterval: DefaultRetargetInterval,
		TargetBlockTime:  Duration(DefaultTargetBlockTime),
		MiningReward:     DefaultMiningReward,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file keep
// their default values.
func Load(path string) (Genesis, error) {
	gen := Default()
	if path == "" {
		return gen, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	if err := json.Unmarshal(content, &gen); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := gen.Validate(); err != nil {
		return Genesis{}, err
	}

	return gen, nil
}

// Validate checks the parameters can drive a chain.
func (g Genesis) Validate() error {
	switch {
	case g.Difficulty < 1:
		return errors.New("difficulty must be at least 1")
	case g.RetargetInterval < 1:
		return errors.New("retarget interval must be at least 1")
	case g.TargetBlockTime <= 0:
		return errors.New("target block time must be positive")
	case g.MiningReward < 0:
		return errors.New("mining reward must be non-negative")
	}

	return nil
}

// =============================================================================

// Duration is a time.Duration that reads and writes as a string like "10s".
type Duration time.Duration

// MarshalJSON implements the json.Marshaler interface.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)

	return nil
}

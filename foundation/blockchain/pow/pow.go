// Package pow implements the proof of work puzzle, the solver and the
// difficulty retargeting policy.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// checkEvery is how many attempts are made between cancellation checks.
const checkEvery = 1 << 14

// Retargeting thresholds as a fraction of the target block time.
const (
	fastRatio = 0.75
	slowRatio = 1.25
)

// =============================================================================

// ValidProof reports if hashing the last proof and the proof together produces
// a digest with difficulty leading hex zeros.
func ValidProof(difficulty int, lastProof int64, proof int64) bool {
	if difficulty <= 0 {
		return true
	}
	if difficulty > sha256.Size*2 {
		return false
	}

	buf := make([]byte, 0, 40)
	buf = strconv.AppendInt(buf, lastProof, 10)
	buf = strconv.AppendInt(buf, proof, 10)

	hash := sha256.Sum256(buf)

	var enc [sha256.Size * 2]byte
	hex.Encode(enc[:], hash[:])

	for i := 0; i < difficulty; i++ {
		if enc[i] != '0' {
			return false
		}
	}

	return true
}

// Solve searches the proofs starting at 0 and returns the first one that is
// valid against the last proof. The search has no upper bound and only stops
// early when the context is cancelled.
func Solve(ctx context.Context, difficulty int, lastProof int64, ev func(v string, args ...any)) (int64, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("pow: Solve: MINING: started: lastProof[%d] difficulty[%d]", lastProof, difficulty)
	defer ev("pow: Solve: MINING: completed")

	for proof := int64(0); ; proof++ {
		if proof%checkEvery == 0 && ctx.Err() != nil {
			ev("pow: Solve: MINING: CANCELLED: attempts[%d]", proof)
			return 0, ctx.Err()
		}

		if ValidProof(difficulty, lastProof, proof) {
			ev("pow: Solve: MINING: SOLVED: proof[%d]", proof)
			return proof, nil
		}
	}
}

// =============================================================================

// Retarget holds the parameters of the retargeting policy.
type Retarget struct {
	Interval        int           // Number of blocks between adjustments.
	TargetBlockTime time.Duration // Expected time between blocks.
}

// Adjust returns the new difficulty given the timestamps of the full chain in
// seconds. Adjustments only happen when the chain length is a multiple of the
// interval. The average is computed over the last interval blocks.
func (r Retarget) Adjust(difficulty int, timestamps []float64) int {
	n := len(timestamps)
	if r.Interval <= 0 || n <= 1 || n < r.Interval || n%r.Interval != 0 {
		return difficulty
	}

	elapsed := timestamps[n-1] - timestamps[n-r.Interval]
	avg := elapsed / float64(r.Interval)
	target := r.TargetBlockTime.Seconds()

	switch {
	case avg < target*fastRatio:
		return difficulty + 1

	case avg > target*slowRatio && difficulty > 1:
		return difficulty - 1
	}

	return difficulty
}

package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minichain/node/foundation/blockchain/signature"
)

// Set of error variables for transaction handling.
var (
	ErrInvalidAmount  = errors.New("amount must be non-negative")
	ErrInvalidAddress = errors.New("invalid address")
)

// RewardSender is the reserved sender address used for mining rewards.
const RewardSender = "0"

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount int64) (Tx, error) {
	if amount < 0 {
		return Tx{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}

	if strings.TrimSpace(sender) == "" {
		return Tx{}, fmt.Errorf("%w: sender is empty", ErrInvalidAddress)
	}

	if strings.TrimSpace(recipient) == "" {
		return Tx{}, fmt.Errorf("%w: recipient is empty", ErrInvalidAddress)
	}

	tx := Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}

	return tx, nil
}

// String implements the Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender, tx.Recipient, tx.Amount)
}

// canonical returns the sorted key representation used for hashing.
func (tx Tx) canonical() signature.Object {
	return signature.Object{
		{Key: "amount", Value: tx.Amount},
		{Key: "recipient", Value: tx.Recipient},
		{Key: "sender", Value: tx.Sender},
	}
}

// =============================================================================

// SignedTx is a transaction as submitted by a wallet. The signature is only
// checked when the node is configured to verify signatures and is never
// stored in a block.
type SignedTx struct {
	Tx
	PublicKey string     `json:"public_key,omitempty"`
	Signature *Signature `json:"signature,omitempty"`
}

// Signature holds the hex encoded ECDSA signature values.
type Signature struct {
	R string `json:"r"`
	S string `json:"s"`
}

// Verify checks the signature against the public key and the sender.
func (tx SignedTx) Verify() error {
	if tx.Signature == nil || tx.PublicKey == "" {
		return fmt.Errorf("%w: signature and public key are required", signature.ErrInvalidSignature)
	}

	return signature.Verify(tx.Sender, tx.Recipient, tx.Amount, tx.PublicKey, tx.Signature.R, tx.Signature.S)
}

package public

import (
	"github.com/minichain/node/foundation/blockchain/database"
)

// submitTx is the payload a wallet posts. Amount is a pointer so a missing
// amount can be told apart from a zero amount.
type submitTx struct {
	Sender    string              `json:"sender" validate:"required"`
	Recipient string              `json:"recipient" validate:"required"`
	Amount    *int64              `json:"amount" validate:"required"`
	PublicKey string              `json:"public_key,omitempty"`
	Signature *database.Signature `json:"signature,omitempty"`
}

func (tx submitTx) toSignedTx() database.SignedTx {
	return database.SignedTx{
		Tx: database.Tx{
			Sender:    tx.Sender,
			Recipient: tx.Recipient,
			Amount:    *tx.Amount,
		},
		PublicKey: tx.PublicKey,
		Signature: tx.Signature,
	}
}

type message struct {
	Message string `json:"message"`
}

type forged struct {
	Message      string        `json:"message"`
	Index        uint64        `json:"index"`
	Transactions []database.Tx `json:"transactions"`
	Proof        int64         `json:"proof"`
	PrevHash     string        `json:"previous_hash"`
	TimeStamp    float64       `json:"timestamp"`
}

type account struct {
	Account      string `json:"account"`
	Name         string `json:"name"`
	Received     int64  `json:"received"`
	Sent         int64  `json:"sent"`
	Balance      int64  `json:"balance"`
	Transactions int    `json:"transactions"`
}

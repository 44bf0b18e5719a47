// Package accounts maintains account balances derived from the transactions
// stored in a chain.
package accounts

import (
	"github.com/minichain/node/foundation/blockchain/database"
)

// Info represents information stored for an individual account.
type Info struct {
	Received int64 `json:"received"`
	Sent     int64 `json:"sent"`
	Trans    int   `json:"trans"`
}

// Balance returns what was received minus what was sent.
func (i Info) Balance() int64 {
	return i.Received - i.Sent
}

// Accounts manages data related to accounts who have transacted on
// the blockchain. It is rebuilt from a chain and is not safe for concurrent
// writes.
type Accounts struct {
	info map[string]Info
}

// New folds every transaction in the blocks into account information. The
// reward sender is never debited since it mints the reward.
func New(blocks []database.Block) *Accounts {
	accts := Accounts{
		info: make(map[string]Info),
	}

	for _, block := range blocks {
		for _, tx := range block.Transactions {
			accts.ApplyTransaction(tx)
		}
	}

	return &accts
}

// ApplyTransaction performs the business logic for applying a transaction
// to the accounts information.
func (act *Accounts) ApplyTransaction(tx database.Tx) {
	to := act.info[tx.Recipient]
	to.Received += tx.Amount
	to.Trans++
	act.info[tx.Recipient] = to

	if tx.Sender == database.RewardSender {
		return
	}

	from := act.info[tx.Sender]
	from.Sent += tx.Amount
	from.Trans++
	act.info[tx.Sender] = from
}

// Query returns the information for the address. Unknown addresses return
// the zero value.
func (act *Accounts) Query(address string) Info {
	return act.info[address]
}

// Copy makes a copy of the current information for all accounts.
func (act *Accounts) Copy() map[string]Info {
	accounts := make(map[string]Info, len(act.info))
	for addr, info := range act.info {
		accounts[addr] = info
	}
	return accounts
}

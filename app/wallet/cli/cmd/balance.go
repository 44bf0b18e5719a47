package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/minichain/node/foundation/blockchain/accounts"
	"github.com/minichain/node/foundation/blockchain/state"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the amount received by an address",
	Args:  cobra.MaximumNArgs(1),
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	var address string
	switch len(args) {
	case 1:
		address = args[0]
	default:
		_, addr, err := loadAccount()
		if err != nil {
			return err
		}
		address = addr
	}

	resp, err := client.Get(fmt.Sprintf("%s/v1/chain", url))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node returned status %d", resp.StatusCode)
	}

	var chain state.Chain
	if err := json.NewDecoder(resp.Body).Decode(&chain); err != nil {
		return err
	}

	info := accounts.New(chain.Chain).Query(address)

	fmt.Fprintln(cmd.OutOrStdout(), "For Account:", address)
	fmt.Fprintln(cmd.OutOrStdout(), info.Received)

	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minichain/node/foundation/blockchain/signature"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address and public key for the wallet",
	RunE:  addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) error {
	privateKey, address, err := loadAccount()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "address:   ", address)
	fmt.Fprintln(cmd.OutOrStdout(), "public key:", signature.PublicKeyString(privateKey.PublicKey))

	return nil
}

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/minichain/node/foundation/blockchain/database"
	"github.com/minichain/node/foundation/blockchain/signature"
)

var (
	to     string
	amount int64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and submit a transaction",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.Flags().Int64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) error {
	privateKey, address, err := loadAccount()
	if err != nil {
		return err
	}

	r, s, err := signature.Sign(address, to, amount, privateKey)
	if err != nil {
		return err
	}

	signedTx := database.SignedTx{
		Tx: database.Tx{
			Sender:    address,
			Recipient: to,
			Amount:    amount,
		},
		PublicKey: signature.PublicKeyString(privateKey.PublicKey),
		Signature: &database.Signature{R: r, S: s},
	}

	data, err := json.Marshal(signedTx)
	if err != nil {
		return err
	}

	resp, err := client.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusCreated {
		return errors.New(string(body))
	}

	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), msg.Message)

	return nil
}

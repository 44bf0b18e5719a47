package main

import "github.com/minichain/node/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}

// Command dbft-tool is the operator-facing surface around the dbft
// module: generating validator keys, assembling a genesis validator
// set, and inspecting a node's checkpoint store. It replaces
// chainbft_demo/cmd's tendermint-node-shaped binary (gen-node-key,
// full node startup, RPC) with the narrower set of commands a dBFT
// core library actually needs, in the same cobra idiom.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dbft-tool",
	Short: "Key and genesis tooling for a dbft validator",
}

func main() {
	rootCmd.AddCommand(
		genValidatorCmd,
		genGenesisCmd,
		inspectCheckpointCmd,
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

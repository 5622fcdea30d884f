package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dbftcore/crypto/bls"
	"dbftcore/wallet"
)

var genValidatorKeyFile string

var genValidatorCmd = &cobra.Command{
	Use:     "gen-validator",
	Aliases: []string{"gen_validator"},
	Short:   "Generate a fresh BLS validator identity and save it to a wallet file",
	RunE:    genValidator,
}

func init() {
	genValidatorCmd.Flags().StringVar(&genValidatorKeyFile, "out", "wallet.json", "wallet file to write the new account into")
}

func genValidator(cmd *cobra.Command, args []string) error {
	w, err := wallet.LoadFileWallet(genValidatorKeyFile)
	if err != nil {
		return fmt.Errorf("load existing wallet: %w", err)
	}

	priv := bls.GenPrivKey()
	acc := w.AddAccount(priv)
	if err := w.SaveKeys(genValidatorKeyFile); err != nil {
		return fmt.Errorf("save wallet: %w", err)
	}

	fmt.Printf("address: %s\npublic_key: %x\n", acc.Address(), acc.PublicKey().Bytes())
	fmt.Printf("wrote signing key to %s (keep it private)\n", genValidatorKeyFile)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/tempfile"

	"dbftcore/types"
	"dbftcore/wallet"
)

var (
	genGenesisChainID string
	genGenesisOut      string
)

var genGenesisCmd = &cobra.Command{
	Use:     "gen-genesis [validator-wallet-file ...]",
	Aliases: []string{"gen_genesis"},
	Short:   "Assemble a genesis validator set from one wallet file per validator",
	Args:    cobra.MinimumNArgs(1),
	RunE:    genGenesis,
}

func init() {
	genGenesisCmd.Flags().StringVar(&genGenesisChainID, "chain-id", "dbft-testnet", "chain identity stamped into the genesis file")
	genGenesisCmd.Flags().StringVar(&genGenesisOut, "out", "genesis.json", "genesis file to write")
}

// genesisValidator is the public-only entry a genesis file records for
// one committee member: enough for every node to build the same
// types.ValidatorSet without ever seeing another validator's key.
type genesisValidator struct {
	Address types.Address `json:"address"`
	PubKey  []byte        `json:"pub_key"`
}

type genesisDoc struct {
	ChainID     string             `json:"chain_id"`
	GenesisTime time.Time          `json:"genesis_time"`
	Validators  []genesisValidator `json:"validators"`
}

func genGenesis(cmd *cobra.Command, args []string) error {
	doc := genesisDoc{ChainID: genGenesisChainID, GenesisTime: time.Now().UTC()}

	for _, path := range args {
		w, err := wallet.LoadFileWallet(path)
		if err != nil {
			return fmt.Errorf("load validator wallet %s: %w", path, err)
		}
		acc := firstAccount(w)
		if acc == nil {
			return fmt.Errorf("wallet %s has no signing account", path)
		}
		doc.Validators = append(doc.Validators, genesisValidator{
			Address: acc.Address(),
			PubKey:  acc.PublicKey().Bytes(),
		})
	}

	bz, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal genesis: %w", err)
	}
	if err := tempfile.WriteFileAtomic(genGenesisOut, bz, 0644); err != nil {
		return err
	}
	fmt.Printf("wrote genesis with %d validators to %s\n", len(doc.Validators), genGenesisOut)
	return nil
}

// firstAccount returns a signing account of the wallet, or nil if it has
// none. gen-validator adds one signing account per run to the file it
// writes; when a wallet holds several, which one is returned is not
// defined, since Accounts has no order.
func firstAccount(w *wallet.FileWallet) *wallet.FileAccount {
	for _, a := range w.Accounts() {
		if a.HasKey() {
			return a
		}
	}
	return nil
}

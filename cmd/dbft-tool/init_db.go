package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"

	"dbftcore/store"
)

var inspectDBDir, inspectDBName string

var inspectCheckpointCmd = &cobra.Command{
	Use:     "inspect-checkpoint",
	Aliases: []string{"init-db", "init_db"},
	Short:   "Open a node's checkpoint store and report whether a checkpoint is present",
	RunE:    inspectCheckpoint,
}

func init() {
	inspectCheckpointCmd.Flags().StringVar(&inspectDBDir, "dir", "data", "checkpoint store directory")
	inspectCheckpointCmd.Flags().StringVar(&inspectDBName, "name", "dbft", "checkpoint store name")
}

// checkpointPrefix mirrors dbft.checkpointPrefix; duplicated here rather
// than exported, since a tool poking at the raw record is a diagnostic
// aid, not a caller of the Context API.
const checkpointPrefix = 0xf4

func inspectCheckpoint(cmd *cobra.Command, args []string) error {
	db, err := store.NewKVStore(inspectDBName, inspectDBDir, log.NewNopLogger())
	if err != nil {
		return fmt.Errorf("open checkpoint store: %w", err)
	}
	defer db.Close()

	data, err := db.Get(checkpointPrefix, []byte{})
	if err != nil {
		return fmt.Errorf("read checkpoint: %w", err)
	}
	if data == nil {
		fmt.Println("no checkpoint present; a fresh node will Reset(0) from genesis")
		return nil
	}
	fmt.Printf("checkpoint present: %d bytes\n", len(data))
	return nil
}

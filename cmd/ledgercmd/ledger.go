// Package ledgercmd inspects and repairs the balance history logs
package ledgercmd

import (
	"fmt"

	"csvofx/cmd/root"
	"csvofx/internal/ledger"

	"github.com/spf13/cobra"
)

// Cmd represents the ledger command
var Cmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and repair the balance history logs",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var showCmd = &cobra.Command{
	Use:   "show <account>",
	Short: "Print an account's balance history, oldest first",
	Args:  cobra.ExactArgs(1),
	Run:   showFunc,
}

var syncCmd = &cobra.Command{
	Use:   "sync [account]...",
	Short: "Compact the history logs, dropping superseded lines",
	Run:   syncFunc,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(syncCmd)
}

func showFunc(cmd *cobra.Command, args []string) {
	hist, err := ledger.Open(root.Cfg.History.Directory, args[0])
	if err != nil {
		root.Log.Fatalf("Error opening balance history: %v", err)
	}
	for _, entry := range hist.Entries() {
		fmt.Printf("%s,%d,%d\n", entry.Date, entry.TotalA, entry.TotalB)
	}
}

func syncFunc(cmd *cobra.Command, args []string) {
	keys := args
	if len(keys) == 0 {
		keys = root.Accounts.Keys()
	}
	for _, key := range keys {
		hist, err := ledger.Open(root.Cfg.History.Directory, key)
		if err != nil {
			root.Log.Fatalf("Error opening balance history for %s: %v", key, err)
		}
		if err := hist.Sync(); err != nil {
			root.Log.Fatalf("Error syncing balance history for %s: %v", key, err)
		}
		root.Log.Infof("Synced %s (%d entries)", key, hist.Len())
	}
}

// Package accounts manages the account registry
package accounts

import (
	"fmt"

	"csvofx/cmd/root"
	"csvofx/internal/filter"
	"csvofx/internal/ledger"
	"csvofx/internal/store"

	"github.com/spf13/cobra"
)

var (
	institution string
	branch      string
	accountID   string
	mode        string
	replace     string
)

// Cmd represents the accounts command
var Cmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage the account registry",
	Long: `List, add and remove the account bindings that tie a statement
account to an institution filter.`,
	Run: listFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered accounts",
	Run:   listFunc,
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update an account binding",
	Args:  cobra.ExactArgs(1),
	Run:   addFunc,
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an account binding",
	Args:  cobra.ExactArgs(1),
	Run:   removeFunc,
}

func init() {
	addCmd.Flags().StringVarP(&institution, "institution", "i", "", "Institution filter key (required)")
	addCmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch identifier")
	addCmd.Flags().StringVarP(&accountID, "account", "a", "", "Account identifier")
	addCmd.Flags().StringVarP(&mode, "mode", "m", "", "Balance mode override (sum or history)")
	addCmd.Flags().StringVarP(&replace, "replace", "r", "", "Existing binding to replace")
	_ = addCmd.MarkFlagRequired("institution")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
}

func listFunc(cmd *cobra.Command, args []string) {
	keys := root.Accounts.Keys()
	if len(keys) == 0 {
		fmt.Println("No accounts registered")
		return
	}
	for _, key := range keys {
		account, _ := root.Accounts.Get(key)
		name := account.Institution
		if f, ok := filter.Lookup(account.Institution); ok {
			name = f.Name
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", key, name, account.BranchID, account.AccountID)
	}
}

func addFunc(cmd *cobra.Command, args []string) {
	if _, ok := filter.Lookup(institution); !ok {
		root.Log.Fatalf("Unknown institution: %s", institution)
	}
	balanceMode := ledger.Mode(mode)
	if balanceMode != "" && balanceMode != ledger.ModeSum && balanceMode != ledger.ModeHistory {
		root.Log.Fatalf("Invalid balance mode: %s", mode)
	}

	account := store.Account{
		Institution: institution,
		BranchID:    branch,
		AccountID:   accountID,
		BalanceMode: balanceMode,
	}
	if err := root.Accounts.Modify(args[0], account, replace); err != nil {
		root.Log.Fatalf("Error saving account registry: %v", err)
	}
	root.Log.Infof("Registered account %s", args[0])
}

func removeFunc(cmd *cobra.Command, args []string) {
	if _, err := root.Accounts.Remove(args[0]); err != nil {
		root.Log.Fatalf("Error removing account: %v", err)
	}
	root.Log.Infof("Removed account %s", args[0])
}

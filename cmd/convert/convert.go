// Package convert turns export files into OFX statement files
package convert

import (
	"csvofx/cmd/root"

	"github.com/spf13/cobra"
)

var account string

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "Convert export files into OFX statements",
	Long: `Analyze each export file, accumulate the recognized blocks per
registered account, and write one OFX file per matched account into the
configured output directory.`,
	Args: cobra.MinimumNArgs(1),
	Run:  convertFunc,
}

func init() {
	Cmd.Flags().StringVarP(&account, "account", "a", "", "Convert only this account")
}

func convertFunc(cmd *cobra.Command, args []string) {
	e := root.NewExporter()

	for _, name := range args {
		if _, err := e.AnalyzeFile(name, root.BaseKey); err != nil {
			root.Log.Fatalf("Error analyzing %s: %v", name, err)
		}
	}

	keys := e.ActiveKeys()
	if account != "" {
		keys = []string{account}
	}
	if len(keys) == 0 {
		root.Log.Fatal("No account recognized the given files")
	}

	for _, key := range keys {
		path, err := e.ConvertAndSave(key)
		if err != nil {
			root.Log.Fatalf("Error converting %s: %v", key, err)
		}
		root.Log.Infof("Converted %s -> %s", key, path)
	}
}

// Package analyze reports which accounts recognize the given export files
package analyze

import (
	"fmt"

	"csvofx/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Probe export files against the registered accounts",
	Long: `Probe each export file with every institution filter and report
which registered accounts recognize its layout. Nothing is converted.`,
	Args: cobra.MinimumNArgs(1),
	Run:  analyzeFunc,
}

func analyzeFunc(cmd *cobra.Command, args []string) {
	e := root.NewExporter()

	for _, name := range args {
		matched, err := e.AnalyzeFile(name, root.BaseKey)
		if err != nil {
			root.Log.Fatalf("Error analyzing %s: %v", name, err)
		}
		if len(matched) == 0 {
			fmt.Printf("%s: no account recognized this file\n", name)
			continue
		}
		for _, key := range matched {
			fmt.Printf("%s: %s\n", name, key)
		}
	}
}

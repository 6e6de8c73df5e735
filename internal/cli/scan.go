package cli

import (
	"encoding/json"

	"dirscan/internal/services"

	"github.com/spf13/cobra"
)

var scanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Print the children of a directory ordered by size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		elements, err := services.Scan(args[0])
		if err != nil {
			return err
		}

		if scanJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(elements)
		}

		printElements(cmd.OutOrStdout(), elements)
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print elements as JSON")
	rootCmd.AddCommand(scanCmd)
}

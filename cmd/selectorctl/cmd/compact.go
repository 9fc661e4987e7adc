package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Reclaims tombstoned slot space",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Reclaimed uint64 `json:"reclaimed"`
		}
		if err := doRequest("POST", "/compact", nil, &resp); err != nil {
			panic(err)
		}
		fmt.Printf("reclaimed %d\n", resp.Reclaimed)
	},
}

func init() {
	rootCmd.AddCommand(compactCmd)
}

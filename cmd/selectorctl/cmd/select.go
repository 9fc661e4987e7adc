package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Draws one peer weighted by score",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Peer uint32 `json:"peer"`
			Hit  bool   `json:"hit"`
		}
		if err := doRequest("POST", "/select", nil, &resp); err != nil {
			panic(err)
		}
		if !resp.Hit {
			fmt.Println("no peer selected")
			return
		}
		fmt.Printf("selected peer %d\n", resp.Peer)
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
}

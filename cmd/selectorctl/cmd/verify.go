package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Checks every selector invariant holds",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			Ok bool `json:"ok"`
		}
		if err := doRequest("GET", "/verify", nil, &resp); err != nil {
			panic(err)
		}
		fmt.Printf("verify: %v\n", resp.Ok)
		if !resp.Ok {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <peer>",
	Short: "Removes a peer from the selector",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := doRequest("DELETE", "/peers/"+args[0], nil, nil); err != nil {
			panic(err)
		}
		fmt.Printf("removed peer %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore <peer> <score>",
	Short: "Changes a peer's weight",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		score, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			panic(err)
		}

		if err := doRequest("POST", "/peers/"+args[0]+"/rescore", map[string]any{
			"score": score,
		}, nil); err != nil {
			panic(err)
		}
		fmt.Printf("rescored peer %s to %d\n", args[0], score)
	},
}

func init() {
	rootCmd.AddCommand(rescoreCmd)
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <peer> <score>",
	Short: "Adds a peer with a weight to the selector",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		peer, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			panic(err)
		}
		score, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			panic(err)
		}

		var resp struct {
			Peer  uint32 `json:"peer"`
			Score uint32 `json:"score"`
		}
		if err := doRequest("POST", "/peers", map[string]any{
			"peer":  peer,
			"score": score,
		}, &resp); err != nil {
			panic(err)
		}

		fmt.Printf("added peer %d with score %d\n", resp.Peer, resp.Score)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}

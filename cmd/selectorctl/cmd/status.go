package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints slot count, fragmentation, and peer count",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var resp struct {
			SlotCount          uint64  `json:"slotCount"`
			Fragmentation      uint64  `json:"fragmentation"`
			FragmentationRatio float64 `json:"fragmentationRatio"`
			PeerCount          int     `json:"peerCount"`
		}
		if err := doRequest("GET", "/status", nil, &resp); err != nil {
			panic(err)
		}
		fmt.Printf(
			"slotCount=%d fragmentation=%d (%.2f%%) peerCount=%d\n",
			resp.SlotCount, resp.Fragmentation, resp.FragmentationRatio*100, resp.PeerCount,
		)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

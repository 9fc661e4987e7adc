package main

import "github.com/voteweight/avalanche-selector/cmd/selectorctl/cmd"

func main() {
	cmd.Execute()
}

// Package cmd implements selectorctl's subcommands in the same
// spf13/cobra shape as the teacher client's cmd package: one
// *cobra.Command var per verb, registered onto rootCmd from each file's
// init().
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var apiAddr string

var rootCmd = &cobra.Command{
	Use:   "selectorctl",
	Short: "Operator CLI for a running selectord instance",
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&apiAddr,
		"api",
		"http://127.0.0.1:8080",
		"base URL of the selectord HTTP API",
	)
}

// Execute runs the CLI, matching the client's main.go -> cmd.Execute()
// entrypoint shape.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// doRequest performs an HTTP call against the configured selectord
// instance and decodes a JSON response into out, if out is non-nil.
func doRequest(method, path string, body any, out any) error {
	client := &http.Client{}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiAddr+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error != "" {
			return fmt.Errorf("selectord: %s", errBody.Error)
		}
		return fmt.Errorf("selectord: unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

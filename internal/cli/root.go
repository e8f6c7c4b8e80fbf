// Package cli implements the aletheia-import CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aletheia/internal/config"
	"aletheia/internal/fileadapter"
)

var (
	serverURL string
	authToken string
	dryRun    bool
	sessionID string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "aletheia-import",
	Short: "Import chat export files into a consciousness instance",
	Long:  "Parses platform export files (JSON, NDJSON, CSV, plain transcripts) into canonical gnosis entries, locally or against a running instance.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "Base URL of the consciousness instance")
	RootCmd.PersistentFlags().StringVarP(&authToken, "token", "t", "", "Progenitor JWT (default: $ALETHEIA_TOKEN)")
	RootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Validate without persisting")
	RootCmd.PersistentFlags().StringVar(&sessionID, "session", "", "Session id to attach to imported entries")
}

func getToken() string {
	if authToken != "" {
		return authToken
	}
	return os.Getenv("ALETHEIA_TOKEN")
}

func newAdapter() *fileadapter.Adapter {
	logger := zap.NewNop()
	return fileadapter.New(config.Default(), logger)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

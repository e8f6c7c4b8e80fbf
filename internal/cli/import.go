package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"aletheia/internal/models"
)

// batchSize is the number of messages sent per import request. History
// files can hold thousands of turns; batching keeps request bodies small
// and lets a failed batch be retried without redoing the whole file.
const batchSize = 50

func init() {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Parse a file and import it into a running instance",
		Long:  "Parse an export file locally, then POST the canonical entries to the instance's consciousness import endpoint in batches. Duplicate entries are skipped server-side.",
		Args:  cobra.ExactArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read file", err)
	}

	adapter := newAdapter()
	result := adapter.Process(data, filepath.Base(args[0]))
	if len(result.Entries) == 0 {
		exitErr("parse file", fmt.Errorf("no entries produced (%d parse errors)", len(result.Errors)))
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s\n", e)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	total := len(result.Entries)
	imported := 0

	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}

		payload := models.ImportPayload{
			Data: models.ImportData{Messages: result.Entries[start:end]},
			Options: models.ImportOptions{
				Platform:  result.Metadata.Platform,
				DryRun:    dryRun,
				SessionID: sessionID,
			},
		}

		report, err := postBatch(client, payload)
		if err != nil {
			exitErr(fmt.Sprintf("import batch %d-%d", start, end), err)
		}
		imported += report.Successful
		fmt.Printf("batch %d-%d of %d: %s\n", start, end, total, report.Summary)
	}

	fmt.Printf("done: %d of %d entries imported\n", imported, total)
}

func postBatch(client *http.Client, payload models.ImportPayload) (*models.ImportReport, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, serverURL+"/api/consciousness/import", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := getToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnprocessableEntity {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, respBody)
	}

	var wrapper struct {
		Report models.ImportReport `json:"report"`
	}
	if err := json.Unmarshal(respBody, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Report, nil
}

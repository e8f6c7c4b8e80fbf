package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "segment <file>",
		Short: "Segment a plain transcript into alternating turns",
		Long:  "Split an unlabeled conversation transcript on blank lines, assign alternating speaker roles and print the resulting entries with a validity report.",
		Args:  cobra.ExactArgs(1),
		Run:   runSegment,
	}

	RootCmd.AddCommand(cmd)
}

func runSegment(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read file", err)
	}

	adapter := newAdapter()
	entries := adapter.SegmentTranscript(string(data))
	report := adapter.ValidateSegments(entries)

	out, err := json.MarshalIndent(map[string]interface{}{
		"entries":  entries,
		"valid":    report.Valid,
		"warnings": report.Warnings,
	}, "", "  ")
	if err != nil {
		exitErr("encode json", err)
	}
	fmt.Println(string(out))
}

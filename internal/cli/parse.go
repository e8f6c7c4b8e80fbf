package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an export file into canonical entries",
		Long:  "Parse an export file into canonical gnosis entries and print the result as JSON. Runs entirely offline.",
		Args:  cobra.ExactArgs(1),
		Run:   runParse,
	}

	RootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read file", err)
	}

	adapter := newAdapter()
	result := adapter.Process(data, filepath.Base(args[0]))

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitErr("encode json", err)
	}
	fmt.Println(string(out))
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pophale/internal/level"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export <level>",
	Short: "Write a level as YAML",
	Long: `Convert a level file to YAML for editing in a text editor.

Rows of the grid are written as hex strings, text lines as UTF-8.

Examples:
  pophale export 0
  pophale export 3 -o level3.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Write to file instead of stdout")
}

func runExport(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	n := s.parseLevel(args[0])
	lvl, _, err := s.ws.LoadLevel(n)
	if err != nil {
		s.fail("%v", err)
	}
	data, err := level.MarshalYAML(lvl)
	if err != nil {
		s.fail("%v", err)
	}

	if flagExportOut == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(flagExportOut, data, 0o644); err != nil {
		s.fail("%v", err)
	}
	fmt.Printf("Exported level %d to %s.\n", n, flagExportOut)
}

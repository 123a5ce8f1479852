package main

import (
	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Rebuild the game container from the scratch tree",
	Long: `Rebuild the game container from the scratch tree.

The manifest is stored first and generated when the tree has none. Files
that cannot be read are skipped with a warning; the container is replaced
only when the archive is complete.

Examples:
  pophale pack`,
	Args: cobra.NoArgs,
	Run:  runPack,
}

func runPack(_ *cobra.Command, _ []string) {
	s := openSession()
	defer s.Close()

	warns, err := s.ws.Pack()
	if err != nil {
		s.fail("%v", err)
	}
	reportWarnings("Packed", warns)
}

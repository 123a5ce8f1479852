package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack",
	Short: "Extract the game container into the scratch tree",
	Long: `Extract every entry of the game container into the scratch tree.

The container is the configured file, or the first .jar in the container
directory. After extraction the tree must hold 0.lvl, otherwise the
container is not a supported build.

Examples:
  pophale unpack
  pophale unpack --config ./pophale.yaml`,
	Args: cobra.NoArgs,
	Run:  runUnpack,
}

func runUnpack(_ *cobra.Command, _ []string) {
	s := openSession()
	defer s.Close()

	if err := s.ws.Unpack(); err != nil {
		s.fail("%v", err)
	}
	container, _ := s.ws.Container()
	fmt.Printf("Unpacked %s into %s.\n", container, s.ws.ScratchDir())
}

// Command stegomark embeds, extracts and verifies identity watermarks
// in images and short clips.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stegomark",
		Short:         "invisible identity watermarks for images and short clips",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newEmbedCmd(),
		newExtractCmd(),
		newVerifyCmd(),
		newVideoCmd(),
	)
	return root
}

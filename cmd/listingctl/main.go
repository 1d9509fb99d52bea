// Command listingctl composes, decomposes and broadcasts marketplace listings.
//
// Usage:
//
//	listingctl compose --template listing.json --categories categories.json --images ./images
//	listingctl decompose --message message.json --categories categories.json --market-id 1 --sender pxyz
//	listingctl publish --config config.yaml --template listing.json --market pmarket --days 7
//	listingctl receive --config config.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "listingctl",
		Short:         "Convert and broadcast marketplace listings",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newComposeCmd(),
		newDecomposeCmd(),
		newPublishCmd(),
		newReceiveCmd(),
	)
	return rootCmd
}

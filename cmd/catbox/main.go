// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "catbox",
	Short: "CatBox - per-user file vault server",
	Long: `CatBox is a small self-hosted file vault. Every account owns a private
subtree of the storage root and talks to it over an authenticated HTTP API:
upload, download, list, search, delete.

Nothing a client sends can reach outside its own subtree.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

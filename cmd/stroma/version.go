package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stromabio/stroma"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stroma",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stroma version %s\n", strings.TrimSpace(stroma.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

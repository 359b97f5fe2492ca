package main

import (
	"github.com/spf13/cobra"
)

var dmCmd = &cobra.Command{
	Use:   "dm",
	Short: "List and read direct messages",
}

func init() {
	rootCmd.AddCommand(dmCmd)
}

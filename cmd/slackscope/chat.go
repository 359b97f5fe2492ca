package main

import (
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "List and read conversations",
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

package main

import (
	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Call Slack API methods directly with raw output",
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

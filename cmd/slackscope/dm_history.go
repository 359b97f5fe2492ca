package main

import (
	"github.com/spf13/cobra"
)

var (
	dmHistoryLimit            int
	dmHistorySince            string
	dmHistoryUntil            string
	dmHistoryInlineReplies    int
	dmHistoryMaxInlineThreads int
	dmHistoryMaxText          int
	dmHistoryFullText         bool
)

var dmHistoryCmd = &cobra.Command{
	Use:   "history <target>",
	Short: "Show DM history for @user or DM conversation ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runDMHistory,
}

func init() {
	dmHistoryCmd.Flags().IntVar(&dmHistoryLimit, "limit", 30, "Maximum number of messages to fetch")
	dmHistoryCmd.Flags().StringVar(&dmHistorySince, "since", "", "Oldest bound: unix ts or duration (e.g. 2h, 1d)")
	dmHistoryCmd.Flags().StringVar(&dmHistoryUntil, "until", "", "Latest bound: unix ts or duration (e.g. 30m)")
	dmHistoryCmd.Flags().IntVar(&dmHistoryInlineReplies, "inline-replies", 2, "Replies to preview per thread")
	dmHistoryCmd.Flags().IntVar(&dmHistoryMaxInlineThreads, "max-inline-threads", 8, "Threads to preview per page")
	dmHistoryCmd.Flags().IntVar(&dmHistoryMaxText, "max-text", 180, "Truncate message text to this many characters")
	dmHistoryCmd.Flags().BoolVar(&dmHistoryFullText, "full-text", false, "Disable truncation in pretty output")
	dmCmd.AddCommand(dmHistoryCmd)
}

func runDMHistory(cmd *cobra.Command, args []string) error {
	return runHistoryCommand(cmd, historyRequest{
		target:           args[0],
		limit:            dmHistoryLimit,
		since:            dmHistorySince,
		until:            dmHistoryUntil,
		inlineReplies:    dmHistoryInlineReplies,
		maxInlineThreads: dmHistoryMaxInlineThreads,
		maxText:          dmHistoryMaxText,
		fullText:         dmHistoryFullText,
		dm:               true,
	})
}

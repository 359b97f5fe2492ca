package main

import (
	"github.com/spf13/cobra"
)

var (
	chatHistoryLimit            int
	chatHistorySince            string
	chatHistoryUntil            string
	chatHistoryInlineReplies    int
	chatHistoryMaxInlineThreads int
	chatHistoryMaxText          int
	chatHistoryFullText         bool
)

var chatHistoryCmd = &cobra.Command{
	Use:   "history <chat>",
	Short: "Show messages from a chat with inline thread previews",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatHistory,
}

func init() {
	chatHistoryCmd.Flags().IntVar(&chatHistoryLimit, "limit", 30, "Maximum number of messages to fetch")
	chatHistoryCmd.Flags().StringVar(&chatHistorySince, "since", "", "Oldest bound: unix ts or duration (e.g. 2h, 1d)")
	chatHistoryCmd.Flags().StringVar(&chatHistoryUntil, "until", "", "Latest bound: unix ts or duration (e.g. 30m)")
	chatHistoryCmd.Flags().IntVar(&chatHistoryInlineReplies, "inline-replies", 2, "Replies to preview per thread")
	chatHistoryCmd.Flags().IntVar(&chatHistoryMaxInlineThreads, "max-inline-threads", 8, "Threads to preview per page")
	chatHistoryCmd.Flags().IntVar(&chatHistoryMaxText, "max-text", 180, "Truncate message text to this many characters")
	chatHistoryCmd.Flags().BoolVar(&chatHistoryFullText, "full-text", false, "Disable truncation in pretty output")
	chatCmd.AddCommand(chatHistoryCmd)
}

func runChatHistory(cmd *cobra.Command, args []string) error {
	return runHistoryCommand(cmd, historyRequest{
		target:           args[0],
		limit:            chatHistoryLimit,
		since:            chatHistorySince,
		until:            chatHistoryUntil,
		inlineReplies:    chatHistoryInlineReplies,
		maxInlineThreads: chatHistoryMaxInlineThreads,
		maxText:          chatHistoryMaxText,
		fullText:         chatHistoryFullText,
	})
}

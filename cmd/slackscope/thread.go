package main

import (
	"fmt"
	"os"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	"github.com/SZRabinowitz/slackscope/internal/slack"
	"github.com/spf13/cobra"
)

var threadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Read thread replies",
}

var (
	threadShowMaxText  int
	threadShowFullText bool
)

var threadShowCmd = &cobra.Command{
	Use:   "show <chat> <ts>",
	Short: "Show one full thread (root + replies)",
	Args:  cobra.ExactArgs(2),
	RunE:  runThreadShow,
}

func init() {
	threadShowCmd.Flags().IntVar(&threadShowMaxText, "max-text", 180, "Truncate message text to this many characters")
	threadShowCmd.Flags().BoolVar(&threadShowFullText, "full-text", false, "Disable truncation in pretty output")
	threadCmd.AddCommand(threadShowCmd)
	rootCmd.AddCommand(threadCmd)
}

type threadPayload struct {
	ChatID   string                    `json:"chat_id"`
	ThreadTS string                    `json:"thread_ts"`
	Root     *normalize.MessageRecord  `json:"root"`
	Replies  []normalize.MessageRecord `json:"replies"`
}

func runThreadShow(cmd *cobra.Command, args []string) error {
	if err := intInRange("--max-text", threadShowMaxText, 20, 4000); err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	conversationID, err := client.ResolveConversationID(ctx, args[0])
	if err != nil {
		return err
	}
	conversation, err := client.ConversationInfo(ctx, conversationID)
	if err != nil {
		return err
	}
	users, err := client.UsersMap(ctx)
	if err != nil {
		return err
	}

	ts := args[1]
	raw, err := client.ConversationReplies(ctx, conversationID, ts, slack.RepliesOptions{})
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		if humanOutput() {
			fmt.Fprintln(os.Stdout, "No thread messages found.")
			return nil
		}
		return emit(threadPayload{
			ChatID:   conversationID,
			ThreadTS: ts,
			Replies:  []normalize.MessageRecord{},
		}, nil)
	}

	normalized := make([]normalize.MessageRecord, 0, len(raw))
	for _, msg := range raw {
		normalized = append(normalized, normalize.Message(msg, conversationID, users))
	}
	root := normalized[0]
	replies := normalized[1:]
	normalize.SortMessages(replies)

	if humanOutput() {
		label := normalize.ConversationLabel(*conversation, users)
		header := fmt.Sprintf("THREAD %s %s replies:%d", label, ts, len(replies))
		renderThread(os.Stdout, header, root, replies, threadShowMaxText, threadShowFullText)
		return nil
	}
	return emit(threadPayload{
		ChatID:   conversationID,
		ThreadTS: ts,
		Root:     &root,
		Replies:  replies,
	}, nil)
}

package main

import (
	"os"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	"github.com/spf13/cobra"
)

var chatShowCmd = &cobra.Command{
	Use:   "show <chat>",
	Short: "Show metadata for a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatShow,
}

func init() {
	chatCmd.AddCommand(chatShowCmd)
}

func runChatShow(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	conversationID, err := client.ResolveConversationID(ctx, args[0])
	if err != nil {
		return err
	}
	conversation, err := client.ConversationSnapshot(ctx, conversationID)
	if err != nil {
		return err
	}
	users, err := client.UsersMap(ctx)
	if err != nil {
		return err
	}

	record := normalize.Chat(*conversation, users)

	if humanOutput() {
		renderChatShow(os.Stdout, record)
		return nil
	}
	return emit(record, []string{
		"id", "type", "name", "is_member", "is_archived", "members",
		"unread", "last_ts", "last_user", "last_text", "topic", "purpose",
	})
}

package main

import (
	"fmt"
	"os"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	"github.com/spf13/cobra"
)

var chatMessageCmd = &cobra.Command{
	Use:   "message <chat> <ts>",
	Short: "Fetch one specific message with full text",
	Args:  cobra.ExactArgs(2),
	RunE:  runChatMessage,
}

func init() {
	chatCmd.AddCommand(chatMessageCmd)
}

func runChatMessage(cmd *cobra.Command, args []string) error {
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

	raw, err := client.ConversationMessage(ctx, conversationID, args[1])
	if err != nil {
		return err
	}
	message := normalize.Message(*raw, conversationID, users)

	if humanOutput() {
		label := normalize.ConversationLabel(*conversation, users)
		header := fmt.Sprintf("%s (%s)", label, conversationID)
		renderMessageDetail(os.Stdout, header, message)
		return nil
	}
	return emit(message, []string{
		"chat_id", "ts", "author", "author_id", "text",
		"thread_ts", "reply_count", "subtype", "edited",
	})
}

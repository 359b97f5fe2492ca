package main

import (
	"os"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	"github.com/spf13/cobra"
)

var (
	dmListUnread   bool
	dmListLimit    int
	dmListMaxText  int
	dmListFullText bool
)

var dmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List direct message conversations",
	Args:  cobra.NoArgs,
	RunE:  runDMList,
}

func init() {
	dmListCmd.Flags().BoolVar(&dmListUnread, "unread", false, "Show only DMs with unread messages")
	dmListCmd.Flags().IntVar(&dmListLimit, "limit", 30, "Maximum number of DMs to show")
	dmListCmd.Flags().IntVar(&dmListMaxText, "max-text", 100, "Truncate previews to this many characters")
	dmListCmd.Flags().BoolVar(&dmListFullText, "full-text", false, "Disable truncation in pretty output")
	dmCmd.AddCommand(dmListCmd)
}

func runDMList(cmd *cobra.Command, args []string) error {
	if err := intInRange("--limit", dmListLimit, 1, 500); err != nil {
		return err
	}
	if err := intInRange("--max-text", dmListMaxText, 20, 2000); err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}

	records, _, err := listChatRecords(cmd.Context(), client, chatTypes["dm"], dmListLimit)
	if err != nil {
		return err
	}

	if dmListUnread {
		unreadOnly := make([]normalize.ChatRecord, 0, len(records))
		for _, record := range records {
			if record.Unread > 0 {
				unreadOnly = append(unreadOnly, record)
			}
		}
		records = unreadOnly
	}
	sortChatRecords(records)

	total := len(records)
	shown := records
	if len(shown) > dmListLimit {
		shown = shown[:dmListLimit]
	}

	if humanOutput() {
		renderChatList(os.Stdout, shown, "DMS", len(shown), total, "dm", dmListMaxText, dmListFullText)
		return nil
	}
	return emit(shown, []string{"id", "name", "unread", "last_ts", "last_user", "last_text"})
}

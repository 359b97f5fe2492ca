package main

import (
	"os"
	"sort"
	"strings"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List and inspect users",
}

var (
	usersListQuery string
	usersListLimit int
)

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspace users",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

func init() {
	usersListCmd.Flags().StringVar(&usersListQuery, "query", "", "Filter users by id, handle, name, or email")
	usersListCmd.Flags().IntVar(&usersListLimit, "limit", 50, "Maximum number of users to show")
	usersCmd.AddCommand(usersListCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	if err := intInRange("--limit", usersListLimit, 1, 500); err != nil {
		return err
	}
	client, _, err := newClient()
	if err != nil {
		return err
	}

	all, err := client.UsersAll(cmd.Context())
	if err != nil {
		return err
	}

	records := make([]normalize.UserRecord, 0, len(all))
	for _, user := range all {
		if user.Deleted {
			continue
		}
		records = append(records, normalize.User(user))
	}
	sort.SliceStable(records, func(i, j int) bool {
		return strings.ToLower(records[i].Handle) < strings.ToLower(records[j].Handle)
	})

	if needle := strings.ToLower(strings.TrimSpace(usersListQuery)); needle != "" {
		var matched []normalize.UserRecord
		for _, record := range records {
			haystack := strings.ToLower(strings.Join([]string{record.ID, record.Handle, record.Name, record.Email}, " "))
			if strings.Contains(haystack, needle) {
				matched = append(matched, record)
			}
		}
		records = matched
	}

	total := len(records)
	shown := records
	if len(shown) > usersListLimit {
		shown = shown[:usersListLimit]
	}

	if humanOutput() {
		renderUsers(os.Stdout, shown, len(shown), total)
		return nil
	}
	return emit(shown, []string{"id", "handle", "name", "email", "status"})
}

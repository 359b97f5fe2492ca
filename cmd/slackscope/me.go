package main

import (
	"os"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	"github.com/SZRabinowitz/slackscope/internal/slack"
	"github.com/spf13/cobra"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show authenticated user and workspace information",
	Args:  cobra.NoArgs,
	RunE:  runMe,
}

func init() {
	rootCmd.AddCommand(meCmd)
}

func runMe(cmd *cobra.Command, args []string) error {
	client, settings, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	auth, err := client.AuthTest(ctx)
	if err != nil {
		return err
	}
	var user *slack.User
	if auth.UserID != "" {
		user, err = client.UserInfo(ctx, auth.UserID)
		if err != nil {
			return err
		}
	}

	item := normalize.Me(*auth, user, settings.Workspace)

	if humanOutput() {
		renderMe(os.Stdout, item)
		return nil
	}
	return emit(item, []string{"workspace", "team", "team_id", "user", "user_id", "email", "tz"})
}

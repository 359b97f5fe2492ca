package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SZRabinowitz/slackscope/internal/config"
	"github.com/SZRabinowitz/slackscope/internal/slack"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Slack credentials",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credential file health and auth test status",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authLogoutYes bool

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the local Slack credential file",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

func init() {
	authLogoutCmd.Flags().BoolVar(&authLogoutYes, "yes", false, "Skip confirmation prompt")
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

type authStatusPayload struct {
	EnvFile          string `json:"env_file"`
	FileExists       bool   `json:"file_exists"`
	WorkspacePresent bool   `json:"workspace_present"`
	TokenPresent     bool   `json:"token_present"`
	DCookiePresent   bool   `json:"d_cookie_present"`
	AuthOK           bool   `json:"auth_ok"`
	Team             string `json:"team,omitempty"`
	TeamID           string `json:"team_id,omitempty"`
	User             string `json:"user,omitempty"`
	UserID           string `json:"user_id,omitempty"`
	AuthError        string `json:"auth_error,omitempty"`
}

// runAuthStatus reports on the credential file alone, ignoring the
// process environment, so it answers "is my saved setup usable".
func runAuthStatus(cmd *cobra.Command, args []string) error {
	values, exists := config.EnvFileValues()
	workspace := strings.TrimSpace(values[config.EnvWorkspace])
	token := strings.TrimSpace(values[config.EnvToken])
	cookie := strings.TrimSpace(values[config.EnvDCookie])

	payload := authStatusPayload{
		EnvFile:          config.DefaultEnvFile,
		FileExists:       exists,
		WorkspacePresent: workspace != "",
		TokenPresent:     token != "",
		DCookiePresent:   cookie != "",
	}

	if workspace != "" && token != "" && cookie != "" {
		client := slack.NewClient(workspace, token, cookie)
		auth, err := client.AuthTest(cmd.Context())
		if err != nil {
			payload.AuthError = err.Error()
		} else {
			payload.AuthOK = true
			payload.Team = auth.Team
			payload.TeamID = auth.TeamID
			payload.User = auth.User
			payload.UserID = auth.UserID
		}
	}

	if humanOutput() {
		renderAuthStatus(os.Stdout, payload)
		return nil
	}
	return emit(payload, []string{
		"env_file", "file_exists", "workspace_present", "token_present",
		"d_cookie_present", "auth_ok", "team", "team_id", "user", "user_id",
		"auth_error",
	})
}

func renderAuthStatus(w io.Writer, payload authStatusPayload) {
	fmt.Fprintf(w, "%-12s%s\n", "ENV FILE", payload.EnvFile)
	fmt.Fprintf(w, "%-12s%s\n", "EXISTS", yesNo(payload.FileExists))
	fmt.Fprintf(w, "%-12s%s\n", "WORKSPACE", presentWord(payload.WorkspacePresent))
	fmt.Fprintf(w, "%-12s%s\n", "TOKEN", presentWord(payload.TokenPresent))
	fmt.Fprintf(w, "%-12s%s\n", "D_COOKIE", presentWord(payload.DCookiePresent))

	switch {
	case payload.AuthOK:
		fmt.Fprintf(w, "%-12sok\n", "AUTH TEST")
		fmt.Fprintf(w, "%-12s@%s (%s)\n", "IDENTITY", payload.User, payload.UserID)
		fmt.Fprintf(w, "%-12s%s (%s)\n", "WORKSPACE", payload.Team, payload.TeamID)
	case payload.AuthError != "":
		fmt.Fprintf(w, "%-12sfailed: %s\n", "AUTH TEST", payload.AuthError)
	default:
		fmt.Fprintf(w, "%-12sskipped (missing required values)\n", "AUTH TEST")
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func presentWord(value bool) string {
	if value {
		return "present"
	}
	return "missing"
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	envPath := config.DefaultEnvFile
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		fmt.Printf("No auth file found at %s.\n", envPath)
		return nil
	}

	if !authLogoutYes {
		fmt.Printf("Remove credentials at %s? [y/N]: ", envPath)
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Println("Cancelled.")
			return nil
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := os.Remove(envPath); err != nil {
		return fmt.Errorf("removing %s: %w", envPath, err)
	}
	fmt.Printf("Removed credentials: %s\n", envPath)
	return nil
}

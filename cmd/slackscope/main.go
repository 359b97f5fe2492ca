// Package main provides the slackscope CLI entry point.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/SZRabinowitz/slackscope/internal/config"
	"github.com/SZRabinowitz/slackscope/internal/slack"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Persistent output flags shared by every command.
var (
	outputFormat string
	fieldsFlag   string
	verboseFlag  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		reportError(err)
		os.Exit(exitCodeFor(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "slackscope",
	Short: "Read-first Slack CLI bridge",
	Long: `slackscope is a read-first CLI bridge to the Slack Web API.

It signs requests with a user session (xoxc token plus the browser d
cookie) so it sees exactly what you see in the Slack client:

  - me, users: identity and workspace directory
  - chat, dm: conversation lists, snapshots, and history
  - thread: full reply chains
  - api: raw Web API escape hatch (call, curl)
  - auth: credential setup and checks

Output is pretty text by default; --format json/jsonl/tsv with --fields
projection targets scripts and agents. Nothing here posts, edits, or
deletes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		outputFormat = strings.ToLower(outputFormat)
		if !validFormat(outputFormat) {
			return fmt.Errorf("invalid --format %q (use pretty, json, jsonl, or tsv)", outputFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatPretty, "Output format: pretty, json, jsonl, or tsv")
	rootCmd.PersistentFlags().StringVar(&fieldsFlag, "fields", "", "Comma-separated fields to include in structured outputs")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log API requests to stderr")
	rootCmd.Version = Version
}

// newClient loads credentials and builds an API client. Commands that
// talk to Slack call this first; the auth commands stay off this path
// so they keep working before credentials exist.
func newClient() (*slack.Client, *config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	client := slack.NewClient(settings.Workspace, settings.Token, settings.DCookie,
		slack.WithHTTPClient(&http.Client{Timeout: settings.Timeout}),
		slack.WithVerbose(verboseFlag))
	return client, settings, nil
}

// reportError writes err to stderr, expanding ambiguous-target errors
// with their candidate list so the user can retry with an ID.
func reportError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	var ambiguous *slack.AmbiguousTargetError
	if errors.As(err, &ambiguous) {
		renderCandidates(os.Stderr, ambiguous.Candidates)
	}
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	var coded *exitCodeError
	if errors.As(err, &coded) {
		return coded.code
	}
	if slack.IsAmbiguous(err) {
		return ExitAmbiguous
	}
	if errors.Is(err, config.ErrMissingCredential) || errors.Is(err, config.ErrInvalidWorkspace) {
		return ExitConfigError
	}
	if slack.IsNotFound(err) {
		return ExitNotFound
	}
	return ExitError
}

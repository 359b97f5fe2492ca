package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

var (
	apiCurlPrintCommand bool
	apiCurlPrintOnly    bool
)

var apiCurlCmd = &cobra.Command{
	Use:   "curl <endpoint> [curl args...]",
	Short: "Run a curl command pre-wired for Slack API auth",
	Long: `Run a curl command pre-wired for Slack API auth.

The token and session cookie are attached for you; everything after the
endpoint passes to curl untouched. Printed commands have credentials
redacted, so they are safe to share.

Examples:
  slackscope api curl auth.test
  slackscope api curl conversations.history --data-urlencode channel=C0123456789
  slackscope api curl --print-only search.messages --data-urlencode query=deploy`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAPICurl,
}

func init() {
	// Flags must precede the endpoint; everything after it belongs to curl.
	apiCurlCmd.Flags().SetInterspersed(false)
	apiCurlCmd.Flags().BoolVar(&apiCurlPrintCommand, "print-command", false, "Print the redacted curl command before executing")
	apiCurlCmd.Flags().BoolVar(&apiCurlPrintOnly, "print-only", false, "Print the redacted curl command and exit")
	apiCmd.AddCommand(apiCurlCmd)
}

func runAPICurl(cmd *cobra.Command, args []string) error {
	client, settings, err := newClient()
	if err != nil {
		return err
	}
	url, err := client.APIURL(args[0])
	if err != nil {
		return err
	}

	curlArgs := []string{
		"-sS",
		"-X", "POST",
		"-H", fmt.Sprintf("Cookie: d=%s", settings.DCookie),
		"--data-urlencode", fmt.Sprintf("token=%s", settings.Token),
	}
	curlArgs = append(curlArgs, args[1:]...)
	curlArgs = append(curlArgs, url)

	if apiCurlPrintCommand || apiCurlPrintOnly {
		rendered := shellJoin(append([]string{"curl"}, curlArgs...))
		fmt.Println(redactCommand(rendered, settings.Token, settings.DCookie))
	}
	if apiCurlPrintOnly {
		return nil
	}

	curl := exec.CommandContext(cmd.Context(), "curl", curlArgs...)
	curl.Stdin = os.Stdin
	curl.Stdout = os.Stdout
	curl.Stderr = os.Stderr
	if err := curl.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &exitCodeError{
				code:    exitErr.ExitCode(),
				message: fmt.Sprintf("curl command failed with exit code %d", exitErr.ExitCode()),
			}
		}
		return fmt.Errorf("running curl: %w", err)
	}
	return nil
}

var shellSafeRe = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// shellQuote quotes one word for POSIX shells.
func shellQuote(word string) string {
	if word == "" {
		return "''"
	}
	if shellSafeRe.MatchString(word) {
		return word
	}
	return "'" + strings.ReplaceAll(word, "'", `'"'"'`) + "'"
}

func shellJoin(words []string) string {
	quoted := make([]string, len(words))
	for i, word := range words {
		quoted[i] = shellQuote(word)
	}
	return strings.Join(quoted, " ")
}

// redactCommand strips credentials from a rendered command line.
func redactCommand(command, token, cookie string) string {
	redacted := command
	if token != "" {
		redacted = strings.ReplaceAll(redacted, token, "<TOKEN_REDACTED>")
	}
	if cookie != "" {
		redacted = strings.ReplaceAll(redacted, cookie, "<D_COOKIE_REDACTED>")
	}
	return redacted
}

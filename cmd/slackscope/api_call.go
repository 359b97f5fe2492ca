package main

import (
	"fmt"
	"strings"

	"github.com/SZRabinowitz/slackscope/internal/slack"
	"github.com/spf13/cobra"
)

var (
	apiCallMethod string
	apiCallParams []string
)

var apiCallCmd = &cobra.Command{
	Use:   "call <endpoint>",
	Short: "Call a Slack API endpoint and emit the raw response body",
	Long: `Call a Slack API endpoint and emit the raw response body.

The body is printed exactly as Slack returned it, without the ok
envelope check, so error payloads come through for inspection.

Examples:
  slackscope api call auth.test
  slackscope api call conversations.history -p channel=C0123456789 -p limit=5
  slackscope api call users.info -X GET -p user=U0123456789`,
	Args: cobra.ExactArgs(1),
	RunE: runAPICall,
}

func init() {
	apiCallCmd.Flags().StringVarP(&apiCallMethod, "method", "X", "POST", "HTTP method for the request")
	apiCallCmd.Flags().StringArrayVarP(&apiCallParams, "param", "p", nil, "Request parameter in key=value form; repeat as needed")
	apiCmd.AddCommand(apiCallCmd)
}

func runAPICall(cmd *cobra.Command, args []string) error {
	params, err := parseParams(apiCallParams)
	if err != nil {
		return err
	}
	client, _, err := newClient()
	if err != nil {
		return err
	}

	body, err := client.CallRaw(cmd.Context(), apiCallMethod, args[0], params)
	if err != nil {
		return err
	}
	fmt.Print(body)
	return nil
}

func parseParams(raw []string) (slack.Params, error) {
	params := make(slack.Params, len(raw))
	for _, item := range raw {
		key, value, found := strings.Cut(item, "=")
		if !found {
			return nil, fmt.Errorf("invalid --param value %q; use key=value format", item)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("parameter key cannot be empty")
		}
		params[key] = value
	}
	return params, nil
}

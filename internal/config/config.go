// Package config resolves slackscope credentials and settings.
//
// Values are looked up in order: process environment, a .env file in
// the working directory, then the global config file. All three
// credentials are required; there are no defaults for them.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables holding the credentials.
const (
	EnvWorkspace = "SLACK_WORKSPACE"
	EnvToken     = "SLACK_TOKEN"
	EnvDCookie   = "SLACK_D_COOKIE"
)

// DefaultEnvFile is the .env file consulted in the working directory.
const DefaultEnvFile = ".env"

// DefaultTimeout is the HTTP timeout applied to API requests.
const DefaultTimeout = 20 * time.Second

// Workspace slugs are the subdomain piece of <slug>.slack.com.
var workspaceRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

var (
	// ErrMissingCredential indicates a required setting was not found in
	// any source.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidWorkspace indicates the workspace slug cannot form a
	// valid *.slack.com hostname.
	ErrInvalidWorkspace = errors.New("invalid workspace slug")
)

// Settings holds everything needed to build an API client.
type Settings struct {
	Workspace string
	Token     string
	DCookie   string
	Timeout   time.Duration
}

// APIBase returns the Web API root for the workspace.
func (s Settings) APIBase() string {
	return fmt.Sprintf("https://%s.slack.com/api", s.Workspace)
}

// Load resolves settings from the environment, .env file, and global
// config, validating the workspace slug.
func Load() (*Settings, error) {
	_ = godotenv.Load(DefaultEnvFile)

	var global GlobalConfig
	if cfg, err := LoadGlobalConfig(); err == nil {
		global = *cfg
	}
	workspace, err := lookup(EnvWorkspace, global.Workspace)
	if err != nil {
		return nil, err
	}
	token, err := lookup(EnvToken, global.Token)
	if err != nil {
		return nil, err
	}
	cookie, err := lookup(EnvDCookie, global.DCookie)
	if err != nil {
		return nil, err
	}

	workspace = strings.ToLower(workspace)
	if !workspaceRe.MatchString(workspace) {
		return nil, fmt.Errorf("%w: %q (expected the subdomain piece of <workspace>.slack.com)", ErrInvalidWorkspace, workspace)
	}
	return &Settings{
		Workspace: workspace,
		Token:     token,
		DCookie:   cookie,
		Timeout:   DefaultTimeout,
	}, nil
}

func lookup(name, globalValue string) (string, error) {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value, nil
	}
	if value := strings.TrimSpace(globalValue); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("%w: %s is not set (export it, add it to %s, or set it in %s)",
		ErrMissingCredential, name, DefaultEnvFile, GlobalConfigPath())
}

// EnvFileValues reads the .env file without touching the process
// environment. The second return reports whether the file exists.
func EnvFileValues() (map[string]string, bool) {
	values, err := godotenv.Read(DefaultEnvFile)
	if err != nil {
		return map[string]string{}, false
	}
	return values, true
}

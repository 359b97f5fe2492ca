package main

// Exit codes for slackscope commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0
	// ExitError indicates a general failure (network, API, usage).
	ExitError = 1
	// ExitConfigError indicates missing or invalid credentials.
	ExitConfigError = 2
	// ExitNotFound indicates a target could not be resolved.
	ExitNotFound = 3
	// ExitAmbiguous indicates a name matched more than one entity.
	ExitAmbiguous = 4
)

// exitCodeError carries an explicit exit code through RunE, used when a
// wrapped subprocess already picked one.
type exitCodeError struct {
	code    int
	message string
}

func (e *exitCodeError) Error() string {
	return e.message
}

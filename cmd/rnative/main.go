package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Ensemble evaluated and ranked
	ExitUnrankable = 1 // Consensus computed, but too few models to rank
	ExitError      = 2 // Configuration or runtime error
)

// UnrankableError indicates that the evaluation ran and its consensus was
// reported, but the ensemble was too small to rank.
type UnrankableError struct {
	Message string
}

func (e *UnrankableError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var unrankable *UnrankableError
	if errors.As(err, &unrankable) {
		return ExitUnrankable
	}
	return ExitError
}

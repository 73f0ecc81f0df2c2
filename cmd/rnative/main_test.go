package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnrankableError(t *testing.T) {
	err := &UnrankableError{Message: "consensus computed from 1 model(s)"}
	assert.Equal(t, "consensus computed from 1 model(s)", err.Error())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: ExitSuccess},
		{name: "unrankable", err: &UnrankableError{Message: "too few"}, want: ExitUnrankable},
		{name: "wrapped unrankable", err: fmt.Errorf("run: %w", &UnrankableError{Message: "too few"}), want: ExitUnrankable},
		{name: "joined unrankable", err: errors.Join(&UnrankableError{Message: "too few"}, errors.New("context")), want: ExitUnrankable},
		{name: "regular error", err: errors.New("config error"), want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"run", "compare", "check", "init"} {
		cmd, _, err := root.Find([]string{name})
		assert.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("debug"))
}

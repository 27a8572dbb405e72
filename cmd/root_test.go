package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "chat", "reset", "migrate"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "trip-assistant", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestChatCommand_Flags(t *testing.T) {
	flag := chatCmd.Flags().Lookup("session")
	require.NotNil(t, flag, "chat command should have --session flag")
	assert.Empty(t, flag.DefValue)
}

func TestResetCommand_RequiresSessionID(t *testing.T) {
	assert.Error(t, resetCmd.Args(resetCmd, nil))
	assert.NoError(t, resetCmd.Args(resetCmd, []string{"abc"}))
}

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChat(t *testing.T) {
	ctrl := newTestController(t)
	in := strings.NewReader("Trip to Paris\n\n/reset\nTrip to Rome\n/quit\nnever read\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), ctrl, "cli-1", in, &out))

	text := out.String()
	assert.Contains(t, text, "Session cli-1.")
	assert.Contains(t, text, "Starting over.")
	assert.Contains(t, text, "Destination: Rome")

	s, err := ctrl.Session(context.Background(), "cli-1")
	require.NoError(t, err)
	assert.Equal(t, "Rome", s.Profile.Destination)
	assert.Len(t, s.History, 2)
}

func TestRunChat_EOF(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), newTestController(t), "cli-2", strings.NewReader("Trip to Oslo"), &out))
	assert.Contains(t, out.String(), "Oslo")
}

func TestRunChat_StoreDown(t *testing.T) {
	var out bytes.Buffer
	err := runChat(context.Background(), downService{}, "cli-3", strings.NewReader("hello\n"), &out)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Contains(t, out.String(), "try again later")
}

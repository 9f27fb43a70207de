package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/glorpus-work/nebula/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cli.SetOutput(&out, &bytes.Buffer{})

	cmd := newRootCmd()
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "nebula version")
}

func TestHelpCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"help"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	for _, sub := range []string{"list", "update", "uninstall", "cache", "config", "version"} {
		assert.Contains(t, out.String(), sub)
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"frobnicate"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestUpdateRequiresPackage(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"update"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

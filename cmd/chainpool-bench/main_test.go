package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/chainpool/pkg/config"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, 2)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "bench")
	assert.Contains(t, names, "version")
}

func TestApplyEnvDefaults(t *testing.T) {
	t.Setenv("CHAINPOOL_LOG_LEVEL", "debug")
	t.Setenv("CHAINPOOL_INITIAL_SIZE", "64")

	cfg := config.DefaultPoolConfig("bench")
	applyEnvDefaults(cfg)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 64, cfg.InitialSize)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnvDefaults_UnsetKeepsDefaults(t *testing.T) {
	t.Setenv("CHAINPOOL_LOG_LEVEL", "")
	t.Setenv("CHAINPOOL_INITIAL_SIZE", "")

	cfg := config.DefaultPoolConfig("bench")
	applyEnvDefaults(cfg)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 512, cfg.InitialSize)
}

func TestApplyEnvDefaults_IgnoresMalformedSize(t *testing.T) {
	t.Setenv("CHAINPOOL_INITIAL_SIZE", "not-a-number")

	cfg := config.DefaultPoolConfig("bench")
	applyEnvDefaults(cfg)

	assert.Equal(t, 512, cfg.InitialSize)
}

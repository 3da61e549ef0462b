package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand_MasksSecrets(t *testing.T) {
	t.Setenv("MUSICIAN_PRIMARY__ENV", "local")
	t.Setenv("MUSICIAN_AUTH__SECRET_KEY", "sk_test_123")

	var out bytes.Buffer
	configCmd.SetOut(&out)
	t.Cleanup(func() { configCmd.SetOut(nil) })

	require.NoError(t, configCmd.RunE(configCmd, nil))

	var printed map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))

	auth, ok := printed["Auth"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "********", auth["SecretKey"])
	assert.NotContains(t, out.String(), "sk_test_123")
}

func TestMigrateCommand_RequiresPostgres(t *testing.T) {
	t.Setenv("MUSICIAN_PRIMARY__ENV", "local")
	t.Setenv("MUSICIAN_STORE__DRIVER", "memory")

	err := migrateCmd.RunE(migrateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `migrate needs store.driver "postgres"`)
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "migrate", "config"} {
		assert.True(t, names[want], want)
	}
}

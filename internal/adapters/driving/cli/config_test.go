package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strand-media/enricher/internal/core/domain"
)

// writeConfigFile writes a TOML config into a temp directory and points
// the persistent --config flag at it for the duration of the test.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Cleanup(func() {
		configPath = ""
		rootCmd.SetArgs(nil)
	})
	return path
}

// TestConfigCmd_Use tests the command registration.
func TestConfigCmd_Use(t *testing.T) {
	assert.Equal(t, "config", configCmd.Use)
	assert.Equal(t, "validate", configValidateCmd.Use)
}

// TestConfigValidateCmd_Valid tests a full valid configuration: the
// strategy, adapter and normaliser build and the mapping loads.
func TestConfigValidateCmd_Valid(t *testing.T) {
	path := writeConfigFile(t, `
[source]
name = "studio-api"
adapter = "restjson"
auth_strategy = "apikey"
secret_ref = "sources/studio-api"

[source.transport]
endpoint = "https://api.studio.example.com/v2"

[secrets]
store = "memory"

[mapping.inline]
namespace_prefix = "org:catalog"

[mapping.inline.identifiers]
imdb_id = "imdb"
`)

	stdout, _, err := executeCommand("config", "validate", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration valid: "+path)
	assert.Contains(t, stdout, "Adapter:    restjson (https://api.studio.example.com/v2)")
	assert.Contains(t, stdout, "Auth:       apikey")
	assert.Contains(t, stdout, "Normaliser: studio-api (mapping: inline)")
	assert.Contains(t, stdout, "Storage:    sqlite")
	assert.Contains(t, stdout, "Secrets:    memory")
}

// TestConfigValidateCmd_Placeholder tests that a source without a name
// selects the placeholder normaliser.
func TestConfigValidateCmd_Placeholder(t *testing.T) {
	path := writeConfigFile(t, `
[source]
adapter = "restxml"
auth_strategy = "basic"
secret_ref = "sources/legacy"

[source.transport]
endpoint = "https://legacy.example.com/feed"

[secrets]
store = "memory"
`)

	stdout, _, err := executeCommand("config", "validate", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Adapter:    restxml")
	assert.Contains(t, stdout, "Normaliser: placeholder (mapping: none)")
}

// TestConfigValidateCmd_UnknownAdapter tests that adapter names are
// checked against the factory, not just for presence.
func TestConfigValidateCmd_UnknownAdapter(t *testing.T) {
	path := writeConfigFile(t, `
[source]
adapter = "soap"
auth_strategy = "apikey"
secret_ref = "sources/studio-api"

[source.transport]
endpoint = "https://api.studio.example.com/v2"

[secrets]
store = "memory"
`)

	_, _, err := executeCommand("config", "validate", "--config", path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "build connector")
}

// TestConfigValidateCmd_UnknownStrategy tests the auth strategy
// membership check.
func TestConfigValidateCmd_UnknownStrategy(t *testing.T) {
	path := writeConfigFile(t, `
[source]
adapter = "restjson"
auth_strategy = "kerberos"
secret_ref = "sources/studio-api"

[source.transport]
endpoint = "https://api.studio.example.com/v2"

[secrets]
store = "memory"
`)

	_, _, err := executeCommand("config", "validate", "--config", path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "build auth strategy")
}

// TestConfigValidateCmd_MissingMappingFile tests that a dangling mapping
// file reference fails validation.
func TestConfigValidateCmd_MissingMappingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "mapping.json")
	path := writeConfigFile(t, `
[source]
name = "studio-api"
adapter = "restjson"
auth_strategy = "apikey"
secret_ref = "sources/studio-api"

[source.transport]
endpoint = "https://api.studio.example.com/v2"

[secrets]
store = "memory"

[mapping]
file = "`+missing+`"
`)

	_, _, err := executeCommand("config", "validate", "--config", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping configuration")
}

// TestConfigValidateCmd_InvalidConfig tests that load-time validation
// errors surface through the command.
func TestConfigValidateCmd_InvalidConfig(t *testing.T) {
	path := writeConfigFile(t, `
[source]
adapter = "restjson"
secret_ref = "sources/studio-api"

[source.transport]
endpoint = "https://api.studio.example.com/v2"
`)

	_, _, err := executeCommand("config", "validate", "--config", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth_strategy")
}

// TestConfigValidateCmd_MissingFile tests the missing config file error.
func TestConfigValidateCmd_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.toml")
	t.Cleanup(func() {
		configPath = ""
		rootCmd.SetArgs(nil)
	})

	_, _, err := executeCommand("config", "validate", "--config", missing)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read configuration")
}

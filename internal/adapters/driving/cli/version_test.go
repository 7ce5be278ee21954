package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Short(t *testing.T) {
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	// Save and restore build metadata
	originalVersion := version
	originalCommit := commit
	originalDate := buildDate
	version = "test-version-1.0.0"
	commit = "abc1234"
	buildDate = "2025-06-01"
	defer func() {
		version = originalVersion
		commit = originalCommit
		buildDate = originalDate
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "enricher version test-version-1.0.0")
	assert.Contains(t, buf.String(), "commit: abc1234")
	assert.Contains(t, buf.String(), "built:  2025-06-01")
}

func TestVersionCmd_DisplaysDevByDefault(t *testing.T) {
	// Unstamped builds print the dev version and no metadata lines
	originalVersion := version
	version = "dev"
	defer func() { version = originalVersion }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "enricher version dev")
	assert.NotContains(t, buf.String(), "commit:")
}

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConfigRunner points the CLI at a fresh config store in a temp
// directory and returns a helper that executes commands against it.
func newConfigRunner(t *testing.T) func(args ...string) string {
	t.Helper()

	originalDir := configDir
	originalStore := configStore
	configDir = t.TempDir()
	configStore = nil
	t.Cleanup(func() {
		configDir = originalDir
		configStore = originalStore
		rootCmd.SetArgs(nil)
	})

	return func(args ...string) string {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs(args)
		require.NoError(t, rootCmd.Execute())
		return buf.String()
	}
}

func TestConfigCmd_Roundtrip(t *testing.T) {
	run := newConfigRunner(t)

	run("config", "set", "chunk.size", "500")
	out := run("config", "get", "chunk.size")
	assert.Contains(t, out, "chunk.size = 500")

	out = run("config", "list")
	assert.Contains(t, out, "chunk.size")

	run("config", "unset", "chunk.size")
	out = run("config", "get", "chunk.size")
	assert.Contains(t, out, "chunk.size is not set.")
}

func TestConfigCmd_MasksAPIKey(t *testing.T) {
	run := newConfigRunner(t)

	run("config", "set", "openai.api_key", "sk-verysecretkey12345")
	out := run("config", "get", "openai.api_key")
	assert.NotContains(t, out, "sk-verysecretkey12345")
	assert.Contains(t, out, "...")
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, int64(42), parseValue("42"))
	assert.Equal(t, 0.5, parseValue("0.5"))
	assert.Equal(t, "sqlite", parseValue("sqlite"))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-v...2345", maskAPIKey("sk-verysecretkey12345"))
}

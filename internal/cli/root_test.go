package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pcconf", cmd.Use)
	assert.Contains(t, cmd.Long, "budget")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"solve", "build", "validate", "configs", "trace", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("env-file"))
}

func TestSubcommandFlags(t *testing.T) {
	tests := []struct {
		command string
		flag    string
		def     string
	}{
		{"solve", "limit", "10"},
		{"solve", "cheapest", "false"},
		{"solve", "budget", ""},
		{"build", "strategy", ""},
		{"build", "no-save", "false"},
		{"build", "csv", ""},
		{"validate", "budget", ""},
		{"configs", "sessions", "false"},
		{"trace", "db", ""},
		{"test", "update", "false"},
		{"test", "golden-dir", ""},
	}

	root := NewRootCommand()
	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			sub, _, err := root.Find([]string{tt.command})
			require.NoError(t, err)
			f := sub.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, NewRootCommand(), "", "--format", "xml", "validate", dataDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootCommand_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "pcconf.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PCCONF_CATALOG="+dataDir+"\nPCCONF_BUDGET=900\n"), 0o644))
	// godotenv never overrides variables that are already set.
	t.Setenv("PCCONF_CATALOG", "")
	t.Setenv("PCCONF_BUDGET", "")
	os.Unsetenv("PCCONF_CATALOG")
	os.Unsetenv("PCCONF_BUDGET")

	out, _, err := execute(t, NewRootCommand(), "", "--env-file", envFile, "--format", "json", "solve")
	require.NoError(t, err)

	var result SolveResult
	resp := decode(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "900.00", result.Budget)
}

func TestRootCommand_ZeroBudgetFromEnv(t *testing.T) {
	t.Setenv("PCCONF_BUDGET", "0")

	out, _, err := execute(t, NewRootCommand(), "", "--format", "json", "solve", "--catalog", dataDir)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decode(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUnsatisfiable, resp.Error.Code)
}

func TestRootCommand_BadEnvFile(t *testing.T) {
	_, _, err := execute(t, NewRootCommand(), "", "--env-file", filepath.Join(t.TempDir(), "missing.env"), "validate", dataDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}

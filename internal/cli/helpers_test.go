package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// dataDir is the shipped CSV catalog, equal to the sample catalog with
// product names.
var dataDir = filepath.Join("..", "..", "data")

const cheapestID = "f352679aced43f6ca5636d3257f7d167e8c797634492cd711f84ee6b54f4e0df"

// execute runs cmd with args, returning stdout, stderr and the error.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decode unmarshals a JSON CLIResponse whose data is decoded into data.
func decode(t *testing.T, raw string, data any) CLIResponse {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope), raw)
	if data != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	return CLIResponse{Status: envelope.Status, Error: envelope.Error}
}

// copyCatalog copies the shipped catalog into a temp dir, applying edit to
// the named file's content when edit is not nil.
func copyCatalog(t *testing.T, file string, edit func(string) string) string {
	t.Helper()
	dir := t.TempDir()
	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dataDir, e.Name()))
		require.NoError(t, err)
		content := string(data)
		if e.Name() == file && edit != nil {
			content = edit(content)
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), []byte(content), 0o644))
	}
	return dir
}

func jsonOpts() *RootOptions {
	return &RootOptions{Format: "json"}
}

func textOpts() *RootOptions {
	return &RootOptions{Format: "text"}
}

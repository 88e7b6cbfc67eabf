package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI in-process with fresh flag values and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommands(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

// resetCommands restores flag defaults and drops the context cobra kept from
// the previous run, so each subcommand inherits the new root context.
func resetCommands(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	cmd.SetContext(nil) //nolint:staticcheck
	for _, c := range cmd.Commands() {
		resetCommands(c)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// zeroDelaysConfig disables every pause so form tests run instantly.
const zeroDelaysConfig = `{
  "delays": {
    "keystroke": {"min": 0, "max": 0},
    "clear": {"min": 0, "max": 0},
    "after_type": {"min": 0, "max": 0},
    "select": {"min": 0, "max": 0},
    "upload": {"min": 0, "max": 0},
    "submit": {"min": 0, "max": 0},
    "page_load": {"min": 0, "max": 0}
  }
}`

const testProfileJSON = `{
  "name": "Jane Roe",
  "email": "jane@example.org",
  "phone": "+49 30 1234567",
  "current_role": "Data Engineer",
  "years_experience": "6",
  "skills": {"Data Engineering": ["Airflow", "Spark"]},
  "experience": [{"company": "Acme", "position": "Data Engineer", "period": "2020 - Present"}]
}`

const genericFormHTML = `<html><body>
<form>
  <input name="full_name">
  <input type="email" name="email">
  <input type="file" name="resume">
  <button type="submit">Submit</button>
</form>
</body></html>`

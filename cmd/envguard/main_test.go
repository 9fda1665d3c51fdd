package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenian/envguard"
)

var snapshotter = cupaloy.New(cupaloy.SnapshotSubdirectory("testdata/.snapshots"))

// run executes the CLI in-process and returns what it wrote.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between runs.
func resetFlags(cmd *cobra.Command) {
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
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestCheck_Valid(t *testing.T) {
	stdout, _, err := run(t, "check", "-d", "testdata/mock-repo", "--no-exported")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Checked 3 variables for default (.env)")
	assert.Contains(t, stdout, "✓ Environment is valid.")
}

func TestCheck_ExportedEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("CI_TOKEN", "ci-secret")
	t.Setenv("MISSING_VAR", "")

	stdout, _, err := run(t, "check", "-d", "testdata/mock-repo-exported")
	require.ErrorIs(t, err, errIssuesFound)
	assert.Contains(t, stdout, "✗ MISSING_VAR")
	assert.NotContains(t, stdout, "CI_TOKEN")
	assert.Contains(t, stdout, "✗ 1 problem(s) found.")

	stdout, _, err = run(t, "check", "-d", "testdata/mock-repo-exported", "--no-exported")
	require.ErrorIs(t, err, errIssuesFound)
	assert.Contains(t, stdout, "✗ CI_TOKEN")
	assert.Contains(t, stdout, "✗ 2 problem(s) found.")
}

func TestCheck_ConfigIgnores(t *testing.T) {
	stdout, _, err := run(t, "check", "-d", "testdata/mock-repo-ignores", "--no-exported")
	require.ErrorIs(t, err, errIssuesFound)
	assert.Contains(t, stdout, "✗ API_KEY")
	snapshotter.SnapshotT(t, stdout)
}

func TestCheck_EnvFiles(t *testing.T) {
	stdout, _, err := run(t, "check", "-d", "testdata/mock-repo-envfiles", "--no-exported")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(.env, .env.local, .env.production, docker-compose.yml)")
	assert.NotContains(t, stdout, ".env.example")
}

func TestCheck_EnvironmentOverrides(t *testing.T) {
	stdout, _, err := run(t, "check", "-d", "testdata/mock-repo-envfiles", "--no-exported",
		"-e", "production", "--json")
	require.ErrorIs(t, err, errIssuesFound)

	var report struct {
		Valid       bool                `json:"valid"`
		Environment string              `json:"environment"`
		Errors      []envguard.EnvError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.False(t, report.Valid)
	assert.Equal(t, "production", report.Environment)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, "DB_POOL", report.Errors[0].Key)
	assert.Equal(t, envguard.KindInvalidValue, report.Errors[0].Kind)
	assert.Equal(t, "LOG_LEVEL", report.Errors[1].Key)
	assert.Equal(t, "debug", report.Errors[1].Received)
}

func TestCheck_ExplicitEnvFile(t *testing.T) {
	_, _, err := run(t, "check", "-d", "testdata/mock-repo-envfiles", "--no-exported",
		"--no-auto-detect", "--env-file", ".env.example")
	require.ErrorIs(t, err, errIssuesFound)

	_, _, err = run(t, "check", "-d", "testdata/mock-repo-envfiles", "--env-file", "nope.env")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheck_MissingSchema(t *testing.T) {
	_, _, err := run(t, "check", "-d", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file env.schema.yaml not found")
}

func TestScan_BasicScan(t *testing.T) {
	stdout, stderr, err := run(t, "scan", "testdata/mock-repo")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Found 1 files (go: 1)")
	assert.Contains(t, stdout, "✓ No issues found.")
	snapshotter.SnapshotT(t, stdout)
}

func TestScan_ConfigIgnores(t *testing.T) {
	stdout, _, err := run(t, "scan", "testdata/mock-repo-ignores", "--no-header")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 undeclared variable(s) were ignored")
	assert.NotContains(t, stdout, "DATABASE_URL")
}

func TestScan_MultiLanguage(t *testing.T) {
	stdout, stderr, err := run(t, "scan", "testdata/mock-repo-multilang", "--json")
	require.ErrorIs(t, err, errIssuesFound)
	assert.Empty(t, stderr)

	var result struct {
		Undeclared   []struct{ Key string } `json:"undeclared"`
		Dynamic      []struct{ Key string } `json:"dynamic"`
		Unreferenced []string               `json:"unreferenced"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Len(t, result.Undeclared, 1)
	assert.Equal(t, "API_KEY", result.Undeclared[0].Key)
	require.Len(t, result.Dynamic, 1)
	assert.Equal(t, "name", result.Dynamic[0].Key)
	assert.Equal(t, []string{"LEGACY_FLAG"}, result.Unreferenced)
	snapshotter.SnapshotT(t, stdout)
}

func TestScan_Options(t *testing.T) {
	stdout, _, err := run(t, "scan", "testdata/mock-repo-multilang", "--no-header",
		"--skip-unreferenced", "--no-dynamic", "--exclude", "*.rs")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ No issues found.")

	stdout, stderr, err := run(t, "scan", "testdata/mock-repo-multilang", "--silent")
	require.ErrorIs(t, err, errIssuesFound)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestExample(t *testing.T) {
	stdout, _, err := run(t, "example", "-d", "testdata/mock-repo")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# HTTP listen port\n# type: integer, optional, default: 3000\nPORT=3000\n")
	snapshotter.SnapshotT(t, stdout)

	stdout, _, err = run(t, "example", "-d", "testdata/mock-repo", "--no-comments", "--no-defaults")
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=\nDATABASE_URL=\nPORT=\n", stdout)
}

func TestExample_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.example")
	stdout, stderr, err := run(t, "example", "-d", "testdata/mock-repo", "--no-comments", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=\nDATABASE_URL=\nPORT=3000\n", string(data))
}

func TestInspect(t *testing.T) {
	stdout, _, err := run(t, "inspect", "-d", "testdata/mock-repo-envfiles", "--json")
	require.NoError(t, err)

	var in envguard.Introspection
	require.NoError(t, json.Unmarshal([]byte(stdout), &in))
	var keys []string
	for _, f := range in.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"PORT", "LOG_LEVEL", "REDIS_URL", "DB_POOL"}, keys)

	stdout, _, err = run(t, "inspect", "-d", "testdata/mock-repo-envfiles")
	require.NoError(t, err)
	snapshotter.SnapshotT(t, stdout)
}

func TestInitSchema(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile("testdata/mock-repo/src/main.go")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), src, 0o644))

	stdout, _, err := run(t, "init-schema", "-d", dir)
	require.NoError(t, err)
	assert.Equal(t, "Created env.schema.yaml\n", stdout)

	data, err := os.ReadFile(filepath.Join(dir, "env.schema.yaml"))
	require.NoError(t, err)
	snapshotter.SnapshotT(t, string(data))

	_, _, err = run(t, "init-schema", "-d", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "init-schema", "-d", dir, "--force")
	require.NoError(t, err)

	stdout, _, err = run(t, "init-schema", "-d", dir, "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, string(data), stdout)

	// the generated schema is usable straight away
	stdout, _, err = run(t, "example", "-d", dir, "--no-comments")
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=\nDATABASE_URL=\nPORT=\n", stdout)
}

func TestInitConfig(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := run(t, "init-config", "-d", dir)
	require.NoError(t, err)
	assert.Equal(t, "Created .envguard.config\n", stdout)
	assert.FileExists(t, filepath.Join(dir, ".envguard.config"))

	_, _, err = run(t, "init-config", "-d", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

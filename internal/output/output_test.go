package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenian/envguard"
	"github.com/jenian/envguard/internal/analyzer"
	"github.com/jenian/envguard/internal/scanner"
	"github.com/jenian/envguard/internal/usage"
)

var snapshotter = cupaloy.New(cupaloy.SnapshotSubdirectory("testdata/.snapshots"))

var sampleErrors = []envguard.EnvError{
	{Key: "DATABASE_URL", Kind: envguard.KindMissing, Message: "Required", Expected: "url"},
	{Key: "PORT", Kind: envguard.KindInvalidValue, Message: "Must be a valid port number (1-65535)", Received: "70000", Expected: "integer"},
}

func TestCheck_Text(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	require.NoError(t, p.Check(CheckReport{
		Environment: "production",
		Sources:     []string{".env", ".env.local"},
		Fields:      4,
		Errors:      sampleErrors,
		Ignored:     []string{"SECRET"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Checked 4 variables for production (.env, .env.local)")
	assert.Contains(t, out, "  ✗ DATABASE_URL (url)\n")
	assert.Contains(t, out, `      received: "70000"`)
	assert.Contains(t, out, "✗ 2 problem(s) found.")
	assert.NotContains(t, out, "\033[", "buffers never get colors")
	snapshotter.SnapshotT(t, out)
}

func TestCheck_Valid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf).Check(CheckReport{Fields: 2}))
	assert.Contains(t, buf.String(), "for default (exported environment only)")
	assert.Contains(t, buf.String(), "✓ Environment is valid.")
}

func TestCheck_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.SetJSON(true)
	require.NoError(t, p.Check(CheckReport{Environment: "dev", Fields: 3, Errors: sampleErrors}))

	var got struct {
		Valid       bool                `json:"valid"`
		Environment string              `json:"environment"`
		Sources     []string            `json:"sources"`
		Errors      []envguard.EnvError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.False(t, got.Valid)
	assert.Equal(t, "dev", got.Environment)
	assert.Equal(t, []string{}, got.Sources)
	assert.Equal(t, sampleErrors, got.Errors)
}

func sampleScan() analyzer.Result {
	return analyzer.Result{
		Undeclared: map[string][]usage.Usage{
			"STRIPE_KEY": {{Key: "STRIPE_KEY", File: "pay.js", Line: 3, Snippet: "const k = process.env.STRIPE_KEY"}},
		},
		Dynamic: map[string][]usage.Usage{
			"name": {{Key: "name", Kind: usage.VarRef, File: "util.go", Line: 9}},
		},
		Unreferenced:   []string{"OLD_KEY"},
		IgnoredMissing: 1,
	}
}

func TestScan_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf).Scan(sampleScan(), ScanOptions{Dynamic: true}))

	out := buf.String()
	assert.Contains(t, out, "Undeclared environment variables:")
	assert.Contains(t, out, "    used in: pay.js:3 const k = process.env.STRIPE_KEY\n")
	assert.Contains(t, out, "Dynamic lookups")
	assert.Contains(t, out, "  OLD_KEY\n")
	assert.NotContains(t, out, "No issues found")
	snapshotter.SnapshotT(t, out)
}

func TestScan_Options(t *testing.T) {
	var buf bytes.Buffer
	r := sampleScan()
	r.Undeclared = nil
	require.NoError(t, New(&buf).Scan(r, ScanOptions{SkipUnreferenced: true}))

	out := buf.String()
	assert.NotContains(t, out, "Dynamic lookups")
	assert.NotContains(t, out, "OLD_KEY")
	assert.Contains(t, out, "✓ No issues found.")
}

func TestScan_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.SetJSON(true)
	require.NoError(t, p.Scan(sampleScan(), ScanOptions{}))

	var got scanJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []KeyLocations{{Key: "STRIPE_KEY", Locations: []Location{{File: "pay.js", Line: 3, Snippet: "const k = process.env.STRIPE_KEY"}}}}, got.Undeclared)
	assert.Empty(t, got.Dynamic)
	assert.Equal(t, []string{"OLD_KEY"}, got.Unreferenced)
	assert.Equal(t, 1, got.IgnoredMissing)
}

func TestInspect(t *testing.T) {
	g := envguard.Define(envguard.Schema{
		envguard.Key("PORT", envguard.Int().Port().Default(3000).Describe("listen port")),
		envguard.Key("db", envguard.Group(envguard.FlatSchema{
			envguard.Field("HOST", envguard.String()),
		}, envguard.WithPrefix("DB_"))),
	})

	var buf bytes.Buffer
	require.NoError(t, New(&buf).Inspect(g.Introspect()))
	want := "KEY      TYPE     REQUIRED  DEFAULT  DESCRIPTION\n" +
		"PORT     integer  no        3000     listen port\n" +
		"DB_HOST  string   yes       -        [db]\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	p := New(&buf)
	p.SetJSON(true)
	require.NoError(t, p.Inspect(g.Introspect()))
	var got envguard.Introspection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Fields, 2)
	assert.Equal(t, "DB_HOST", got.Fields[1].Key)
}

func TestScanSummary(t *testing.T) {
	files := []scanner.File{
		{Language: scanner.LanguageGo},
		{Language: scanner.LanguageTypeScript},
		{Language: scanner.LanguageGo},
	}
	assert.Equal(t, "Found 3 files (ts: 1, go: 2)", ScanSummary(files))
	assert.Equal(t, "Found 0 files to parse", ScanSummary(nil))
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Error(errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestClose_RestoresOnce(t *testing.T) {
	calls := 0
	p := New(&bytes.Buffer{})
	p.restore = func() error {
		calls++
		return errors.New("restore failed")
	}

	assert.EqualError(t, p.Close(), "restore failed")
	assert.NoError(t, p.Close())
	assert.Equal(t, 1, calls)

	assert.NoError(t, New(&bytes.Buffer{}).Close(), "buffers never change the console mode")
}

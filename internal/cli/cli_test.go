package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/bnnbench/bench"
	"github.com/db47h/bnnbench/sim"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "bnnbench", cmd.Use)

	for _, name := range []string{"run", "vectors"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "command %s should exist", name)
		assert.Equal(t, name, sub.Name())
	}

	f := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, f)
	assert.Equal(t, "v", f.Shorthand)
	f = cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, f)
	assert.Equal(t, "text", f.DefValue)
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)
	for name, def := range map[string]string{
		"period":        "20",
		"reset-cycles":  "5",
		"settle-cycles": "1",
		"threshold":     "4",
		"weights":       "0xFF",
		"combinational": "false",
	} {
		f := runCmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, def, f.DefValue, name)
	}
	assert.True(t, runCmd.Flags().Lookup("session").Hidden)
}

func TestRun_golden(t *testing.T) {
	g := golden(t)

	code, out, stderr := execute("run", "--session", "golden")
	assert.Equal(t, ExitSuccess, code, stderr)
	g.Assert(t, "run_default", []byte(out))
	assert.Contains(t, stderr, "all vectors classified successfully, hardware verified")
	assert.Contains(t, stderr, "session=golden")
	assert.Equal(t, 3, strings.Count(stderr, "vector classified"))

	code, out, stderr = execute("run", "--session", "golden", "--threshold", "6")
	assert.Equal(t, ExitFailure, code)
	g.Assert(t, "run_mismatch", []byte(out))
	assert.Contains(t, stderr, "verification failed")
}

func TestRun_exitCodes(t *testing.T) {
	dir := t.TempDir()
	badVectors := writeFile(t, dir, "bad.yaml", "vectors:\n  - input: 0x100\n    expected: 1\n")

	for _, tc := range []struct {
		name string
		args []string
		code int
	}{
		{"default", []string{"run"}, ExitSuccess},
		{"shuffled", []string{"run", "--shuffle", "42"}, ExitSuccess},
		{"registered, no settle", []string{"run", "--settle-cycles", "0"}, ExitFailure},
		{"combinational, no settle", []string{"run", "--settle-cycles", "0", "--combinational"}, ExitSuccess},
		{"slow clock", []string{"run", "--period", "100", "--reset-cycles", "8"}, ExitSuccess},
		{"inverted weights", []string{"run", "--weights", "0x00"}, ExitFailure},
		{"time limit", []string{"run", "--max-time", "100"}, ExitFailure},
		{"odd period", []string{"run", "--period", "21"}, ExitCommandError},
		{"short reset", []string{"run", "--reset-cycles", "2"}, ExitCommandError},
		{"bad threshold", []string{"run", "--threshold", "16"}, ExitCommandError},
		{"bad weights", []string{"run", "--weights", "0x1FF"}, ExitCommandError},
		{"bad format", []string{"run", "--format", "xml"}, ExitCommandError},
		{"unknown flag", []string{"run", "--nope"}, ExitCommandError},
		{"missing vectors", []string{"run", "--vectors", filepath.Join(dir, "missing.yaml")}, ExitCommandError},
		{"invalid vectors", []string{"run", "--vectors", badVectors}, ExitCommandError},
		{"missing config", []string{"run", "--config", filepath.Join(dir, "missing.yaml")}, ExitCommandError},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := execute(tc.args...)
			assert.Equal(t, tc.code, code, stderr)
		})
	}
}

func TestRun_configFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "table.yaml", `vectors:
  - name: all set
    input: 0xFF
    expected: 1
  - input: 0
    expected: 0
`)
	cfg := writeFile(t, dir, "bench.yaml", `bench:
  settle_cycles: 0
dut:
  registered: false
  threshold: 9
vectors: table.yaml
`)

	// threshold 9 can never be reached with 8 inputs.
	code, out, stderr := execute("run", "--config", cfg, "--session", "cfg")
	assert.Equal(t, ExitFailure, code, stderr)
	assert.Contains(t, out, "failed at vector 0")

	code, out, stderr = execute("run", "--config", cfg, "--threshold", "4")
	assert.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "status ALL_PASS: 2 vectors passed")

	// flags not set keep the file values: no settle cycle with a registered
	// design fails.
	code, _, _ = execute("run", "--config", cfg, "--threshold", "4", "--combinational=false")
	assert.Equal(t, ExitFailure, code)

	unknown := writeFile(t, dir, "unknown.yaml", "bench:\n  periode: 20\n")
	code, _, stderr = execute("run", "--config", unknown)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "periode")
}

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultFileConfig(), c)

	c, err = LoadConfig(strings.NewReader("bench:\n  period: 40\ndut:\n  weights: 0xA5\n"))
	require.NoError(t, err)
	assert.Equal(t, sim.Time(40), c.Bench.Period)
	assert.Equal(t, bench.DefaultConfig().ResetCycles, c.Bench.ResetCycles)
	assert.Equal(t, uint8(0xA5), c.DUT.Weights)
	assert.Equal(t, 4, c.DUT.Threshold)
	assert.True(t, c.DUT.Registered)
}

func TestRun_json(t *testing.T) {
	code, out, stderr := execute("run", "--format", "json", "--session", "json")
	require.Equal(t, ExitSuccess, code, stderr)

	var r map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "json", r["session"])
	assert.Equal(t, "ALL_PASS", r["status"])
	assert.Equal(t, float64(-1), r["failed_at"])
	assert.Equal(t, float64(150), r["sim_time"])
	assert.Len(t, r["verdicts"], 3)
	assert.NotContains(t, r, "error")

	// logs are JSON records on stderr.
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		assert.Equal(t, "json", rec["session"])
	}

	code, out, _ = execute("run", "--format", "json", "--threshold", "6")
	require.Equal(t, ExitFailure, code)
	r = nil
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "ABORTED", r["status"])
	assert.Equal(t, float64(0), r["failed_at"])
	assert.Contains(t, r["error"], "hardware failed on data 0b11010011")
}

func TestRun_verbose(t *testing.T) {
	code, _, stderr := execute("run", "-v")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "level=DEBUG")
	_, _, stderr = execute("run")
	assert.NotContains(t, stderr, "level=DEBUG")
}

func TestVectors(t *testing.T) {
	code, out, stderr := execute("vectors")
	require.Equal(t, ExitSuccess, code, stderr)
	golden(t).Assert(t, "vectors_default", []byte(out))

	code, out, _ = execute("vectors", "--format", "json")
	require.Equal(t, ExitSuccess, code)
	var vs []VectorJSON
	require.NoError(t, json.Unmarshal([]byte(out), &vs))
	require.Len(t, vs, 3)
	assert.Equal(t, "0b00001000", vs[1].Input)
	assert.Equal(t, []string{"CP"}, vs[1].Features)

	code, _, _ = execute("vectors", "--vectors", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Equal(t, ExitCommandError, code)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New("flag error")))
	err := WrapExitError(ExitFailure, "verification failed", errors.New("mismatch"))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "verification failed: mismatch", err.Error())
	assert.Equal(t, "no input", NewExitError(ExitCommandError, "no input").Error())
}

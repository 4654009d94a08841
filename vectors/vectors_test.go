package vectors_test

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/bnnbench/vectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	tbl := vectors.Default()
	require.Equal(t, vectors.Table{
		{Name: "Patient 1 (High Risk)", Input: 0b11010011, Expected: 1},
		{Name: "Patient 2 (Healthy)", Input: 0b00001000, Expected: 0},
		{Name: "Patient 3 (High Risk)", Input: 0b10111111, Expected: 1},
	}, tbl)
}

func TestVector(t *testing.T) {
	v := vectors.Vector{Name: "p", Input: 0b11010011, Expected: 1}
	assert.Equal(t, "0b11010011", v.Bin())
	assert.Equal(t, []string{"Age", "BP", "MaxHR", "Oldpeak", "Sex"}, v.Flags())
	assert.Equal(t, "p: 0b11010011 -> 1", v.String())
	assert.Nil(t, vectors.Vector{}.Flags())
	assert.Equal(t, "0b00000101 -> 0", vectors.Vector{Input: 5}.String())
}

func TestLoad(t *testing.T) {
	src := `
vectors:
  - input: 0xFF
    expected: 1
  - input: 8
    expected: 0
  - input: 0b0000_0001
    expected: 0
    name: lsb
`
	tbl, err := vectors.Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, vectors.Table{
		{Input: 0xFF, Expected: 1},
		{Input: 8, Expected: 0},
		{Name: "lsb", Input: 1, Expected: 0},
	}, tbl)
}

func TestLoad_errors(t *testing.T) {
	data := []struct {
		name, src, err string
	}{
		{"empty", "", "empty vector table"},
		{"range", "vectors:\n  - input: 256\n    expected: 1\n", "invalid input \"256\""},
		{"negative", "vectors:\n  - input: -1\n    expected: 1\n", "invalid input"},
		{"label", "vectors:\n  - input: 1\n    expected: 2\n", "must be 0 or 1"},
		{"no_label", "vectors:\n  - input: 1\n", "missing expected value"},
		{"no_input", "vectors:\n  - expected: 1\n", "missing or invalid input"},
		{"unknown_key", "vector:\n  - input: 1\n", "field vector not found"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := vectors.Load(strings.NewReader(d.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), d.err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "table.yaml")
	var buf bytes.Buffer
	require.NoError(t, vectors.Default().Write(&buf))
	require.NoError(t, os.WriteFile(name, buf.Bytes(), 0o644))

	tbl, err := vectors.LoadFile(name)
	require.NoError(t, err)
	assert.Equal(t, vectors.Default(), tbl)

	_, err = vectors.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestShuffle(t *testing.T) {
	tbl := make(vectors.Table, 32)
	for i := range tbl {
		tbl[i] = vectors.Vector{Input: uint8(i), Expected: uint8(i & 1)}
	}
	sh := tbl.Shuffle(rand.New(rand.NewSource(42)))
	assert.ElementsMatch(t, tbl, sh)
	assert.NotEqual(t, tbl, sh)
	for i := range tbl {
		assert.Equal(t, uint8(i), tbl[i].Input, "source table must not change")
	}
	for _, v := range sh {
		assert.Equal(t, v.Input&1, v.Expected, "pairs must be kept intact")
	}
}

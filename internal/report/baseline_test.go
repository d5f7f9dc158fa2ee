package report

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varalys/gitsecrets/internal/types"
)

func TestBaseline_SaveLoadFilter(t *testing.T) {
	p := filepath.Join(t.TempDir(), DefaultBaselineFile)
	known := sampleFindings()
	require.NoError(t, SaveBaseline(p, known))

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ghp_")

	base, err := LoadBaseline(p)
	require.NoError(t, err)
	assert.Len(t, base.Items, 2)

	moved := known[0]
	moved.Line = 42
	fresh := types.Finding{File: "c.txt", Line: 1, SecretType: "jwt_token", Severity: types.SevMed, Match: "eyJh****abcd"}

	got := FilterNewFindings([]types.Finding{moved, known[1], fresh}, base)
	require.Len(t, got, 1)
	assert.Equal(t, "c.txt", got[0].File)
}

func TestBaseline_Missing(t *testing.T) {
	b, err := LoadBaseline(filepath.Join(t.TempDir(), "none.json"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.NotNil(t, b.Items)
	assert.Len(t, FilterNewFindings(sampleFindings(), b), 2)
}

func TestBaseline_Corrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0644))
	_, err := LoadBaseline(p)
	assert.Error(t, err)
}

func TestFingerprint_Stable(t *testing.T) {
	f := sampleFindings()[0]
	assert.Equal(t, Fingerprint(f), Fingerprint(f))
	g := f
	g.SecretType = "other"
	assert.NotEqual(t, Fingerprint(f), Fingerprint(g))
}

func TestShouldFail(t *testing.T) {
	fs := []types.Finding{{Severity: types.SevMed}, {Severity: types.SevLow}}
	cases := []struct {
		failOn types.Severity
		want   bool
	}{
		{"", false},
		{types.SevLow, true},
		{types.SevMed, true},
		{types.SevHigh, false},
		{types.SevCritical, false},
	}
	for _, c := range cases {
		t.Run(string(c.failOn), func(t *testing.T) {
			assert.Equal(t, c.want, ShouldFail(fs, c.failOn))
		})
	}
	assert.False(t, ShouldFail(nil, types.SevLow))
}

func TestDumpJSON_RoundTrip(t *testing.T) {
	fs := sampleFindings()
	p := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, SaveJSON(p, NewDump(fs, summaryOf(fs, 3))))

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	for _, key := range []string{`"summary"`, `"findings"`, `"files_scanned": 3`, `"line_number"`, `"secret_type"`, `"by_severity"`, `"by_type"`, `"critical": 1`} {
		assert.Contains(t, string(raw), key)
	}

	d, err := LoadJSON(p)
	require.NoError(t, err)
	assert.Equal(t, fs, d.Findings)
	assert.Equal(t, 3, d.Summary.FilesScanned)
}

func TestNewDump_EmptyFindingsEncodeAsArray(t *testing.T) {
	d := NewDump(nil, summaryOf(nil, 0))
	require.NotNil(t, d.Findings)
	p := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, SaveJSON(p, d))
	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"findings": []`)
}

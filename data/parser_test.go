package data

import (
	"os"
	"path/filepath"
	"testing"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runSettings struct {
	Root   string   `json:"root"`
	Debug  bool     `json:"debug"`
	Skip   []string `json:"skip"`
	Extras any      `json:"extras"`
}

func TestParseJSONOrYAML(t *testing.T) {
	for _, params := range []struct {
		desc  string
		input string
	}{
		{"JSON", `{"root":"x","debug":true,"skip":["a","b"]}`},
		{"YAML", `---
root: x
debug: true
skip:
  - a
  - b
`},
	} {
		t.Run(params.desc, func(t *testing.T) {
			var out runSettings
			require.NoError(t, ParseJSONOrYAML([]byte(params.input), &out))
			assert.Equal(t, "x", out.Root)
			assert.True(t, out.Debug)
			assert.Equal(t, []string{"a", "b"}, out.Skip)
		})
	}
}

func TestParseEmptyYAMLDocumentLeavesTargetUnchanged(t *testing.T) {
	out := runSettings{Root: "unchanged"}
	require.NoError(t, ParseJSONOrYAML([]byte("---\n"), &out))
	assert.Equal(t, "unchanged", out.Root)
}

func TestCanUseYAMLAnchorReferences(t *testing.T) {
	input := `---
defaults: &defaults
  color: true
  width: 80
extras:
  <<: *defaults
  width: 120
`
	var out runSettings
	require.NoError(t, ParseJSONOrYAML([]byte(input), &out))
	m.In(t).Assert(out.Extras, m.JSONStrEqual(`{"color": true, "width": 120}`))
}

func TestNonStringKeysAreRejected(t *testing.T) {
	var out runSettings
	err := ParseJSONOrYAML([]byte("extras:\n  [1, 2]: x\n"), &out)
	assert.Error(t, err)
}

func TestReadJSONOrYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: r\n"), 0o600))

	var out runSettings
	require.NoError(t, ReadJSONOrYAMLFile(path, &out))
	assert.Equal(t, "r", out.Root)

	require.NoError(t, os.WriteFile(path, []byte("root: [unclosed\n"), 0o600))
	err := ReadJSONOrYAMLFile(path, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings.yaml")

	assert.Error(t, ReadJSONOrYAMLFile(filepath.Join(dir, "missing.yaml"), &out))
}

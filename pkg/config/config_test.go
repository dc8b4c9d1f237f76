package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSampleConfig(t *testing.T) {
	path := filepath.Join("..", "..", "fleetinv.example.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pure1:apikey:dfjadsljADF2s", cfg.Pure1.AppID)
	assert.Equal(t, "contains(name, 'sn1-405')", cfg.ArrayFilter)
	require.NotNil(t, cfg.TagFilter)
	assert.True(t, cfg.TagFilter.Complete())
	require.Len(t, cfg.KeyedGroups, 2)
	assert.Equal(t, KeyedGroup{Prefix: "pure_mod", Key: "pure_model"}, cfg.KeyedGroups[0])
	assert.False(t, cfg.Strict)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleetinv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
pure1:
  app_id: "pure1:apikey:abc"
  private_key_file: "/tmp/key.pem"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, cfg.Pure1.Endpoint)
	assert.Equal(t, 120, cfg.Pure1.TimeoutSeconds)
	assert.Equal(t, "15m", cfg.Scheduler.Tick)
	assert.Empty(t, cfg.KeyedGroups)
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	path := writeConfig(t, `
pure1:
  app_id: "pure1:apikey:abc"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private_key_file")
}

func TestLoadRejectsIncompleteKeyedGroup(t *testing.T) {
	path := writeConfig(t, `
pure1:
  app_id: "pure1:apikey:abc"
  private_key_file: "/tmp/key.pem"
keyed_groups:
  - prefix: "pure_mod"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyed_groups[0]")
}

func TestTagFilterComplete(t *testing.T) {
	cases := map[string]struct {
		filter *TagFilter
		want   bool
	}{
		"nil":        {nil, false},
		"empty":      {&TagFilter{}, false},
		"name only":  {&TagFilter{TagName: "Department"}, false},
		"value only": {&TagFilter{Value: "Finance"}, false},
		"both":       {&TagFilter{TagName: "Department", Value: "Finance"}, true},
	}
	for name, tc := range cases {
		if got := tc.filter.Complete(); got != tc.want {
			t.Fatalf("%s: Complete()=%v want %v", name, got, tc.want)
		}
	}
}

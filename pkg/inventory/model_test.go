package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostVarsLookup(t *testing.T) {
	vars := HostVars{
		Model:   "FA-405",
		Version: "6.1",
		Tags:    map[string]string{"Department": "Finance"},
		FAURL:   "10.0.0.5",
	}
	cases := map[string]struct {
		want   Value
		wantOK bool
	}{
		"pure_model":   {Scalar("FA-405"), true},
		"pure_version": {Scalar("6.1"), true},
		"tags":         {Mapping{"Department": "Finance"}, true},
		"fa_url":       {Scalar("10.0.0.5"), true},
		"fb_url":       {nil, false},
		"bogus":        {nil, false},
	}
	for key, tc := range cases {
		got, ok := vars.Lookup(key)
		require.Equal(t, tc.wantOK, ok, key)
		assert.Equal(t, tc.want, got, key)
	}
}

func TestRenderDocumentShape(t *testing.T) {
	inv := NewInventory()
	inv.AddGroup(GroupFlashBlade)
	inv.AddHost("arrA", GroupFlashArray, HostVars{
		Model:   "FA-405",
		Version: "6.1",
		Tags:    map[string]string{"Department": "Finance"},
		FAURL:   "10.0.0.5",
	})
	inv.AddHostToGroup("arrA", "pure_mod_FA-405")

	data, err := inv.Render()
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "_meta")
	require.Contains(t, doc, GroupFlashArray)
	require.Contains(t, doc, GroupFlashBlade)
	require.Contains(t, doc, "pure_mod_FA-405")

	var meta struct {
		HostVars map[string]map[string]interface{} `json:"hostvars"`
	}
	require.NoError(t, json.Unmarshal(doc["_meta"], &meta))
	hostvars := meta.HostVars["arrA"]
	assert.Equal(t, "FA-405", hostvars["pure_model"])
	assert.Equal(t, "6.1", hostvars["pure_version"])
	assert.Equal(t, "10.0.0.5", hostvars["fa_url"])
	assert.Equal(t, map[string]interface{}{"Department": "Finance"}, hostvars["tags"])
	// the flashblade address variable is absent, not empty
	_, present := hostvars["fb_url"]
	assert.False(t, present)

	var flashArray struct {
		Hosts []string `json:"hosts"`
	}
	require.NoError(t, json.Unmarshal(doc[GroupFlashArray], &flashArray))
	assert.Equal(t, []string{"arrA"}, flashArray.Hosts)

	var flashBlade struct {
		Hosts []string `json:"hosts"`
	}
	require.NoError(t, json.Unmarshal(doc[GroupFlashBlade], &flashBlade))
	assert.Empty(t, flashBlade.Hosts)
}

func TestRenderEmptyTagsStayMapping(t *testing.T) {
	inv := NewInventory()
	inv.AddHost("arrA", GroupFlashArray, HostVars{Model: "FA-405", Version: "6.1"})

	data, err := inv.Render()
	require.NoError(t, err)
	var doc struct {
		Meta struct {
			HostVars map[string]map[string]json.RawMessage `json:"hostvars"`
		} `json:"_meta"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, "{}", string(doc.Meta.HostVars["arrA"]["tags"]))
}

func TestGroupHostsSorted(t *testing.T) {
	inv := NewInventory()
	inv.AddHost("zeta", GroupFlashArray, HostVars{})
	inv.AddHost("alpha", GroupFlashArray, HostVars{})
	inv.AddHost("mike", GroupFlashArray, HostVars{})
	assert.Equal(t, []string{"alpha", "mike", "zeta"}, inv.GroupHosts(GroupFlashArray))
	assert.Empty(t, inv.GroupHosts("absent"))
}

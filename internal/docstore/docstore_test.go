package docstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "users/u1/lists", ResolvePath("users/{owner}/lists", "u1"))
	assert.Equal(t, "plain/path", ResolvePath("plain/path", "u1"))
}

func TestMergeFields(t *testing.T) {
	existing := json.RawMessage(`{"id":"d1","name":"first","done":false}`)

	merged, err := MergeFields(existing, map[string]any{"done": true})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(merged, &doc))
	assert.Equal(t, "first", doc["name"])
	assert.Equal(t, true, doc["done"])
}

func TestMergeFieldsCreatesMissingDocument(t *testing.T) {
	merged, err := MergeFields(nil, map[string]any{"id": "d1"})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(merged, &doc))
	assert.Equal(t, "d1", doc["id"])
}

func TestDecode(t *testing.T) {
	type entry struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	snap := Snapshot{
		{ID: "a", Data: json.RawMessage(`{"id":"a","name":"one"}`)},
		{ID: "b", Data: json.RawMessage(`{"id":"b","name":"two"}`)},
	}

	entries, err := Decode[entry](snap)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "one", entries[0].Name)
	assert.Equal(t, "two", entries[1].Name)
}

package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowOrder(t *testing.T) {
	row := NewRow().Set("name", "A").Set("email", "a@x.com").Set("created_at", "2025-01-01T00:00:00Z")
	row.Set("name", "B")

	assert.Equal(t, []string{"name", "email", "created_at"}, row.Keys())
	assert.Equal(t, 3, row.Len())

	name, has := row.Get("name")
	assert.True(t, has)
	assert.Equal(t, "B", name)

	_, has = row.Get("phone")
	assert.False(t, has)
}

func TestRowJSON(t *testing.T) {
	data := []byte(`[{"zeta":1,"alpha":{"b":2,"a":1},"id":9007199254740993,"note":null},{"b":true}]`)
	rows, err := DecodeRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"zeta", "alpha", "id", "note"}, rows[0].Keys())
	id, _ := rows[0].Get("id")
	assert.Equal(t, json.Number("9007199254740993"), id)
	note, has := rows[0].Get("note")
	assert.True(t, has)
	assert.Nil(t, note)

	out, err := json.Marshal(rows[0])
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":{"a":1,"b":2},"id":9007199254740993,"note":null}`, string(out))

	out, err = json.Marshal(rows[1])
	require.NoError(t, err)
	assert.Equal(t, `{"b":true}`, string(out))
}

func TestRowNil(t *testing.T) {
	var row *Row
	assert.Equal(t, 0, row.Len())
	assert.Nil(t, row.Keys())
	_, has := row.Get("name")
	assert.False(t, has)

	rows, err := DecodeRows([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = DecodeRows([]byte(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestRange(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 23, 59, 59, 999000000, time.UTC)

	rng := Range{}
	assert.False(t, rng.Bounded())
	assert.True(t, rng.Contains(start.Add(-time.Hour)))

	rng = Range{Start: &start, End: &end}
	assert.True(t, rng.Bounded())
	assert.True(t, rng.Contains(start))
	assert.True(t, rng.Contains(end))
	assert.False(t, rng.Contains(start.Add(-time.Millisecond)))
	assert.False(t, rng.Contains(end.Add(time.Millisecond)))
}

package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, Excel, ParseFormat("excel"))
	assert.Equal(t, Excel, ParseFormat("XLSX"))
	assert.Equal(t, JSON, ParseFormat("json"))
	assert.Equal(t, JSON, ParseFormat(""))
	assert.Equal(t, JSON, ParseFormat("csv"))

	assert.Equal(t, "xlsx", Excel.Extension())
	assert.Equal(t, XLSXMime, Excel.ContentType())
	assert.Equal(t, "json", JSON.Extension())
}

func TestParseRange(t *testing.T) {
	rng := ParseRange("2025-01-01", "2025-01-31", time.UTC)
	require.NotNil(t, rng.Start)
	require.NotNil(t, rng.End)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *rng.Start)
	assert.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, 999000000, time.UTC), *rng.End)

	assert.True(t, rng.Contains(time.Date(2025, 1, 31, 23, 59, 59, 999000000, time.UTC)))
	assert.False(t, rng.Contains(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rng.Contains(*rng.Start))
}

func TestParseRangeOpen(t *testing.T) {
	rng := ParseRange("", "", nil)
	assert.Nil(t, rng.Start)
	assert.Nil(t, rng.End)

	rng = ParseRange("not-a-date", "2025-13-45", time.UTC)
	assert.Nil(t, rng.Start)
	assert.Nil(t, rng.End)

	rng = ParseRange("", "2025-01-31T08:30:00Z", time.UTC)
	assert.Nil(t, rng.Start)
	require.NotNil(t, rng.End)
	assert.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, 999000000, time.UTC), *rng.End)
}

func TestParseRangeLocation(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	rng := ParseRange("2025-01-01", "2025-01-31", kolkata)
	assert.Equal(t, "2024-12-31T18:30:00.000Z", ISO(*rng.Start))
	assert.Equal(t, "2025-01-31T18:29:59.999Z", ISO(*rng.End))
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 2, 3, 4, 5, 6, 789000000, time.UTC)
	assert.Equal(t, "ayya-export-2025-02-03-04-05-06.json", Filename(JSON, now))
	assert.Equal(t, "ayya-export-2025-02-03-04-05-06.xlsx", Filename(Excel, now))
	assert.Regexp(t, `^ayya-export-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}\.xlsx$`, Filename(Excel, time.Now()))
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ayyaapp/ayya/store/types"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	assert.Equal(t, "hello", value("TEXT", []byte("hello")))
	assert.Equal(t, "hello", value("VARCHAR", "hello"))
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, value("JSONB", []byte(`{"a":1}`)))
	assert.Equal(t, "{broken", value("JSON", []byte(`{broken`)))
	assert.Equal(t, int64(7), value("INT8", int64(7)))
	assert.Nil(t, value("TEXT", nil))
}

func TestWrap(t *testing.T) {
	err := wrap("contact_us", &pgconn.PgError{Code: "42P01", Message: `relation "contact_us" does not exist`})
	assert.True(t, errors.Is(err, types.ErrNotFound))

	err = wrap("contact_us", fmt.Errorf("connection reset"))
	assert.False(t, errors.Is(err, types.ErrNotFound))
	assert.Contains(t, err.Error(), "contact_us")
}

func TestQuery(t *testing.T) {
	dsn := os.Getenv("AYYA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("AYYA_TEST_POSTGRES_DSN is not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn, 2)
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS "ayya-test-contacts"`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE "ayya-test-contacts" (id serial primary key, name text, meta jsonb, created_at timestamptz)`).Error)
	defer db.Exec(`DROP TABLE IF EXISTS "ayya-test-contacts"`)

	require.NoError(t, db.Exec(`INSERT INTO "ayya-test-contacts" (name, meta, created_at) VALUES
		('A', '{"k":"v"}', '2025-01-01T00:00:00Z'),
		('B', NULL, '2025-01-31T23:59:59.999Z'),
		('C', NULL, '2025-02-01T00:00:00Z')`).Error)

	store := New(db, "created_at")
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 23, 59, 59, 999000000, time.UTC)
	rows, err := store.Query(ctx, "ayya-test-contacts", types.Range{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "name", "meta", "created_at"}, rows[0].Keys())

	meta, _ := rows[0].Get("meta")
	assert.Equal(t, map[string]interface{}{"k": "v"}, meta)

	_, err = store.Query(ctx, "ayya-test-missing", types.Range{})
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

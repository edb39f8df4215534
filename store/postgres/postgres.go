package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayyaapp/ayya/store/types"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/kun/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// undefinedTable the postgres SQLSTATE for a missing relation
const undefinedTable = "42P01"

// Postgres reads collections straight from the database behind the site
type Postgres struct {
	db     *gorm.DB
	column string
}

// Connect opens and pings a Postgres-backed GORM connection pool
func Connect(ctx context.Context, dsn string, maxConns int32) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: false,
		Logger:      logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(int(maxConns))
		sqlDB.SetMaxIdleConns(int(maxConns) / 2)
	}
	sqlDB.SetConnMaxIdleTime(15 * time.Minute)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	log.Info("[Postgres] connected, max connections %d", maxConns)
	return db, nil
}

// New create a Postgres store on an open connection
func New(db *gorm.DB, column string) *Postgres {
	if column == "" {
		column = "created_at"
	}
	return &Postgres{db: db, column: column}
}

// Query select * from the collection inside the range, keeping the result set column order
func (store *Postgres) Query(ctx context.Context, collection string, rng types.Range) ([]*types.Row, error) {

	tx := store.db.WithContext(ctx).Table(collection).Select("*")
	if rng.Start != nil {
		tx = tx.Where(clause.Gte{Column: clause.Column{Name: store.column}, Value: *rng.Start})
	}
	if rng.End != nil {
		tx = tx.Where(clause.Lte{Column: clause.Column{Name: store.column}, Value: *rng.End})
	}

	rows, err := tx.Rows()
	if err != nil {
		return nil, wrap(collection, err)
	}
	defer rows.Close()

	columns, err := rows.ColumnTypes()
	if err != nil {
		return nil, wrap(collection, err)
	}

	res := []*types.Row{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, wrap(collection, err)
		}

		row := types.NewRow()
		for i, column := range columns {
			row.Set(column.Name(), value(column.DatabaseTypeName(), values[i]))
		}
		res = append(res, row)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap(collection, err)
	}
	return res, nil
}

// value turn driver values into what the JSON export shows: text for bytes, decoded json documents
func value(dbType string, v interface{}) interface{} {
	var raw []byte
	switch data := v.(type) {
	case []byte:
		raw = data
	case string:
		raw = []byte(data)
	default:
		return v
	}

	switch strings.ToUpper(dbType) {
	case "JSON", "JSONB":
		var doc interface{}
		if err := jsoniter.Unmarshal(raw, &doc); err == nil {
			return doc
		}
	}
	return string(raw)
}

func wrap(collection string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return fmt.Errorf("%s: %w: %s", collection, types.ErrNotFound, pgErr.Message)
	}
	return fmt.Errorf("query %s: %w", collection, err)
}

// Close close the connection pool
func (store *Postgres) Close() error {
	sqlDB, err := store.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

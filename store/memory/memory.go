package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ayyaapp/ayya/store/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

// Memory a store holding the collections in memory, used by the file driver and in tests
type Memory struct {
	column string
	data   map[string][]*types.Row
	mu     sync.RWMutex
}

// New create an empty memory store filtering on the given creation column
func New(column string) *Memory {
	if column == "" {
		column = "created_at"
	}
	return &Memory{column: column, data: map[string][]*types.Row{}}
}

// Open load a JSON export bundle ({"collection": [{...}, ...]}) from file
func Open(file string, column string) (*Memory, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("open store file %s: %w", file, err)
	}

	data := map[string][]*types.Row{}
	if err := jsoniter.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", file, err)
	}

	mem := New(column)
	for name, rows := range data {
		mem.Put(name, rows...)
	}
	return mem, nil
}

// Put add rows to the collection, creating it when missing
func (mem *Memory) Put(collection string, rows ...*types.Row) *Memory {
	mem.mu.Lock()
	defer mem.mu.Unlock()
	if _, has := mem.data[collection]; !has {
		mem.data[collection] = []*types.Row{}
	}
	for _, row := range rows {
		if row != nil {
			mem.data[collection] = append(mem.data[collection], row)
		}
	}
	return mem
}

// Query the rows of the collection created inside the range
func (mem *Memory) Query(ctx context.Context, collection string, rng types.Range) ([]*types.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mem.mu.RLock()
	defer mem.mu.RUnlock()

	rows, has := mem.data[collection]
	if !has {
		return nil, fmt.Errorf("%s: %w", collection, types.ErrNotFound)
	}

	res := []*types.Row{}
	for _, row := range rows {
		if !rng.Bounded() {
			res = append(res, row)
			continue
		}

		// rows without a readable creation time never match a bounded range
		value, has := row.Get(mem.column)
		if !has || value == nil {
			continue
		}
		created, err := cast.ToTimeE(value)
		if err != nil {
			continue
		}
		if rng.Contains(created) {
			res = append(res, row)
		}
	}
	return res, nil
}

package types

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// api decodes numbers as json.Number so large ids keep their digits
var api = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Row one record of a collection. Fields keep the order the store returned them in.
type Row struct {
	keys   []string
	values map[string]interface{}
}

// NewRow create an empty row
func NewRow() *Row {
	return &Row{values: map[string]interface{}{}}
}

// Set set the field value, new fields are appended after the existing ones
func (row *Row) Set(key string, value interface{}) *Row {
	if row.values == nil {
		row.values = map[string]interface{}{}
	}
	if _, has := row.values[key]; !has {
		row.keys = append(row.keys, key)
	}
	row.values[key] = value
	return row
}

// Get get the field value
func (row *Row) Get(key string) (interface{}, bool) {
	if row == nil || row.values == nil {
		return nil, false
	}
	value, has := row.values[key]
	return value, has
}

// Keys the field names in order
func (row *Row) Keys() []string {
	if row == nil {
		return nil
	}
	return row.keys
}

// Len the number of fields
func (row *Row) Len() int {
	if row == nil {
		return 0
	}
	return len(row.keys)
}

// Map the fields as a plain map
func (row *Row) Map() map[string]interface{} {
	res := make(map[string]interface{}, row.Len())
	for _, key := range row.Keys() {
		res[key] = row.values[key]
	}
	return res
}

// MarshalJSON encode the row as an object with the fields in order
func (row *Row) MarshalJSON() ([]byte, error) {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, key := range row.Keys() {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(key)
		stream.WriteVal(row.values[key])
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

// UnmarshalJSON decode an object keeping the order of its keys
func (row *Row) UnmarshalJSON(data []byte) error {
	iter := api.BorrowIterator(data)
	defer api.ReturnIterator(iter)

	row.keys = nil
	row.values = map[string]interface{}{}
	if iter.WhatIsNext() == jsoniter.NilValue {
		iter.Skip()
		return nil
	}

	iter.ReadObjectCB(func(iter *jsoniter.Iterator, field string) bool {
		row.Set(field, iter.Read())
		return iter.Error == nil
	})

	if iter.Error != nil && iter.Error != io.EOF {
		return iter.Error
	}
	return nil
}

// DecodeRows decode a JSON array of objects
func DecodeRows(data []byte) ([]*Row, error) {
	rows := []*Row{}
	if err := api.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

package export

import (
	"github.com/ayyaapp/ayya/store/types"
	jsoniter "github.com/json-iterator/go"
)

// Bundle the export payload: collection name to its rows, in collection list order.
// Collections without rows are never part of a bundle.
type Bundle struct {
	names []string
	rows  map[string][]*types.Row
}

// NewBundle create an empty bundle
func NewBundle() *Bundle {
	return &Bundle{names: []string{}, rows: map[string][]*types.Row{}}
}

// Add add the collection rows. Empty row sets are ignored, adding a name twice replaces its rows in place.
func (bundle *Bundle) Add(name string, rows []*types.Row) *Bundle {
	if len(rows) == 0 {
		return bundle
	}
	if _, has := bundle.rows[name]; !has {
		bundle.names = append(bundle.names, name)
	}
	bundle.rows[name] = rows
	return bundle
}

// Names the collection names in order
func (bundle *Bundle) Names() []string {
	if bundle == nil {
		return nil
	}
	return append([]string(nil), bundle.names...)
}

// Rows the rows of the collection
func (bundle *Bundle) Rows(name string) []*types.Row {
	if bundle == nil {
		return nil
	}
	return bundle.rows[name]
}

// Len the number of collections
func (bundle *Bundle) Len() int {
	if bundle == nil {
		return 0
	}
	return len(bundle.names)
}

// Count the total number of rows
func (bundle *Bundle) Count() int {
	count := 0
	for _, name := range bundle.Names() {
		count += len(bundle.rows[name])
	}
	return count
}

// MarshalJSON encode the bundle as {"collection": [row, ...], ...} keeping the collection order
func (bundle *Bundle) MarshalJSON() ([]byte, error) {
	stream := jsoniter.ConfigDefault.BorrowStream(nil)
	defer jsoniter.ConfigDefault.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, name := range bundle.Names() {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(name)
		stream.WriteArrayStart()
		for j, row := range bundle.rows[name] {
			if j > 0 {
				stream.WriteMore()
			}
			data, err := row.MarshalJSON()
			if err != nil {
				return nil, err
			}
			stream.WriteRaw(string(data))
		}
		stream.WriteArrayEnd()
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

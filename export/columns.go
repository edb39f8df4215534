package export

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/ayyaapp/ayya/store/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

// cellJSON renders nested values, map keys sorted so the text is reproducible
var cellJSON = jsoniter.Config{SortMapKeys: true, EscapeHTML: false}.Froze()

// Table the rectangular text projection of one collection
type Table struct {
	Columns []string   `json:"columns"`
	Cells   [][]string `json:"cells"`
}

// Unify collect the union of the row fields in first-seen order, scanning rows top to bottom
// and each row's fields in its own order, then render every (row, column) cell as text.
// Fields a row does not have render as the empty string.
func Unify(rows []*types.Row) Table {
	columns := []string{}
	seen := map[string]bool{}
	for _, row := range rows {
		for _, key := range row.Keys() {
			if seen[key] {
				continue
			}
			seen[key] = true
			columns = append(columns, key)
		}
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(columns))
		for j, column := range columns {
			value, _ := row.Get(column)
			cells[i][j] = Text(value)
		}
	}

	return Table{Columns: columns, Cells: cells}
}

// Text the display text of a cell value
//
//	nil                    ""
//	time                   ISO-8601 in UTC with milliseconds
//	map, slice, struct     JSON text
//	anything else          its string form
func Text(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		return v.String()
	case time.Time:
		return ISO(v)
	case *time.Time:
		if v == nil {
			return ""
		}
		return ISO(*v)
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if t, ok := rv.Interface().(time.Time); ok {
			return ISO(t)
		}
		data, err := cellJSON.Marshal(rv.Interface())
		if err == nil {
			return string(data)
		}
	}

	text, err := cast.ToStringE(rv.Interface())
	if err != nil {
		return fmt.Sprintf("%v", rv.Interface())
	}
	return text
}

// ISO format the time the way the export shows timestamps
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

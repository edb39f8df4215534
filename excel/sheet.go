package excel

import (
	"fmt"
)

// MaxTitle the longest sheet title a workbook accepts, in characters
const MaxTitle = 31

// Title the sheet title for a collection name: the first 31 characters
func Title(name string) string {
	runes := []rune(name)
	if len(runes) > MaxTitle {
		return string(runes[:MaxTitle])
	}
	return name
}

// CreateSheet creates a new sheet with the given name
// Returns the index of the new sheet and any error encountered
func (excel *Excel) CreateSheet(name string) (int, error) {
	if idx, _ := excel.GetSheetIndex(name); idx != -1 {
		return 0, fmt.Errorf("sheet %s already exists", name)
	}

	return excel.NewSheet(name)
}

// ReadSheet reads all cell text of a sheet
func (excel *Excel) ReadSheet(name string) ([][]string, error) {
	if idx, _ := excel.GetSheetIndex(name); idx == -1 {
		return nil, fmt.Errorf("sheet %s does not exist", name)
	}
	return excel.GetRows(name)
}

// DeleteSheet removes a sheet by name
func (excel *Excel) DeleteSheet(name string) error {
	if idx, _ := excel.GetSheetIndex(name); idx == -1 {
		return fmt.Errorf("sheet %s does not exist", name)
	}

	return excel.File.DeleteSheet(name)
}

// ListSheets returns a list of all sheet names in the workbook
func (excel *Excel) ListSheets() []string {
	return excel.GetSheetList()
}

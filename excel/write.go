package excel

import (
	"github.com/xuri/excelize/v2"
)

// WriteRow write the row starting at cell
func (excel *Excel) WriteRow(sheet string, cell string, values []string) error {
	row := make([]interface{}, len(values))
	for i, value := range values {
		row[i] = value
	}
	return excel.SetSheetRow(sheet, cell, &row)
}

// WriteAll write the rows one below the other starting at cell
func (excel *Excel) WriteAll(sheet string, cell string, rows [][]string) error {

	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return err
	}

	for i, values := range rows {
		current, err := excelize.CoordinatesToCellName(col, row+i)
		if err != nil {
			return err
		}
		if err := excel.WriteRow(sheet, current, values); err != nil {
			return err
		}
	}
	return nil
}

// SetWidth set the width of the column, 1-based
func (excel *Excel) SetWidth(sheet string, col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	return excel.SetColWidth(sheet, name, name, width)
}

// MinRowHeight raise the row height to at least height
func (excel *Excel) MinRowHeight(sheet string, row int, height float64) error {
	current, err := excel.GetRowHeight(sheet, row)
	if err != nil {
		return err
	}
	if current >= height {
		return nil
	}
	return excel.SetRowHeight(sheet, row, height)
}

package excel

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ayyaapp/ayya/share"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"github.com/yaoapp/kun/log"
)

// DefaultSheet the sheet every new workbook starts with
const DefaultSheet = "Sheet1"

// Excel an in-memory workbook
type Excel struct {
	id      string
	created time.Time
	*excelize.File
}

// New create an empty workbook stamped with the export metadata
func New() *Excel {
	excel := &Excel{
		id:      uuid.NewString(),
		created: time.Now().UTC(),
		File:    excelize.NewFile(),
	}

	created := excel.created.Format(time.RFC3339)
	err := excel.SetDocProps(&excelize.DocProperties{
		Creator:        share.CREATOR,
		LastModifiedBy: share.CREATOR,
		Created:        created,
		Modified:       created,
		Identifier:     excel.id,
		Title:          "Ayya admin export",
		Version:        share.VERSION,
	})
	if err != nil {
		log.Warn("[Excel] set document properties: %s", err.Error())
	}
	return excel
}

// Read open a workbook from its bytes
func Read(data []byte) (*Excel, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	excel := &Excel{File: file}
	if props, err := file.GetDocProps(); err == nil {
		excel.id = props.Identifier
		excel.created, _ = time.Parse(time.RFC3339, props.Created)
	}
	return excel, nil
}

// ID the workbook identifier
func (excel *Excel) ID() string {
	return excel.id
}

// Created the creation time
func (excel *Excel) Created() time.Time {
	return excel.created
}

// Bytes serialize the workbook
func (excel *Excel) Bytes() ([]byte, error) {
	buf, err := excel.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

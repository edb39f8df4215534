package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBytesRead(t *testing.T) {
	excel := New()
	defer excel.Close()
	assert.NotEmpty(t, excel.ID())
	assert.False(t, excel.Created().IsZero())
	assert.Equal(t, []string{DefaultSheet}, excel.ListSheets())

	require.NoError(t, excel.WriteRow(DefaultSheet, "A1", []string{"name", "email"}))
	data, err := excel.Bytes()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	read, err := Read(data)
	require.NoError(t, err)
	defer read.Close()
	assert.Equal(t, excel.ID(), read.ID())

	props, err := read.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "ayya-admin", props.Creator)

	value, err := read.GetCellValue(DefaultSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "email", value)

	_, err = Read([]byte("not a workbook"))
	assert.Error(t, err)
}

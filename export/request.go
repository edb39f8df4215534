package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayyaapp/ayya/share"
	"github.com/ayyaapp/ayya/store/types"
	"github.com/spf13/cast"
)

// Format the export output format
type Format string

const (
	// JSON the bundle as a JSON document
	JSON Format = "json"
	// Excel the bundle as an xlsx workbook
	Excel Format = "excel"
)

// XLSXMime the workbook content type
const XLSXMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ParseFormat "excel" and "xlsx" select the workbook, anything else (missing included) is JSON
func ParseFormat(value string) Format {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "excel", "xlsx":
		return Excel
	}
	return JSON
}

// Extension the file extension of the format
func (format Format) Extension() string {
	if format == Excel {
		return "xlsx"
	}
	return "json"
}

// ContentType the response content type of the format
func (format Format) ContentType() string {
	if format == Excel {
		return XLSXMime
	}
	return "application/json; charset=utf-8"
}

// ParseRange build the creation time range from the request dates.
// The start is taken as is. The end is moved to the last millisecond of its calendar day in loc.
// Missing or unparsable dates leave that side of the range open.
func ParseRange(start, end string, loc *time.Location) types.Range {
	if loc == nil {
		loc = time.UTC
	}

	rng := types.Range{}
	if t, ok := parseDate(start, loc); ok {
		rng.Start = &t
	}
	if t, ok := parseDate(end, loc); ok {
		t = EndOfDay(t, loc)
		rng.End = &t
	}
	return rng
}

// EndOfDay 23:59:59.999 of the calendar day t falls on in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

func parseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := cast.ToTimeInDefaultLocationE(value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Filename the download name, ayya-export-YYYY-MM-DD-HH-MM-SS.<ext> in UTC
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", share.FILEPREFIX, now.UTC().Format("2006-01-02-15-04-05"), format.Extension())
}

// Package batch reads spreadsheet files of invoice rows into a uniform shape.
package batch

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmpty             = errors.New("batch file has no header row")
	ErrUnsupportedFormat = errors.New("unsupported batch file format")
)

// Row is one data row with its 1-based line in the source file.
type Row struct {
	Line  int
	Cells []string
}

// Value returns the trimmed cell at i, or "" when the row is short.
func (r Row) Value(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[i])
}

func (r Row) blank() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Batch is a header row plus the non-blank rows below it.
type Batch struct {
	Source string
	Header []string
	Rows   []Row
	// SerialDates is set for workbooks, whose date cells may surface as
	// Excel serial day numbers.
	SerialDates bool
}

// Column finds a header by name, ignoring case and surrounding spaces. It returns -1 when absent.
func (b *Batch) Column(name string) int {
	for i, h := range b.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Read picks a decoder from the file extension. Anything that is not .xlsx is read as CSV.
func Read(name string, r io.Reader) (*Batch, error) {
	var (
		b   *Batch
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		b, err = ReadXLSX(r)
	case ".csv", ".txt", "":
		b, err = ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}
	b.Source = filepath.Base(name)
	return b, nil
}

// ReadFile opens path and decodes it with Read.
func ReadFile(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(path, f)
}

func newBatch(header []string) (*Batch, error) {
	b := &Batch{Header: make([]string, len(header))}
	empty := true
	for i, h := range header {
		b.Header[i] = strings.TrimSpace(h)
		if b.Header[i] != "" {
			empty = false
		}
	}
	if empty {
		return nil, ErrEmpty
	}
	return b, nil
}

func (b *Batch) add(row Row) {
	if !row.blank() {
		b.Rows = append(b.Rows, row)
	}
}

// Serial day numbers outside this range are treated as plain numbers.
const (
	minSerialYear = 1990
	maxSerialYear = 2100
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "2006-01-02 15:04:05"}

// ParseDate accepts ISO dates and the day-first forms spreadsheets tend to produce.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseDate is the package ParseDate plus, for workbooks, whole Excel serial
// day numbers that land between 1990 and 2100.
func (b *Batch) ParseDate(raw string) (time.Time, bool) {
	if t, ok := ParseDate(raw); ok {
		return t, true
	}
	if !b.SerialDates {
		return time.Time{}, false
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial <= 0 || serial != math.Trunc(serial) {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil || t.Year() < minSerialYear || t.Year() > maxSerialYear {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

package batch

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// ReadCSV decodes a comma or semicolon separated file. The delimiter is
// whichever of the two occurs more often in the header line.
func ReadCSV(r io.Reader) (*Batch, error) {
	br := bufio.NewReader(r)
	firstLine, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	firstLine = strings.TrimPrefix(firstLine, utf8BOM)
	if strings.TrimSpace(firstLine) == "" {
		return nil, ErrEmpty
	}

	cr := csv.NewReader(io.MultiReader(strings.NewReader(firstLine), br))
	cr.Comma = detectDelimiter(firstLine)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	b, err := newBatch(header)
	if err != nil {
		return nil, err
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		b.add(Row{Line: line, Cells: record})
	}
	return b, nil
}

func detectDelimiter(line string) rune {
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

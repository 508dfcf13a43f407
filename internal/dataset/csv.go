package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadOptions controls CSV decoding.
type ReadOptions struct {
	// Delimiter for CSV. If 0, ',' is used.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// DefaultReadOptions matches the cleaned irradiance exports: comma separated, '.' decimals.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{Delimiter: ',', DecimalSeparator: '.'}
}

// DelimiterFor picks a delimiter from a file name, tab for .tsv and comma otherwise.
func DelimiterFor(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

// ReadCSV decodes a header row followed by data rows. Cells that parse as
// numbers become numeric values; everything else is kept as text.
func ReadCSV(name string, r io.Reader, opt ReadOptions) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = opt.Delimiter
	if cr.Comma == 0 {
		cr.Comma = ','
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(name, nil), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	d := New(name, cols)

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		row := make([]Value, len(cols))
		for j := 0; j < len(cols) && j < len(rec); j++ {
			row[j] = parseCell(rec[j], opt)
		}
		d.rows = append(d.rows, row)
	}
	return d, nil
}

func parseCell(raw string, opt ReadOptions) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}
	}
	if f, ok := parseNumeric(s, opt); ok {
		return Number(f)
	}
	return Text(s)
}

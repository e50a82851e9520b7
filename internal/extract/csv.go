package extract

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrEmptyFile is returned for a CSV with no rows at all.
var ErrEmptyFile = errors.New("empty csv file")

// ReadRows reads the records of a CSV file after dropping its first skip
// physical lines. Content that is not valid UTF-8 is decoded as Latin-1.
// Rows may have differing widths.
func ReadRows(path string, skip int) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseRows(raw, skip)
}

// ParseRows parses CSV content with the same rules as ReadRows.
func ParseRows(raw []byte, skip int) ([][]string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw))
	}

	br := bufio.NewReader(src)
	for i := 0; i < skip; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrEmptyFile
			}
			return nil, fmt.Errorf("failed to skip header lines: %w", err)
		}
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func isBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

func blankRow(row []string) bool {
	for _, c := range row {
		if !isBlank(c) {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSVRow is one data row keyed by normalized header name.
type CSVRow struct {
	Line   int
	Values map[string]string
}

// Get returns the trimmed value of the first key present in the row.
func (r CSVRow) Get(keys ...string) string {
	for _, k := range keys {
		if v, ok := r.Values[NormalizeHeader(k)]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// NormalizeHeader folds "Avg Price", "avg_price" and "avgPrice" onto "avgprice".
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer("_", "", " ", "", "-", "", "\ufeff", "").Replace(h)
}

// ReadCSVRecords reads a CSV with a header row. Blank lines are skipped and
// short rows are padded with empty values.
func ReadCSVRecords(r io.Reader) ([]CSVRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = NormalizeHeader(h)
	}

	var rows []CSVRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		values := make(map[string]string, len(keys))
		for i, k := range keys {
			if i < len(record) {
				values[k] = record[i]
			} else {
				values[k] = ""
			}
		}
		rows = append(rows, CSVRow{Line: line, Values: values})
	}
	return rows, nil
}

func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var errEmptyDataset = errors.New("dataset has no header row")

// readRecords reads a .csv or .xlsx file into header-keyed records.
func readRecords(path string) ([]map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", path)
	}
}

func readCSV(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		rows = append(rows, rec)
	}

	return toRecords(rows)
}

func readXLSX(path string) ([]map[string]any, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errEmptyDataset
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	return toRecords(rows)
}

func toRecords(rows [][]string) ([]map[string]any, error) {
	if len(rows) == 0 {
		return nil, errEmptyDataset
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeHeader(strings.TrimPrefix(h, "\ufeff"))
	}

	records := make([]map[string]any, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		record := make(map[string]any, len(header))
		for i, key := range header {
			if key == "" || i >= len(cells) {
				continue
			}
			record[key] = cells[i]
		}
		records = append(records, record)
	}
	return records, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Name is the dataset name derived from its file name.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cartwise/companion-service/internal/geo"
	"github.com/cartwise/companion-service/internal/stores"
)

// Expected import columns, by header name (case-insensitive):
// id, name, address, chain, latitude, longitude.
var importColumns = []string{"id", "name", "address", "chain", "latitude", "longitude"}

// ImportResult summarizes an import file parse.
type ImportResult struct {
	Records []stores.StoreRecord
	Skipped []ImportError // Rows rejected with the reason
}

// ImportError describes a rejected import row.
type ImportError struct {
	Row    int // 1-based row number in the source file
	Reason string
}

// ParseCSV parses a catalog export in CSV form. The payload may be UTF-8,
// Windows-1250 or ISO-8859-2; both comma and semicolon delimiters are
// accepted.
func ParseCSV(content []byte) (*ImportResult, error) {
	decoded, err := decodeToUTF8(content)
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(decoded))
	reader.Comma = detectDelimiter(decoded)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, record)
	}
	return parseRows(rows)
}

// ParseXLSX parses a catalog export in XLSX form, reading the first sheet.
func ParseXLSX(content []byte) (*ImportResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %q: %w", sheets[0], err)
	}
	return parseRows(rows)
}

// detectDelimiter picks semicolon when the first line carries more
// semicolons than commas. Chain exports use either.
func detectDelimiter(content string) rune {
	firstLine := content
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		firstLine = content[:idx]
	}
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

func parseRows(rows [][]string) (*ImportResult, error) {
	if len(rows) == 0 {
		return &ImportResult{}, nil
	}

	colIdx, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		record, reason := parseRow(row, colIdx)
		if reason != "" {
			result.Skipped = append(result.Skipped, ImportError{Row: rowNum, Reason: reason})
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}

func mapHeader(header []string) (map[string]int, error) {
	colIdx := make(map[string]int, len(importColumns))
	for i, name := range header {
		colIdx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range importColumns {
		if _, ok := colIdx[required]; !ok {
			return nil, fmt.Errorf("import file missing column %q", required)
		}
	}
	return colIdx, nil
}

func parseRow(row []string, colIdx map[string]int) (stores.StoreRecord, string) {
	field := func(name string) string {
		idx := colIdx[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	id := field("id")
	name := field("name")
	if id == "" || name == "" {
		return stores.StoreRecord{}, "missing id or name"
	}

	lat, err := strconv.ParseFloat(field("latitude"), 64)
	if err != nil {
		return stores.StoreRecord{}, "invalid latitude"
	}
	lon, err := strconv.ParseFloat(field("longitude"), 64)
	if err != nil {
		return stores.StoreRecord{}, "invalid longitude"
	}
	coord := geo.Coordinate{Latitude: lat, Longitude: lon}
	if err := coord.Validate(); err != nil {
		return stores.StoreRecord{}, err.Error()
	}

	return stores.StoreRecord{
		ID:         id,
		Name:       name,
		Address:    field("address"),
		Chain:      strings.ToLower(field("chain")),
		Coordinate: coord,
	}, ""
}

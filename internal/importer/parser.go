package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoDataRows is returned when the sheet contains a header but no rows.
	ErrNoDataRows = errors.New("no data rows found")
	// ErrNoMappedColumns is returned when no header cell matches the template.
	ErrNoMappedColumns = errors.New("no recognized template columns in header row")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// studentSheetName is preferred when the workbook has multiple sheets;
// otherwise the first sheet is used.
const studentSheetName = "Students"

// headerOffset converts a 0-based data row index into the 1-based spreadsheet
// row number (row 1 is the header, data starts at row 2).
const headerOffset = 2

// ParseResult is the full outcome of parsing one uploaded file.
type ParseResult struct {
	FileName    string             `json:"fileName"`
	Rows        []domain.ParsedRow `json:"rows"`
	TotalRows   int                `json:"totalRows"`
	ValidRows   int                `json:"validRows"`
	InvalidRows int                `json:"invalidRows"`
	WarningRows int                `json:"warningRows"`
}

// Parse converts raw tabular bytes into validated rows. It is a pure function
// of its input: no I/O beyond the reader, no shared state. Rows that are
// empty across every mapped field are dropped before they enter the model.
func Parse(fileName string, r io.Reader) (*ParseResult, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return nil, errors.New("file is empty")
	}

	records, err := readTable(fileName, payload)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoDataRows
	}

	columns := mapHeader(records[0])
	if len(columns) == 0 {
		return nil, ErrNoMappedColumns
	}

	result := &ParseResult{FileName: fileName}
	for idx, record := range records[1:] {
		data := make(map[string]string, len(headerFields))
		for field := range fieldSet() {
			data[field] = ""
		}

		empty := true
		for col, field := range columns {
			if col >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[col])
			data[field] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		row := domain.ParsedRow{
			RowNumber: idx + headerOffset,
			Data:      data,
			Errors:    []domain.ValidationIssue{},
			Warnings:  []domain.ValidationIssue{},
		}
		validateRow(&row)
		row.Resolve()

		result.Rows = append(result.Rows, row)
		switch row.Status {
		case domain.RowStatusValid:
			result.ValidRows++
		case domain.RowStatusWarning:
			result.WarningRows++
		case domain.RowStatusInvalid:
			result.InvalidRows++
		}
	}

	result.TotalRows = len(result.Rows)
	if result.TotalRows == 0 {
		return nil, ErrNoDataRows
	}

	return result, nil
}

// fieldSet returns the set of internal field names, so every row carries a
// defined (possibly empty) value for each mapped field.
func fieldSet() map[string]struct{} {
	set := make(map[string]struct{}, len(headerFields))
	for _, field := range headerFields {
		set[field] = struct{}{}
	}
	return set
}

// mapHeader resolves column index -> internal field name using the fixed
// header table. Unrecognized columns are ignored.
func mapHeader(header []string) map[int]string {
	columns := make(map[int]string)
	for idx, cell := range header {
		if field, ok := headerFields[cell]; ok {
			columns[idx] = field
		}
	}
	return columns
}

func readTable(fileName string, payload []byte) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv":
		return readCSV(payload)
	case ".xlsx":
		return readExcel(payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func readCSV(payload []byte) ([][]string, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return records, nil
}

func readExcel(payload []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}

	sheet := sheets[0]
	for _, name := range sheets {
		if name == studentSheetName {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}
	return rows, nil
}

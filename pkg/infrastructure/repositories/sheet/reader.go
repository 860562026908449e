package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/sourcing/pkg/domain/entities"
)

// Format is the encoding of an input table
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromName picks the format from a file name's extension
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported table format %q", filepath.Ext(name))
	}
}

// ReadFile reads the named table from disk
func ReadFile(table, path string) (*Table, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, entities.NewPlanError(entities.MalformedTable, err.Error()).WithTable(table)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, entities.NewPlanErrorf(entities.MalformedTable, "failed to open %s file %s", table, path).
			WithTable(table).
			WithCause(err)
	}
	defer file.Close()

	return Read(table, file, format)
}

// Read decodes a table from r
func Read(table string, r io.Reader, format Format) (*Table, error) {
	var (
		records [][]string
		err     error
	)

	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r)
	default:
		err = fmt.Errorf("unsupported table format %q", format)
	}
	if err != nil {
		return nil, entities.NewPlanErrorf(entities.MalformedTable, "failed to read %s table", table).
			WithTable(table).
			WithCause(err)
	}

	t := NewTable(table, records)
	if len(t.Header) == 0 {
		return nil, entities.NewPlanError(entities.MalformedTable, "table has no header row").WithTable(table)
	}
	return t, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// sniffDelimiter picks ';' for spreadsheet exports that use it, ',' otherwise
func sniffDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Raw values keep dates as serial numbers and numbers unformatted
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

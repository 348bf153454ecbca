// Package importer builds wireframe documents from CSV, Excel and DXF files.
// Tabular files hold one edge per row; delimiters and header names are
// detected automatically.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/model"
)

// MergeTolerance is the distance within which imported endpoints are welded
// into one vertex.
const MergeTolerance = 1e-6

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Document *document.Document
	Edges    int
	Errors   []string
	Warnings []string
}

// ColumnMapping maps edge coordinates to their column indices. Z columns
// may be -1, in which case the coordinate is 0.
type ColumnMapping struct {
	X1, Y1, Z1 int
	X2, Y2, Z2 int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"x1": {"x1", "start x", "startx", "from x", "ax", "x start"},
	"y1": {"y1", "start y", "starty", "from y", "ay", "y start"},
	"z1": {"z1", "start z", "startz", "from z", "az", "z start"},
	"x2": {"x2", "end x", "endx", "to x", "bx", "x end"},
	"y2": {"y2", "end y", "endy", "to y", "by", "y end"},
	"z2": {"z2", "end z", "endz", "to z", "bz", "z end"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a positional
// mapping and false if not. Positional rows hold either x1,y1,z1,x2,y2,z2
// or, with four columns, x1,y1,x2,y2.
func DetectColumns(row []string) (ColumnMapping, bool) {
	found := map[string]int{}
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			if _, done := found[role]; done {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					found[role] = i
					break
				}
			}
		}
	}

	if len(found) == 0 {
		return positionalMapping(len(row)), false
	}

	col := func(role string) int {
		if i, ok := found[role]; ok {
			return i
		}
		return -1
	}
	return ColumnMapping{
		X1: col("x1"), Y1: col("y1"), Z1: col("z1"),
		X2: col("x2"), Y2: col("y2"), Z2: col("z2"),
	}, true
}

func positionalMapping(columns int) ColumnMapping {
	if columns == 4 {
		return ColumnMapping{X1: 0, Y1: 1, Z1: -1, X2: 2, Y2: 3, Z2: -1}
	}
	return ColumnMapping{X1: 0, Y1: 1, Z1: 2, X2: 3, Y2: 4, Z2: 5}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts the two endpoints of an edge from a row.
// Returns the points and any error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Point3, model.Point3, string) {
	var values [6]float64
	cols := []struct {
		name     string
		idx      int
		optional bool
	}{
		{"x1", mapping.X1, false}, {"y1", mapping.Y1, false}, {"z1", mapping.Z1, true},
		{"x2", mapping.X2, false}, {"y2", mapping.Y2, false}, {"z2", mapping.Z2, true},
	}
	for i, c := range cols {
		s := getCell(row, c.idx)
		if s == "" {
			if c.optional {
				continue
			}
			return model.Point3{}, model.Point3{}, fmt.Sprintf("%s: Missing %s value", rowLabel, c.name)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Point3{}, model.Point3{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, c.name, s)
		}
		values[i] = v
	}
	a := model.Pt3(values[0], values[1], values[2])
	b := model.Pt3(values[3], values[4], values[5])
	if !a.IsFinite() || !b.IsFinite() {
		return model.Point3{}, model.Point3{}, fmt.Sprintf("%s: Coordinates must be finite", rowLabel)
	}
	return a, b, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports an edge list from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", documentName(path), result.Warnings)
}

// ImportCSVFromReader imports an edge list from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", "Imported edges", nil)
}

// ImportExcel imports an edge list from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", documentName(path), nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and adds one edge per row.
func importFromRows(rows [][]string, rowPrefix, name string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Document: document.New(name),
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		for _, c := range []struct {
			name string
			idx  int
		}{{"x1", mapping.X1}, {"y1", mapping.Y1}, {"x2", mapping.X2}, {"y2", mapping.Y2}} {
			if c.idx == -1 {
				missing = append(missing, c.name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) > 0 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][0]), 64); err != nil {
			// Unrecognized header: skip it but keep positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
			if len(rows) > 1 {
				mapping = positionalMapping(len(rows[1]))
			}
		}
	}

	doc := result.Document
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		a, b, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		va := doc.MergeVertex(a, MergeTolerance)
		vb := doc.MergeVertex(b, MergeTolerance)
		if _, err := doc.AddEdge(va, vb); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rowLabel, err))
		}
	}

	result.Edges = len(doc.EdgeList())
	return result
}

func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

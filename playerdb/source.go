package playerdb

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	planner "github.com/samclaus/squadplanner"
	"github.com/xuri/excelize/v2"
)

// Row is one player line of a price guide.
type Row struct {
	Name    string
	Team    string
	Role    planner.Role
	Price   float64
	Goals   int
	Assists int
	Minutes int
	Rating  float64
	Comm    string

	// Source and Season are filled in by Build, not read from the sheet.
	Source string
	Season string
}

// columnAliases maps the (lower-cased) headers used by the Italian price
// guides to our column names.
var columnAliases = map[string]string{
	"nome":     "name",
	"ruolo":    "role",
	"squadra":  "team",
	"prezzo":   "price",
	"gol":      "goals",
	"goal":     "goals",
	"assist":   "assists",
	"ass":      "assists",
	"minuti":   "minutes",
	"min":      "minutes",
	"media":    "rating",
	"mv":       "rating",
	"commento": "comm",
}

var requiredColumns = []string{"name", "role", "price"}

// ReadSource reads a price guide. The first sheet of an .xlsx workbook and
// .csv files are supported; the first row must be the header. Rows whose role
// is not one of P, D, C, A are skipped and counted.
func ReadSource(path string) (rows []Row, skipped int, err error) {
	var records [][]string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readWorkbook(path)
	case ".csv":
		records, err = readCSV(path)
	default:
		return nil, 0, fmt.Errorf("unsupported source format: %s", path)
	}
	if err != nil {
		return nil, 0, err
	}

	return parseRecords(path, records)
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	records, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	return records, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return records, nil
}

func parseRecords(path string, records [][]string) ([]Row, int, error) {
	if len(records) == 0 {
		return nil, 0, nil
	}

	cols := make(map[string]int)
	for i, h := range records[0] {
		name := strings.ToLower(strings.TrimSpace(h))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, 0, fmt.Errorf("%s: missing column %q", path, c)
		}
	}

	var rows []Row
	skipped := 0

	for line, rec := range records[1:] {
		cell := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		if cell("name") == "" {
			continue
		}

		role, err := planner.ParseRole(cell("role"))
		if err != nil {
			skipped++
			continue
		}

		price, err := parseNumber(cell("price"))
		if err != nil {
			return nil, 0, fmt.Errorf("%s line %d: price: %w", path, line+2, err)
		}

		row := Row{
			Name:  cell("name"),
			Team:  cell("team"),
			Role:  role,
			Price: price,
			Comm:  cell("comm"),
		}

		// Stats are optional; anything unreadable counts as zero.
		goals, _ := parseNumber(cell("goals"))
		assists, _ := parseNumber(cell("assists"))
		minutes, _ := parseNumber(cell("minutes"))
		row.Goals = int(goals)
		row.Assists = int(assists)
		row.Minutes = int(minutes)
		row.Rating, _ = parseNumber(cell("rating"))

		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// parseNumber accepts both decimal separators, since Italian sheets export
// "6,5". An empty cell is 0.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// Package tabellcsv reads the planned-hours tabell from its Google Sheets
// CSV export: a small, real HTTPS adapter (FetchRows) in front of a pure
// row-parsing function (ParseRows) so the column layout and employee-ID
// normalization can be tested without a network call.
package tabellcsv

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gplans73/tabell-reconciler/internal/apperr"
	"github.com/gplans73/tabell-reconciler/internal/hours"
	"github.com/gplans73/tabell-reconciler/internal/model"
	"github.com/gplans73/tabell-reconciler/internal/month"
)

// Column indices, verified against the current sheet layout: A is employee
// ID, B name, C job title, D company, E..AI days 1..31, AJ month, AK project.
const (
	colEmployeeID = 0
	colName       = 1
	colJobTitle   = 2
	colCompany    = 3
	colDaysStart  = 4
	colDaysEnd    = 34
	colMonth      = 35
	colProject    = 36

	dataStartRow = 1 // row 0 is the header
)

var employeeIDPrefix = regexp.MustCompile(`(?i)^ТН`)

// RowFetcher fetches raw CSV rows for a sheet tab. HTTPFetcher is the
// production implementation; the package tests call ParseRows directly.
type RowFetcher interface {
	FetchRows(ctx context.Context, spreadsheetID, gid string) ([][]string, error)
}

// HTTPFetcher is the real RowFetcher: a plain GET against the sheet's CSV
// export endpoint with a bounded timeout and BOM-stripped UTF-8 decoding.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher with the 30s timeout the Google
// Sheets CSV export needs for larger tabells.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: 30 * time.Second}}
}

func (f *HTTPFetcher) FetchRows(ctx context.Context, spreadsheetID, gid string) ([][]string, error) {
	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", spreadsheetID, gid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.Transport(err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, apperr.Transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Transport(fmt.Errorf("tabell sheet fetch: unexpected status %d", resp.StatusCode))
	}

	reader := bufio.NewReader(resp.Body)
	stripBOM(reader)

	rows, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return nil, apperr.Transport(fmt.Errorf("tabell sheet csv decode: %w", err))
	}
	return rows, nil
}

// stripBOM consumes a leading UTF-8 BOM if present, mirroring Python's
// utf-8-sig decoding.
func stripBOM(r *bufio.Reader) {
	bom, err := r.Peek(3)
	if err != nil {
		return
	}
	if bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = r.Discard(3)
	}
}

// ParseRows turns raw CSV rows into tabell entries for the months covered by
// [dateFrom, dateTo], stripping the sheet's "ТН" employee-ID prefix so IDs
// line up with the bare numeric IDs SKUD uses.
func ParseRows(rows [][]string, dateFrom, dateTo time.Time) ([]model.TabellEntry, error) {
	if len(rows) <= dataStartRow {
		return nil, nil
	}

	needed := neededMonths(dateFrom, dateTo)

	var entries []model.TabellEntry
	for _, row := range rows[dataStartRow:] {
		if len(row) <= colMonth {
			continue
		}

		rawID := strings.TrimSpace(row[colEmployeeID])
		if rawID == "" {
			continue
		}
		employeeID := strings.TrimSpace(employeeIDPrefix.ReplaceAllString(rawID, ""))
		if employeeID == "" {
			continue
		}

		monthStr := strings.ToLower(strings.TrimSpace(row[colMonth]))
		monthNum, ok := month.Number(monthStr)
		if !ok || !needed[monthNum] {
			continue
		}

		entry := model.TabellEntry{
			EmployeeID: employeeID,
			Name:       cellAt(row, colName),
			JobTitle:   cellAt(row, colJobTitle),
			Company:    cellAt(row, colCompany),
			Project:    cellAt(row, colProject),
			DailyHours: make(map[int]float64),
		}
		if name, ok := month.Name(monthNum); ok {
			entry.Month = name
		}

		end := colDaysEnd
		if end > len(row)-1 {
			end = len(row) - 1
		}
		for col := colDaysStart; col <= end; col++ {
			day := col - colDaysStart + 1
			entry.DailyHours[day] = hours.ParseHours(row[col])
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// DistinctProjects returns the sorted set of non-empty project names found
// in the sheet, independent of any date range.
func DistinctProjects(rows [][]string) []string {
	if len(rows) <= dataStartRow {
		return nil
	}
	seen := make(map[string]bool)
	for _, row := range rows[dataStartRow:] {
		if len(row) <= colProject {
			continue
		}
		v := strings.TrimSpace(row[colProject])
		if v != "" {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// neededMonths is the set of calendar months touched by [dateFrom, dateTo],
// walking month boundaries rather than assuming the range fits one month.
func neededMonths(dateFrom, dateTo time.Time) map[int]bool {
	needed := make(map[int]bool)
	current := dateFrom
	for {
		needed[int(current.Month())] = true
		nextMonthFirst := time.Date(current.Year(), current.Month()+1, 1, 0, 0, 0, 0, current.Location())
		if nextMonthFirst.After(dateTo) {
			break
		}
		current = nextMonthFirst
	}
	needed[int(dateFrom.Month())] = true
	needed[int(dateTo.Month())] = true
	return needed
}

// FetchAndParse is the convenience path the HTTP boundary uses: fetch then
// parse, returning an apperr-tagged error if the fetch itself failed (the
// parse step never errors, it only skips malformed rows).
func FetchAndParse(ctx context.Context, fetcher RowFetcher, spreadsheetID, gid string, dateFrom, dateTo time.Time) ([]model.TabellEntry, error) {
	rows, err := fetcher.FetchRows(ctx, spreadsheetID, gid)
	if err != nil {
		return nil, err
	}
	return ParseRows(rows, dateFrom, dateTo)
}

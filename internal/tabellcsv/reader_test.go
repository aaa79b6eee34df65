package tabellcsv

import (
	"testing"
	"time"
)

func buildRow(employeeID, name, jobTitle, company string, days []string, month, project string) []string {
	row := make([]string, colProject+1)
	row[colEmployeeID] = employeeID
	row[colName] = name
	row[colJobTitle] = jobTitle
	row[colCompany] = company
	for i, v := range days {
		row[colDaysStart+i] = v
	}
	row[colMonth] = month
	row[colProject] = project
	return row
}

func TestParseRows_StripsEmployeeIDPrefix(t *testing.T) {
	header := make([]string, colProject+1)
	days := make([]string, 31)
	days[9] = "8"
	rows := [][]string{
		header,
		buildRow("ТН21045", "Jane Doe", "Operator", "Acme", days, "March", "Site A"),
	}

	from, to := mustDate(t, "2025-03-01"), mustDate(t, "2025-03-31")
	entries, err := ParseRows(rows, from, to)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].EmployeeID != "21045" {
		t.Fatalf("expected stripped id 21045, got %q", entries[0].EmployeeID)
	}
	if entries[0].DailyHours[10] != 8 {
		t.Fatalf("expected day 10 hours = 8, got %v", entries[0].DailyHours[10])
	}
	if entries[0].Month != "March" {
		t.Fatalf("expected month March, got %q", entries[0].Month)
	}
}

func TestParseRows_SkipsMonthsOutsideRange(t *testing.T) {
	header := make([]string, colProject+1)
	days := make([]string, 31)
	rows := [][]string{
		header,
		buildRow("100", "A", "", "", days, "January", ""),
		buildRow("101", "B", "", "", days, "March", ""),
	}

	from, to := mustDate(t, "2025-03-01"), mustDate(t, "2025-03-31")
	entries, err := ParseRows(rows, from, to)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (January filtered out), got %d", len(entries))
	}
	if entries[0].EmployeeID != "101" {
		t.Fatalf("expected employee 101, got %s", entries[0].EmployeeID)
	}
}

func TestParseRows_SkipsBlankEmployeeID(t *testing.T) {
	header := make([]string, colProject+1)
	days := make([]string, 31)
	rows := [][]string{
		header,
		buildRow("", "A", "", "", days, "March", ""),
	}

	from, to := mustDate(t, "2025-03-01"), mustDate(t, "2025-03-31")
	entries, err := ParseRows(rows, from, to)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected 0 entries for blank employee id, got %d", len(entries))
	}
}

func TestDistinctProjects_SortedUnique(t *testing.T) {
	header := make([]string, colProject+1)
	days := make([]string, 31)
	rows := [][]string{
		header,
		buildRow("1", "", "", "", days, "March", "Site B"),
		buildRow("2", "", "", "", days, "March", "Site A"),
		buildRow("3", "", "", "", days, "March", "Site A"),
	}

	got := DistinctProjects(rows)
	want := []string{"Site A", "Site B"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

// Package reconcile wires the pipeline together: parse the SKUD workbook,
// fetch the tabell, detect shifts, and join them into a comparison result.
// It is the one place that knows the full step order; every step itself
// stays independently testable.
package reconcile

import (
	"context"
	"time"

	"github.com/gplans73/tabell-reconciler/internal/apperr"
	"github.com/gplans73/tabell-reconciler/internal/compare"
	"github.com/gplans73/tabell-reconciler/internal/config"
	"github.com/gplans73/tabell-reconciler/internal/model"
	"github.com/gplans73/tabell-reconciler/internal/shift"
	"github.com/gplans73/tabell-reconciler/internal/skud"
	"github.com/gplans73/tabell-reconciler/internal/tabellcsv"
)

// Request is one reconciliation run's parameters.
type Request struct {
	SkudPath string
	DateFrom time.Time
	DateTo   time.Time
}

// Run executes the full pipeline for an SKUD file already staged on disk,
// fetching the tabell over HTTPS per cfg.GoogleSheetURL.
func Run(ctx context.Context, cfg config.Config, req Request) (compare.Result, error) {
	if req.DateFrom.After(req.DateTo) {
		return compare.Result{}, apperr.BadInput("start date must be before end date")
	}

	punches, err := skud.OpenAndParse(req.SkudPath, req.DateFrom, req.DateTo)
	if err != nil {
		return compare.Result{}, err
	}

	spreadsheetID, gid := config.ParseSheetURL(cfg.GoogleSheetURL)
	if spreadsheetID == "" || gid == "" {
		return compare.Result{}, apperr.BadInput("GOOGLE_SHEET_URL is not configured with a spreadsheet id and gid")
	}

	tabellEntries, err := tabellcsv.FetchAndParse(ctx, tabellcsv.NewHTTPFetcher(), spreadsheetID, gid, req.DateFrom, req.DateTo)
	if err != nil {
		return compare.Result{}, err
	}

	return RunWithTabell(punches, tabellEntries, req.DateFrom, req.DateTo)
}

// RunWithTabell runs shift detection and comparison from already-loaded
// punches and tabell entries. Used directly by the offline CLI, which reads
// both inputs from local files instead of an upload + HTTPS fetch.
func RunWithTabell(punches []model.PunchRecord, tabellEntries []model.TabellEntry, dateFrom, dateTo time.Time) (compare.Result, error) {
	shiftsByEmployee, brokenShifts := shift.DetectAll(punches, dateFrom, dateTo)
	return compare.Compare(shiftsByEmployee, brokenShifts, tabellEntries, dateFrom, dateTo), nil
}

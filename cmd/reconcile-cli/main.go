// Command reconcile-cli runs a reconciliation entirely from local files: an
// SKUD xlsx export and a tabell CSV export, no HTTP server or Google Sheets
// fetch involved.
//
// Contract:
// - Inputs:
//   - SKUD xlsx path via --skud
//   - tabell CSV path via --tabell (already exported to disk, same column
//     layout as the Google Sheets CSV export)
//   - Date range via --date-from/--date-to (YYYY-MM-DD)
// - Output:
//   - JSON (default), or an xlsx/pdf report file via --format and --out
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gplans73/tabell-reconciler/internal/config"
	"github.com/gplans73/tabell-reconciler/internal/notify"
	"github.com/gplans73/tabell-reconciler/internal/pdfreport"
	"github.com/gplans73/tabell-reconciler/internal/reconcile"
	"github.com/gplans73/tabell-reconciler/internal/skud"
	"github.com/gplans73/tabell-reconciler/internal/tabellcsv"
	"github.com/gplans73/tabell-reconciler/internal/xlsxreport"
)

func main() {
	var (
		skudPath    = flag.String("skud", "", "Path to the SKUD xlsx export (required)")
		tabellPath  = flag.String("tabell", "", "Path to a tabell CSV export (required)")
		dateFromStr = flag.String("date-from", "", "Start date, YYYY-MM-DD (required)")
		dateToStr   = flag.String("date-to", "", "End date, YYYY-MM-DD (required)")
		format      = flag.String("format", "json", "Output format: json, xlsx, or pdf")
		out         = flag.String("out", "", "Output file path (default: stdout for json, comparison.xlsx or comparison.pdf otherwise)")
		notifyEmail = flag.String("notify-email", "", "If set, email the xlsx report to this address after reconciling")
	)
	flag.Parse()

	if *skudPath == "" || *tabellPath == "" || *dateFromStr == "" || *dateToStr == "" {
		flag.Usage()
		os.Exit(2)
	}

	dateFrom, err := time.Parse("2006-01-02", *dateFromStr)
	if err != nil {
		log.Fatalf("invalid --date-from: %v", err)
	}
	dateTo, err := time.Parse("2006-01-02", *dateToStr)
	if err != nil {
		log.Fatalf("invalid --date-to: %v", err)
	}
	if dateFrom.After(dateTo) {
		log.Fatal("--date-from must be before --date-to")
	}

	punches, err := skud.OpenAndParse(*skudPath, dateFrom, dateTo)
	if err != nil {
		log.Fatalf("parse skud workbook: %v", err)
	}

	tabellRows, err := readCSVFile(*tabellPath)
	if err != nil {
		log.Fatalf("read tabell csv: %v", err)
	}
	tabellEntries, err := tabellcsv.ParseRows(tabellRows, dateFrom, dateTo)
	if err != nil {
		log.Fatalf("parse tabell csv: %v", err)
	}

	result, err := reconcile.RunWithTabell(punches, tabellEntries, dateFrom, dateTo)
	if err != nil {
		log.Fatalf("reconcile: %v", err)
	}

	log.Printf("reconciled %d employees, %d broken shifts", len(result.Rows), result.Summary.BrokenCount)

	var report []byte
	var defaultExt string
	toStdout := false
	switch *format {
	case "json":
		if *out == "" {
			_ = json.NewEncoder(os.Stdout).Encode(result)
			toStdout = true
			break
		}
		report, err = json.MarshalIndent(result, "", "  ")
		defaultExt = ".json"
	case "xlsx":
		report, err = xlsxreport.WriteComparisonWorkbook(result)
		defaultExt = ".xlsx"
	case "pdf":
		report, err = pdfreport.WriteComparisonPDF(result)
		defaultExt = ".pdf"
	default:
		log.Fatalf("unknown --format %q (want json, xlsx, or pdf)", *format)
	}
	if err != nil {
		log.Fatalf("build %s report: %v", *format, err)
	}

	if !toStdout {
		outPath := *out
		if outPath == "" {
			outPath = "comparison" + defaultExt
		}
		if err := os.WriteFile(outPath, report, 0o644); err != nil {
			log.Fatalf("write %s: %v", outPath, err)
		}
		log.Printf("wrote %s (%d bytes)", outPath, len(report))
	}

	if *notifyEmail != "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("load config for notify: %v", err)
		}
		xlsxData := report
		if *format != "xlsx" {
			xlsxData, err = xlsxreport.WriteComparisonWorkbook(result)
			if err != nil {
				log.Fatalf("build xlsx attachment for notify: %v", err)
			}
		}
		subject := fmt.Sprintf("Reconciliation report %s to %s", result.Summary.DateFrom, result.Summary.DateTo)
		body := fmt.Sprintf("Attached: reconciliation comparison for %s to %s.", result.Summary.DateFrom, result.Summary.DateTo)
		if err := notify.SendReport(cfg, *notifyEmail, "", subject, body, xlsxData, "comparison.xlsx",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil {
			log.Printf("notify: send email to %s: %v", *notifyEmail, err)
		}
	}
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).ReadAll()
}

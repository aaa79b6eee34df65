// Command server runs the tabell/SKUD reconciliation HTTP API.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/gplans73/tabell-reconciler/internal/apperr"
	"github.com/gplans73/tabell-reconciler/internal/compare"
	"github.com/gplans73/tabell-reconciler/internal/config"
	"github.com/gplans73/tabell-reconciler/internal/notify"
	"github.com/gplans73/tabell-reconciler/internal/pdfreport"
	"github.com/gplans73/tabell-reconciler/internal/reconcile"
	"github.com/gplans73/tabell-reconciler/internal/tabellcsv"
	"github.com/gplans73/tabell-reconciler/internal/xlsxreport"
)

const maxUploadBytes = 64 << 20 // 64 MiB, comfortably above a site-month SKUD export

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("create upload dir: %v", err)
	}

	s := &server{cfg: cfg}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/api/compare", corsMiddleware(s.compareJSONHandler))
	http.HandleFunc("/api/compare.xlsx", corsMiddleware(s.compareXLSXHandler))
	http.HandleFunc("/api/compare.pdf", corsMiddleware(s.comparePDFHandler))
	http.HandleFunc("/api/projects", corsMiddleware(s.projectsHandler))

	log.Printf("Server starting on :%s ...", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, nil))
}

type server struct {
	cfg config.Config
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

func (s *server) compareJSONHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.runCompare(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	if to := r.FormValue("notify_email"); to != "" {
		s.notifyResult(to, result)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// notifyResult emails the xlsx report to the given recipient. Failure here
// never fails the request — the comparison already succeeded and the
// caller already has their JSON result.
func (s *server) notifyResult(to string, result compare.Result) {
	data, err := xlsxreport.WriteComparisonWorkbook(result)
	if err != nil {
		log.Printf("notify: build xlsx attachment: %v", err)
		return
	}
	subject := fmt.Sprintf("Reconciliation report %s to %s", result.Summary.DateFrom, result.Summary.DateTo)
	body := fmt.Sprintf("Attached: reconciliation comparison for %s to %s.", result.Summary.DateFrom, result.Summary.DateTo)
	if err := notify.SendReport(s.cfg, to, "", subject, body, data, "comparison.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil {
		log.Printf("notify: send email to %s: %v", to, err)
	}
}

func (s *server) compareXLSXHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.runCompare(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	data, err := xlsxreport.WriteComparisonWorkbook(result)
	if err != nil {
		log.Printf("xlsx report error: %v", err)
		writeErr(w, apperr.ParseFatal(err))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"comparison.xlsx\"")
	_, _ = w.Write(data)
}

func (s *server) comparePDFHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.runCompare(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	data, err := pdfreport.WriteComparisonPDF(result)
	if err != nil {
		log.Printf("pdf report error: %v", err)
		writeErr(w, apperr.ParseFatal(err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"comparison.pdf\"")
	_, _ = w.Write(data)
}

func (s *server) projectsHandler(w http.ResponseWriter, r *http.Request) {
	spreadsheetID, gid := config.ParseSheetURL(s.cfg.GoogleSheetURL)
	if spreadsheetID == "" || gid == "" {
		writeErr(w, apperr.BadInput("GOOGLE_SHEET_URL is not configured with a spreadsheet id and gid"))
		return
	}

	rows, err := tabellcsv.NewHTTPFetcher().FetchRows(r.Context(), spreadsheetID, gid)
	if err != nil {
		writeErr(w, err)
		return
	}

	projects := tabellcsv.DistinctProjects(rows)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"projects": projects})
}

// runCompare handles the shared upload-stage-reconcile-cleanup path for all
// three /api/compare* routes.
func (s *server) runCompare(r *http.Request) (compare.Result, error) {
	if r.Method != http.MethodPost {
		return compare.Result{}, apperr.BadInput("method not allowed")
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return compare.Result{}, apperr.BadInput("invalid multipart form: %v", err)
	}

	file, header, err := r.FormFile("xlsx_file")
	if err != nil {
		return compare.Result{}, apperr.BadInput("no file uploaded")
	}
	defer file.Close()
	if !hasXLSXExt(header.Filename) {
		return compare.Result{}, apperr.BadInput("file must be .xlsx")
	}

	dateFromStr := r.FormValue("date_from")
	dateToStr := r.FormValue("date_to")
	if dateFromStr == "" || dateToStr == "" {
		return compare.Result{}, apperr.BadInput("date range is required")
	}
	dateFrom, err := time.Parse("2006-01-02", dateFromStr)
	if err != nil {
		return compare.Result{}, apperr.BadInput("invalid date format, use YYYY-MM-DD")
	}
	dateTo, err := time.Parse("2006-01-02", dateToStr)
	if err != nil {
		return compare.Result{}, apperr.BadInput("invalid date format, use YYYY-MM-DD")
	}
	if dateFrom.After(dateTo) {
		return compare.Result{}, apperr.BadInput("start date must be before end date")
	}

	stagedPath := filepath.Join(s.cfg.UploadDir, uuid.New().String()+".xlsx")
	dst, err := os.Create(stagedPath)
	if err != nil {
		return compare.Result{}, apperr.Transport(fmt.Errorf("stage upload: %w", err))
	}
	if _, err := dst.ReadFrom(file); err != nil {
		dst.Close()
		os.Remove(stagedPath)
		return compare.Result{}, apperr.Transport(fmt.Errorf("write staged upload: %w", err))
	}
	dst.Close()
	defer os.Remove(stagedPath)

	log.Printf("comparing skud=%s tabell range=%s..%s", header.Filename, dateFromStr, dateToStr)

	result, err := reconcile.Run(r.Context(), s.cfg, reconcile.Request{
		SkudPath: stagedPath,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
	if err != nil {
		log.Printf("reconcile error: %v", err)
		return compare.Result{}, err
	}
	return result, nil
}

func hasXLSXExt(filename string) bool {
	return len(filename) > 5 && filename[len(filename)-5:] == ".xlsx"
}

func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind == apperr.KindBadInput {
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

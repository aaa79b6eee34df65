// Package config loads runtime configuration from the environment (with
// .env support via godotenv, for local development) and parses the Google
// Sheets URL the tabell is published at into the spreadsheet ID and gid the
// CSV export endpoint needs.
package config

import (
	"os"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the process-wide runtime configuration.
type Config struct {
	Port           string
	GoogleSheetURL string
	UploadDir      string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads a .env file if present (missing is not an error — production
// deploys set these directly in the environment) and applies defaults for
// anything unset.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:           getenv("PORT", "8080"),
		GoogleSheetURL: getenv("GOOGLE_SHEET_URL", ""),
		UploadDir:      getenv("UPLOAD_FOLDER", "uploads"),
		SMTPHost:       getenv("SMTP_HOST", ""),
		SMTPUser:       getenv("SMTP_USER", ""),
		SMTPPass:       getenv("SMTP_PASS", ""),
		SMTPFrom:       getenv("SMTP_FROM", ""),
	}

	port, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		port = 587
	}
	cfg.SMTPPort = port

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var (
	sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	gidPattern     = regexp.MustCompile(`gid=(\d+)`)
)

// ParseSheetURL extracts the spreadsheet ID and gid from a Google Sheets
// URL. Either return value is empty if its pattern wasn't found.
func ParseSheetURL(url string) (spreadsheetID, gid string) {
	if m := sheetIDPattern.FindStringSubmatch(url); len(m) == 2 {
		spreadsheetID = m[1]
	}
	if m := gidPattern.FindStringSubmatch(url); len(m) == 2 {
		gid = m[1]
	}
	return
}

// Package notify emails a reconciliation report as an attachment, using
// net/smtp directly rather than a mail-sending library — one SendMail call
// doesn't warrant one.
package notify

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/gplans73/tabell-reconciler/internal/config"
)

const mimeLineLength = 76

// SendReport emails attachment (an xlsx or pdf report) to the given
// recipients. cc may be empty. Returns an error if SMTP isn't configured or
// the send itself fails.
func SendReport(cfg config.Config, to string, cc string, subject, body string, attachment []byte, fileName, contentType string) error {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return fmt.Errorf("SMTP not configured")
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}

	recipients := splitComma(to)
	ccRecipients := splitComma(cc)
	all := append([]string{}, recipients...)
	all = append(all, ccRecipients...)
	if len(all) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg := buildMessage(from, recipients, ccRecipients, subject, body, attachment, fileName, contentType)
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	return smtp.SendMail(addr, auth, from, all, []byte(msg))
}

func buildMessage(from string, to, cc []string, subject, body string, attachment []byte, fileName, contentType string) string {
	boundary := "==BOUNDARY=="
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	if len(cc) > 0 {
		buf.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(cc, ", ")))
	}
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n\r\n", boundary))

	buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	buf.WriteString(body + "\r\n\r\n")

	if len(attachment) > 0 {
		buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		buf.WriteString(fmt.Sprintf("Content-Type: %s\r\n", contentType))
		buf.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", fileName))
		buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		enc := base64.StdEncoding.EncodeToString(attachment)
		for i := 0; i < len(enc); i += mimeLineLength {
			end := i + mimeLineLength
			if end > len(enc) {
				end = len(enc)
			}
			buf.WriteString(enc[i:end] + "\r\n")
		}
		buf.WriteString("\r\n")
	}

	buf.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return buf.String()
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package google writes ledger reports to a Google Sheets tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/sheets"
)

var _ sheets.ReportWriter = (*ReportWriter)(nil)

// ReportWriter overwrites one sheet of a spreadsheet with the latest report.
type ReportWriter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

// NewReportWriter authenticates with service account credentials taken from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS, in that order.
func NewReportWriter(ctx context.Context, spreadsheetID, sheet string) (*ReportWriter, error) {
	creds, err := serviceAccountCredentials()
	if err != nil {
		return nil, err
	}
	return NewReportWriterWithOptions(ctx, spreadsheetID, sheet,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// NewReportWriterWithOptions builds the Sheets client from explicit options.
func NewReportWriterWithOptions(ctx context.Context, spreadsheetID, sheet string, opts ...goption.ClientOption) (*ReportWriter, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheet) == "" {
		return nil, errors.New("missing report sheet name")
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &ReportWriter{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}, nil
}

func serviceAccountCredentials() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// WriteReport clears the report sheet and writes r from A1.
func (w *ReportWriter) WriteReport(ctx context.Context, r sheets.Report) error {
	if w.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:Z", w.sheet)
	if _, err := w.svc.Spreadsheets.Values.Clear(w.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear report sheet: %w", err)
	}

	vr := &gsheet.ValueRange{Values: toValues(r.Rows())}
	if _, err := w.svc.Spreadsheets.Values.Update(w.spreadsheetID, fmt.Sprintf("%s!A1", w.sheet), vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("write report sheet: %w", err)
	}

	slog.InfoContext(ctx, "Report written to Google Sheets",
		"sheet", w.sheet, "month", r.Month, "rows", len(vr.Values))
	return nil
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}

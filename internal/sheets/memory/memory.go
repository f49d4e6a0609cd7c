// Package memory is a ReportWriter that keeps reports in process. The worker
// uses it when no spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"fintrack/internal/sheets"
)

var _ sheets.ReportWriter = (*Writer)(nil)

type Writer struct {
	mu      sync.Mutex
	reports []sheets.Report
}

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteReport(_ context.Context, r sheets.Report) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, r)
	return nil
}

// Last returns the most recent report and whether one was written.
func (w *Writer) Last() (sheets.Report, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.reports) == 0 {
		return sheets.Report{}, false
	}
	return w.reports[len(w.reports)-1], true
}

func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.reports)
}

package memory

import (
	"context"
	"testing"

	"fintrack/internal/sheets"
)

func TestWriterKeepsLastReport(t *testing.T) {
	w := New()
	if _, ok := w.Last(); ok {
		t.Fatal("expected no report yet")
	}
	_ = w.WriteReport(context.Background(), sheets.Report{Month: "2024-01"})
	_ = w.WriteReport(context.Background(), sheets.Report{Month: "2024-02"})

	last, ok := w.Last()
	if !ok || last.Month != "2024-02" {
		t.Fatalf("unexpected last report: %+v ok=%v", last, ok)
	}
	if w.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", w.Count())
	}
}

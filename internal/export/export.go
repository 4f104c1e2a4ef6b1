// Package export renders saved expense history for download.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/splitticket/internal/models"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var csvHeader = []string{"Date", "Total", "Party A", "Party B", "Total Cash"}

// Document is a rendered export.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Render writes expenses in the given format. Expenses are emitted in the
// order given; the store already returns them newest first.
func Render(format string, expenses []*models.Expense, now time.Time) (Document, error) {
	stamp := now.UTC().Format("2006-01-02")
	switch format {
	case FormatCSV:
		content, err := CSV(expenses)
		if err != nil {
			return Document{}, err
		}
		return Document{
			Filename:    "splitticket-history-" + stamp + ".csv",
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case FormatJSON:
		content, err := JSON(expenses)
		if err != nil {
			return Document{}, err
		}
		return Document{
			Filename:    "splitticket-history-" + stamp + ".json",
			ContentType: "application/json",
			Content:     content,
		}, nil
	default:
		return Document{}, fmt.Errorf("unsupported export format %q", format)
	}
}

// CSV renders one row per expense with amounts fixed to two decimals.
func CSV(expenses []*models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range expenses {
		r := e.Receipt
		row := []string{
			time.Unix(e.CreatedAt, 0).UTC().Format(time.RFC3339),
			r.GrandTotal.StringFixed(2),
			r.PartyA.CashDue.StringFixed(2),
			r.PartyB.CashDue.StringFixed(2),
			r.TotalCash.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON renders the stored expenses as an indented array.
func JSON(expenses []*models.Expense) ([]byte, error) {
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	out, err := json.MarshalIndent(expenses, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return out, nil
}

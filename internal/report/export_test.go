package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func table() Table {
	return Table{
		Sheet:  "Orders",
		Header: []string{"Date", "Name", "Address", "Total Amount"},
		Rows: [][]any{
			{"2024-01-10", "Alice", "12, Park Street", 113},
			{"2024-01-11", "Bob \"B\"", "line one\nline two", 93},
		},
	}
}

func TestWriteCSVQuotesFreeText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, table()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "Date,Name,Address,Total Amount\n") {
		t.Fatalf("unexpected header line in %q", buf.String())
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1][2] != "12, Park Street" {
		t.Errorf("embedded comma was not preserved: %q", rows[1][2])
	}
	if rows[2][2] != "line one\nline two" {
		t.Errorf("embedded newline was not preserved: %q", rows[2][2])
	}
	if rows[1][3] != "113" {
		t.Errorf("expected amount 113, got %q", rows[1][3])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := table().Write(&buf, FormatXLSX); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Orders")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][1] != "Alice" || rows[1][3] != "113" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestFilename(t *testing.T) {
	got := Filename("food-orders", Range{Start: "2024-01-01", End: "2024-01-07"}, FormatCSV)
	if got != "food-orders-2024-01-01-to-2024-01-07.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatCSV {
		t.Errorf("expected csv default, got %q (%v)", f, err)
	}
	if f, err := ParseFormat("xlsx"); err != nil || f != FormatXLSX {
		t.Errorf("expected xlsx, got %q (%v)", f, err)
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for pdf")
	}
}

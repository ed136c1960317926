package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iwvelando/calcdash/pkg/constants"
)

func sampleSections() []Section {
	return []Section{
		{
			Title: "Loan",
			Fields: []Field{
				{"Monthly payment", Money(2124.7)},
				{"Total interest", Money(27482.03)},
				{"Months", 60},
			},
		},
		{
			Title:   "Yearly schedule",
			Columns: []string{"Year", "Principal", "Balance"},
			Rows: [][]interface{}{
				{1, 16362.6, 83637.4},
				{2, 18075.76, 65561.64},
			},
		},
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, sampleSections()...); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Loan ---",
		"Monthly payment : ₹2,124.70",
		"Months          : 60",
		"--- Yearly schedule ---",
		"Year | Principal | Balance",
		"____ | _________ | _______",
		"1    | 16,362.60 | 83,637.40",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q:\n%s", want, output)
		}
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, sampleSections()...); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	expected := "Monthly payment,2124.70\n" +
		"Total interest,27482.03\n" +
		"Months,60\n" +
		"\n" +
		"Year,Principal,Balance\n" +
		"1,16362.60,83637.40\n" +
		"2,18075.76,65561.64\n"
	if buf.String() != expected {
		t.Errorf("CsvFormat() =\n%s\nexpected\n%s", buf.String(), expected)
	}
}

func TestCsvFormatQuotesSeparators(t *testing.T) {
	var buf bytes.Buffer
	err := CsvFormat(&buf, Section{
		Columns: []string{"Item", "Note"},
		Rows:    [][]interface{}{{"Fruits & Vegetables", "apples, bananas"}},
	})
	if err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"apples, bananas"`) {
		t.Errorf("expected quoted field, got %s", buf.String())
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, constants.OutputFormatPretty, Section{Fields: []Field{{"Tips", []string{"a", "b"}}}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Tips : a, b") {
		t.Errorf("unexpected pretty output %q", buf.String())
	}
	if err := Write(&buf, "json"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

// Package output renders calculator results and record listings as
// human-readable tables or CSV.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/calcdash/pkg/constants"
	"github.com/iwvelando/calcdash/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money marks an amount rendered with the currency symbol.
type Money float64

// Field is one labelled summary value.
type Field struct {
	Label string
	Value interface{}
}

// Section is a titled block of summary fields followed by an optional table.
type Section struct {
	Title   string
	Fields  []Field
	Columns []string
	Rows    [][]interface{}
}

// Write renders sections in the named output format.
func Write(w io.Writer, outputFormat string, sections ...Section) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, sections...)
	case constants.OutputFormatCSV:
		return CsvFormat(w, sections...)
	default:
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, sections ...Section) error {
	p := message.NewPrinter(language.English)
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if s.Title != "" {
			if _, err := fmt.Fprintf(w, "--- %s ---\n", s.Title); err != nil {
				return err
			}
		}

		labelWidth := 0
		for _, f := range s.Fields {
			labelWidth = max(labelWidth, len(f.Label))
		}
		for _, f := range s.Fields {
			if _, err := fmt.Fprintf(w, "%-*s : %s\n", labelWidth, f.Label, prettyValue(p, f.Value)); err != nil {
				return err
			}
		}

		if len(s.Columns) == 0 {
			continue
		}
		if err := prettyTable(w, p, s); err != nil {
			return err
		}
	}
	return nil
}

func prettyTable(w io.Writer, p *message.Printer, s Section) error {
	cells := make([][]string, len(s.Rows))
	widths := make([]int, len(s.Columns))
	for c, col := range s.Columns {
		widths[c] = len(col)
	}
	for r, row := range s.Rows {
		cells[r] = make([]string, len(s.Columns))
		for c := range s.Columns {
			if c < len(row) {
				cells[r][c] = prettyValue(p, row[c])
			}
			widths[c] = max(widths[c], len([]rune(cells[r][c])))
		}
	}

	underline := make([]string, len(s.Columns))
	for c := range s.Columns {
		underline[c] = strings.Repeat("_", len(s.Columns[c]))
	}
	lines := append([][]string{s.Columns, underline}, cells...)
	for _, line := range lines {
		padded := make([]string, len(line))
		for c, cell := range line {
			padded[c] = cell + strings.Repeat(" ", widths[c]-len([]rune(cell)))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(padded, " | "), " ")); err != nil {
			return err
		}
	}
	return nil
}

func prettyValue(p *message.Printer, v interface{}) string {
	switch val := v.(type) {
	case Money:
		return format.Currency(float64(val))
	case float64:
		return p.Sprintf("%.2f", val)
	case int:
		return p.Sprintf("%d", val)
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case []string:
		return strings.Join(val, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// CsvFormat outputs in comma-separated value format. Each section becomes its
// summary fields as label,value rows followed by its table; sections are
// separated by an empty line.
func CsvFormat(w io.Writer, sections ...Section) error {
	cw := csv.NewWriter(w)
	for i, s := range sections {
		if i > 0 {
			cw.Flush()
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for _, f := range s.Fields {
			if err := cw.Write([]string{f.Label, csvValue(f.Value)}); err != nil {
				return err
			}
		}
		if len(s.Columns) == 0 {
			continue
		}
		if err := cw.Write(s.Columns); err != nil {
			return err
		}
		for _, row := range s.Rows {
			record := make([]string, len(s.Columns))
			for c := range s.Columns {
				if c < len(row) {
					record[c] = csvValue(row[c])
				}
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvValue(v interface{}) string {
	switch val := v.(type) {
	case Money:
		return fmt.Sprintf("%.2f", float64(val))
	case float64:
		return fmt.Sprintf("%.2f", val)
	case []string:
		return strings.Join(val, ";")
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

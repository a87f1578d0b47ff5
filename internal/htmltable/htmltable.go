// Package htmltable extracts tabular data from HTML pages so that HTML
// sources can feed the same inference and load paths as delimited text.
package htmltable

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table holds the cell grid of one HTML table.
type Table struct {
	// Labels are the header cells (th), in DOM order. Empty when the table
	// has no header row.
	Labels []string
	// Rows are the data rows (td cells), in DOM order.
	Rows [][]string
}

// ErrNoTable is returned when the document contains no <table> element with
// at least one data row.
var ErrNoTable = fmt.Errorf("htmltable: no table found")

// ExtractFirst parses html and returns the first <table> that has at least
// one data row. Header cells come from th elements; a table whose first row
// uses only td cells is treated as headerless.
//
// Missing or empty tables are skipped rather than treated as errors, so a
// page with a decorative layout table followed by the real data table still
// extracts correctly.
func ExtractFirst(html string) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out *Table
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		t := parseTable(tbl)
		if len(t.Rows) == 0 {
			// Keep looking; layout tables often have no td rows.
			return true
		}
		out = t
		return false
	})

	if out == nil {
		return nil, ErrNoTable
	}
	return out, nil
}

// parseTable converts one table selection into a cell grid.
func parseTable(tbl *goquery.Selection) *Table {
	t := &Table{}

	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		ths := tr.Find("th")
		if ths.Length() > 0 && t.Labels == nil && len(t.Rows) == 0 {
			ths.Each(func(_ int, th *goquery.Selection) {
				t.Labels = append(t.Labels, cellText(th))
			})
			return
		}

		var row []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, cellText(td))
		})
		if len(row) > 0 {
			t.Rows = append(t.Rows, row)
		}
	})

	return t
}

// cellText collapses a cell's text content to a single trimmed line.
func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// Render serializes the table as comma-delimited text with a trailing
// newline per row, quoting cells that contain a delimiter, quote, or line
// break. The output is suitable as a sniffer sample and for row loading.
func (t *Table) Render() []byte {
	var b strings.Builder

	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteCell(c))
		}
		b.WriteByte('\n')
	}

	if len(t.Labels) > 0 {
		writeRow(t.Labels)
	}
	for _, row := range t.Rows {
		writeRow(row)
	}
	return []byte(b.String())
}

func quoteCell(c string) string {
	if !strings.ContainsAny(c, ",\"\r\n") {
		return c
	}
	return `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
}

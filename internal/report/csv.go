package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// renderCSV writes the table through encoding/csv, which applies the
// standard quoting rule for fields containing the delimiter, quotes or
// newlines. Spreadsheet round-trip fidelity depends on this, so no
// hand-rolled escaping here.
func (g *Generator) renderCSV(tbl table) (Document, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(tbl.header); err != nil {
		return Document{}, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range tbl.rows {
		if err := w.Write(row); err != nil {
			return Document{}, fmt.Errorf("write csv row: %w", err)
		}
	}
	if tbl.footerInCSV && tbl.footer != nil {
		if err := w.Write(tbl.footer); err != nil {
			return Document{}, fmt.Errorf("write csv totals row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Document{}, fmt.Errorf("flush csv: %w", err)
	}

	return Document{
		Filename:    Filename(tbl.site.Name, tbl.kind, FormCSV, tbl.generatedAt),
		ContentType: "text/csv; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}

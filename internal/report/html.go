package report

import (
	"bytes"
	"fmt"
	"html/template"
)

// Standalone HTML5: inline styling only, no external resources, so the
// document renders offline and prints to PDF as-is.
const htmlDocument = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 24px; color: #222; }
h1 { font-size: 20px; margin-bottom: 4px; }
.meta { color: #666; font-size: 13px; margin-top: 0; }
table { border-collapse: collapse; width: 100%; margin-top: 16px; }
th, td { border: 1px solid #bbb; padding: 6px 10px; font-size: 13px; text-align: left; }
th { background: #f0f0f0; }
tfoot td { font-weight: bold; background: #fafafa; }
.empty { margin-top: 24px; color: #888; font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">{{.SiteName}} &middot; {{.GeneratedLabel}} {{.GeneratedAt}}</p>
{{if .Rows}}<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
{{if .Footer}}<tfoot><tr>{{range .Footer}}<td>{{.}}</td>{{end}}</tr></tfoot>
{{end}}</table>
{{else}}<p class="empty">{{.NoData}}</p>
{{end}}</body>
</html>
`

var htmlTmpl = template.Must(template.New("report").Parse(htmlDocument))

type htmlData struct {
	Title          string
	SiteName       string
	GeneratedLabel string
	GeneratedAt    string
	Header         []string
	Rows           [][]string
	Footer         []string
	NoData         string
}

func (g *Generator) renderHTML(tbl table) (Document, error) {
	data := htmlData{
		Title:          fmt.Sprintf("%s %s Report", tbl.site.Name, tbl.kind.Title()),
		SiteName:       tbl.site.Name,
		GeneratedLabel: g.labels("msg.generated"),
		GeneratedAt:    tbl.generatedAt.Format("2 Jan 2006 15:04"),
		Header:         tbl.header,
		Rows:           tbl.rows,
		Footer:         tbl.footer,
		NoData:         g.labels("msg.no_data"),
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return Document{}, fmt.Errorf("render html report: %w", err)
	}

	return Document{
		Filename:    Filename(tbl.site.Name, tbl.kind, FormHTML, tbl.generatedAt),
		ContentType: "text/html; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}

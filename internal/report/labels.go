package report

// LabelFunc resolves a human-facing header label by identifier. The UI
// layer can plug in a localized lookup; labels never drive logic.
type LabelFunc func(id string) string

var defaultLabels = map[string]string{
	"col.name":          "Name",
	"col.category":      "Category",
	"col.village":       "Village",
	"col.contact":       "Contact",
	"col.quantity":      "Quantity",
	"col.unit":          "Unit",
	"col.cost":          "Cost",
	"col.date":          "Date",
	"col.time":          "Time",
	"col.worker_name":   "Worker Name",
	"col.amount":        "Amount",
	"col.method":        "Method",
	"col.total_hajari":  "Total Hajari",
	"col.total_expense": "Total Expense",
	"col.total_paid":    "Total Paid",
	"col.remaining":     "Remaining",
	"row.total":         "Total",
	"row.site_expenses": "Site expenses",
	"msg.no_data":       "No data recorded for this report.",
	"msg.generated":     "Generated",
}

// DefaultLabels is the built-in English lookup.
func DefaultLabels(id string) string {
	if v, ok := defaultLabels[id]; ok {
		return v
	}
	return id
}

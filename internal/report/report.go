package report

import "fmt"

// Well-known report keys.
const (
	KeyFormats         = "report-formats"
	KeyRowRelateds     = "client-row-relateds"
	KeyRefreshChannels = "refresh-channels"
	KeyNewRow          = "new_row"
)

// Row is one table row keyed by column name. Missing columns render as null.
type Row map[string]any

// Table is an ordered set of columns and rows.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// NewTable returns an empty table with the given columns.
func NewTable(cols ...Column) *Table { return &Table{Columns: cols, Rows: [][]any{}} }

// Add appends a row, ordering values by column.
func (t *Table) Add(r Row) {
	vals := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		vals[i] = r[c.Name]
	}
	t.Rows = append(t.Rows, vals)
}

// Column returns the descriptor named name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Value returns the cell of row i in column name.
func (t *Table) Value(i int, name string) any {
	for j, c := range t.Columns {
		if c.Name == name {
			return t.Rows[i][j]
		}
	}
	return nil
}

// RowRelated links a row to another report, mapping row columns to its params.
type RowRelated struct {
	Label     string            `json:"label"`
	URL       string            `json:"url"`
	Params    map[string]string `json:"params"`
	RowParams map[string]string `json:"row_params"`
}

type namedTable struct {
	name  string
	table *Table
}

// Report is a titled set of named tables plus metadata keys.
type Report struct {
	Title     string
	KeyLabels []string
	Keys      map[string]any
	main      string
	tables    []namedTable
}

// New returns an empty report.
func New(title string) *Report {
	return &Report{Title: title, KeyLabels: []string{}, Keys: map[string]any{}}
}

// AddTable adds a table; main marks the table the client shows first.
func (r *Report) AddTable(name string, t *Table, main bool) *Table {
	r.tables = append(r.tables, namedTable{name: name, table: t})
	if main {
		r.main = name
	}
	return t
}

// Table returns the named table or nil.
func (r *Report) Table(name string) *Table {
	for _, nt := range r.tables {
		if nt.name == name {
			return nt.table
		}
	}
	return nil
}

// Main returns the name of the main table.
func (r *Report) Main() string { return r.main }

// Labelf appends a key label shown under the title.
func (r *Report) Labelf(format string, args ...any) {
	r.KeyLabels = append(r.KeyLabels, fmt.Sprintf(format, args...))
}

// Formats records the client-side summarising formats the report supports.
func (r *Report) Formats(f ...string) { r.Keys[KeyFormats] = f }

// Related adds a row related link.
func (r *Report) Related(rel RowRelated) {
	rels, _ := r.Keys[KeyRowRelateds].([]RowRelated)
	r.Keys[KeyRowRelateds] = append(rels, rel)
}

// RefreshOn lists the notification channels whose messages invalidate this report.
func (r *Report) RefreshOn(channels ...string) { r.Keys[KeyRefreshChannels] = channels }

// MarkNewRow flags the payload as a template for a row not yet persisted.
func (r *Report) MarkNewRow() { r.Keys[KeyNewRow] = true }

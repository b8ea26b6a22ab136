package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"

	"github.com/tinoosan/hacc/internal/dates"
)

type wireTable struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type wireReport struct {
	Title     string               `json:"title,omitempty"`
	KeyLabels []string             `json:"key_labels"`
	MainTable string               `json:"main_table,omitempty"`
	Tables    map[string]wireTable `json:"tables"`
	Keys      map[string]any       `json:"keys"`
}

// MarshalJSON renders the report in its wire format with cells converted by
// column type.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := wireReport{
		Title:     r.Title,
		KeyLabels: r.KeyLabels,
		MainTable: r.main,
		Tables:    make(map[string]wireTable, len(r.tables)),
		Keys:      r.Keys,
	}
	for _, nt := range r.tables {
		rows := make([][]any, len(nt.table.Rows))
		for i, row := range nt.table.Rows {
			cells := make([]any, len(row))
			for j, v := range row {
				cells[j] = cell(nt.table.Columns[j], v)
			}
			rows[i] = cells
		}
		out.Tables[nt.name] = wireTable{Columns: nt.table.Columns, Rows: rows}
	}
	return json.Marshal(out)
}

func cell(c Column, v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return amount(c, x)
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		return amount(c, x.Decimal)
	case time.Time:
		if c.Type == "date" {
			return dates.Format(x)
		}
		return x
	case *uuid.UUID:
		if x == nil {
			return nil
		}
		return x.String()
	case uuid.UUID:
		return x.String()
	case *string:
		if x == nil {
			return nil
		}
		return *x
	}
	return v
}

func amount(c Column, d decimal.Decimal) any {
	if c.BlankZero && d.IsZero() {
		return nil
	}
	if c.Currency == "" {
		return json.Number(d.String())
	}
	return json.Number(FormatCurrency(c.Currency, d))
}

// FormatCurrency rounds d to the minor units of curr (half to even) and
// renders it with exactly that many decimal places. Unknown currencies fall
// back to the plain decimal text.
func FormatCurrency(curr string, d decimal.Decimal) string {
	a, err := money.ParseAmount(curr, d.String())
	if err != nil {
		return d.String()
	}
	a = a.RoundToCurr()
	rounded, err := decimal.NewFromString(a.Decimal().String())
	if err != nil {
		return d.String()
	}
	return rounded.StringFixed(int32(a.Curr().Scale()))
}

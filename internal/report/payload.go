package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tinoosan/hacc/internal/errs"
)

// InColumn is a request column; clients may send a bare name or the column
// object they received from a GET.
type InColumn struct {
	Name string
}

func (c *InColumn) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &c.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	c.Name = obj.Name
	return nil
}

// InTable is a tabular request table.
type InTable struct {
	Columns []InColumn          `json:"columns"`
	Rows    [][]json.RawMessage `json:"rows"`
}

// Payload is the body of a mutating request: named tables.
type Payload struct {
	Tables map[string]InTable `json:"tables"`
}

// Spec states which columns a table must, may, or may omit for the server to fill.
type Spec struct {
	Required []string
	Optional []string
	// Amendments are server-assigned columns; clients may send or omit them.
	Amendments []string
	// AllowExtra accepts columns outside the lists above.
	AllowExtra bool
}

// Record is one request row keyed by column name.
type Record map[string]json.RawMessage

// Has reports whether the column was sent.
func (r Record) Has(col string) bool { _, ok := r[col]; return ok }

// Decode reads a tabular payload.
func Decode(r io.Reader) (Payload, error) {
	var p Payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return Payload{}, errs.Invalid(errs.CodeInvalidInput, "invalid JSON: "+err.Error())
	}
	return p, nil
}

func invalid(format string, args ...any) error {
	return errs.Invalid(errs.CodeInvalidInput, fmt.Sprintf(format, args...))
}

// Table returns the rows of the named table, checked against spec.
func (p Payload) Table(name string, spec Spec) ([]Record, error) {
	t, ok := p.Tables[name]
	if !ok {
		return nil, invalid("missing table: %s", name)
	}
	cols := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if c.Name == "" {
			return nil, invalid("table %s: column %d has no name", name, i)
		}
		cols[c.Name] = i
	}
	for _, req := range spec.Required {
		if _, ok := cols[req]; !ok {
			return nil, invalid("missing required column: %s", req)
		}
	}
	if !spec.AllowExtra {
		known := map[string]bool{}
		for _, list := range [][]string{spec.Required, spec.Optional, spec.Amendments} {
			for _, c := range list {
				known[c] = true
			}
		}
		for _, c := range t.Columns {
			if !known[c.Name] {
				return nil, invalid("unexpected column: %s", c.Name)
			}
		}
	}
	out := make([]Record, 0, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, invalid("table %s: row %d has %d values, expected %d", name, i, len(row), len(t.Columns))
		}
		rec := make(Record, len(row))
		for j, v := range row {
			rec[t.Columns[j].Name] = v
		}
		out = append(out, rec)
	}
	return out, nil
}

// Bind decodes records into T through their JSON object form. Unknown
// columns are ignored.
func Bind[T any](recs []Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for i, rec := range recs {
		b, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, invalid("row %d: %v", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

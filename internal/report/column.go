// Package report models tabular responses: per-field column descriptors,
// ordered tables, report metadata and the JSON wire format, plus decoding of
// tabular request payloads.
package report

// Entity names a kind of row a surrogate or name column refers to.
type Entity string

const (
	Account     Entity = "account"
	AccountType Entity = "accounttype"
	Journal     Entity = "journal"
	Transaction Entity = "transaction"
)

// charWidths are the default display widths of name columns.
var charWidths = map[Entity]int{
	Account:     12,
	AccountType: 10,
	Journal:     10,
}

// Column describes one field of a table.
type Column struct {
	Name       string `json:"name"`
	Label      string `json:"label,omitempty"`
	Type       string `json:"type,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
	URLKey     string `json:"url_key,omitempty"`
	Represents bool   `json:"represents,omitempty"`
	SortProxy  string `json:"sort_proxy,omitempty"`
	CharWidth  int    `json:"char_width,omitempty"`
	BlankZero  bool   `json:"blank_zero,omitempty"`
	// Currency is the ISO code amounts in this column are rounded to.
	Currency string `json:"currency,omitempty"`
}

// Option tweaks a column descriptor.
type Option func(*Column)

func Label(s string) Option     { return func(c *Column) { c.Label = s } }
func URLKey(k string) Option    { return func(c *Column) { c.URLKey = k } }
func SortProxy(k string) Option { return func(c *Column) { c.SortProxy = k } }
func Hidden() Option            { return func(c *Column) { c.Hidden = true } }
func HiddenIf(b bool) Option    { return func(c *Column) { c.Hidden = c.Hidden || b } }
func Represents() Option        { return func(c *Column) { c.Represents = true } }
func BlankZero() Option         { return func(c *Column) { c.BlankZero = true } }

func build(c Column, opts []Option) Column {
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Surrogate is a hidden identifier column of the given entity.
func Surrogate(name string, e Entity, opts ...Option) Column {
	return build(Column{Name: name, Type: string(e) + ".surrogate", Hidden: true}, opts)
}

// Name is the display name of an entity, linking to it through URLKey.
func Name(name string, e Entity, opts ...Option) Column {
	return build(Column{Name: name, Type: string(e) + ".name", CharWidth: charWidths[e]}, opts)
}

// Currency is an amount column rounded to curr.
func Currency(name, curr string, opts ...Option) Column {
	return build(Column{Name: name, Type: "currency", Currency: curr}, opts)
}

// Date is a calendar date column.
func Date(name string, opts ...Option) Column { return build(Column{Name: name, Type: "date"}, opts) }

// Boolean is a true/false column.
func Boolean(name string, opts ...Option) Column {
	return build(Column{Name: name, Type: "boolean"}, opts)
}

// Integer is a whole-number column.
func Integer(name string, opts ...Option) Column {
	return build(Column{Name: name, Type: "integer"}, opts)
}

// Text is a free text column.
func Text(name string, opts ...Option) Column { return build(Column{Name: name}, opts) }

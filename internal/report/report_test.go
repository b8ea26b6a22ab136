package report

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/hacc/internal/errs"
)

func TestColumnDescriptors(t *testing.T) {
	c := Name("acc_name", Account, Label("Account"), URLKey("id"), Represents())
	assert.Equal(t, "account.name", c.Type)
	assert.Equal(t, 12, c.CharWidth)
	assert.True(t, c.Represents)
	assert.Equal(t, 10, Name("jrn_name", Journal).CharWidth)
	assert.Equal(t, 10, Name("atype_name", AccountType).CharWidth)
	assert.True(t, Surrogate("id", Account).Hidden)
	assert.True(t, Currency("debit", "USD", Hidden()).Hidden)
	assert.False(t, Text("memo", HiddenIf(false)).Hidden)
}

func TestTableAddOrdersByColumn(t *testing.T) {
	tbl := NewTable(Text("a"), Text("b"), Text("c"))
	tbl.Add(Row{"c": 3, "a": 1})
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []any{1, nil, 3}, tbl.Rows[0])
	assert.Equal(t, 3, tbl.Value(0, "c"))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "12.30", FormatCurrency("USD", decimal.RequireFromString("12.3")))
	assert.Equal(t, "12.35", FormatCurrency("USD", decimal.RequireFromString("12.346")))
	assert.Equal(t, "-100.00", FormatCurrency("USD", decimal.NewFromInt(-100)))
}

func TestReportMarshal(t *testing.T) {
	id := uuid.New()
	r := New("Balance Sheet")
	r.Labelf("Date:  %s", "2024-01-31")
	tbl := r.AddTable("balances", NewTable(
		Surrogate("id", Account),
		Date("date"),
		Currency("balance", "USD"),
		Currency("credit", "USD", BlankZero()),
		Currency("debit", "USD"),
	), true)
	tbl.Add(Row{
		"id":      id,
		"date":    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		"balance": decimal.RequireFromString("1234.5"),
		"credit":  decimal.Zero,
		"debit":   decimal.NullDecimal{},
	})
	r.Formats("gl_summarize_by_type")
	r.RefreshOn("hacc_transactions")

	b, err := json.Marshal(r)
	require.NoError(t, err)

	var got struct {
		Title     string   `json:"title"`
		KeyLabels []string `json:"key_labels"`
		MainTable string   `json:"main_table"`
		Tables    map[string]struct {
			Columns []Column            `json:"columns"`
			Rows    [][]json.RawMessage `json:"rows"`
		} `json:"tables"`
		Keys map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "Balance Sheet", got.Title)
	assert.Equal(t, []string{"Date:  2024-01-31"}, got.KeyLabels)
	assert.Equal(t, "balances", got.MainTable)
	row := got.Tables["balances"].Rows[0]
	assert.Equal(t, `"`+id.String()+`"`, string(row[0]))
	assert.Equal(t, `"2024-01-31"`, string(row[1]))
	assert.Equal(t, `1234.50`, string(row[2]))
	assert.Equal(t, `null`, string(row[3]))
	assert.Equal(t, `null`, string(row[4]))
	assert.Equal(t, []any{"gl_summarize_by_type"}, got.Keys[KeyFormats])
	assert.Equal(t, []any{"hacc_transactions"}, got.Keys[KeyRefreshChannels])
}

const payload = `{"tables": {
	"splits": {
		"columns": [{"name": "sid", "type": "transaction.surrogate"}, "account_id", "sum", "note"],
		"rows": [[null, "6f1c2b1e-7d1a-4c55-9a55-0d9f1e0f2a11", 12.5, "x"],
		         ["0a4b8c9e-3f21-4e0e-8f4b-7c5d6e7f8a90", "6f1c2b1e-7d1a-4c55-9a55-0d9f1e0f2a11", "-12.50", null]]
	}
}}`

func TestPayloadTable(t *testing.T) {
	p, err := Decode(strings.NewReader(payload))
	require.NoError(t, err)

	recs, err := p.Table("splits", Spec{Required: []string{"account_id", "sum"}, Amendments: []string{"sid"}, AllowExtra: true})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Has("note"))

	type split struct {
		SID       *uuid.UUID      `json:"sid"`
		AccountID uuid.UUID       `json:"account_id"`
		Sum       decimal.Decimal `json:"sum"`
	}
	rows, err := Bind[split](recs)
	require.NoError(t, err)
	assert.Nil(t, rows[0].SID)
	assert.NotNil(t, rows[1].SID)
	assert.True(t, rows[0].Sum.Add(rows[1].Sum).IsZero())
}

func TestPayloadTableViolations(t *testing.T) {
	p, err := Decode(strings.NewReader(payload))
	require.NoError(t, err)

	cases := map[string]struct {
		table string
		spec  Spec
		msg   string
	}{
		"missing table":    {"trans", Spec{}, "missing table: trans"},
		"missing required": {"splits", Spec{Required: []string{"account_id", "memo"}, AllowExtra: true}, "missing required column: memo"},
		"unexpected":       {"splits", Spec{Required: []string{"account_id", "sum"}, Amendments: []string{"sid"}}, "unexpected column: note"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Table(tc.table, tc.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrInvalid))
			ue, ok := errs.AsUser(err)
			require.True(t, ok)
			assert.Equal(t, errs.CodeInvalidInput, ue.Code)
			assert.Equal(t, tc.msg, ue.Message)
		})
	}
}

func TestPayloadRowWidth(t *testing.T) {
	p, err := Decode(strings.NewReader(`{"tables": {"t": {"columns": ["a", "b"], "rows": [[1]]}}}`))
	require.NoError(t, err)
	_, err = p.Table("t", Spec{AllowExtra: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0 has 1 values, expected 2")
}

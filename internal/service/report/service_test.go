package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/hacc/internal/dictionary"
	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/report"
	reportsvc "github.com/tinoosan/hacc/internal/service/report"
	"github.com/tinoosan/hacc/internal/storage/memory"
)

var now = time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

type env struct {
	svc   reportsvc.Service
	store *memory.Store
	chart dictionary.Chart
}

func setup(t *testing.T) env {
	t.Helper()
	store := memory.New()
	c := dictionary.Build()
	require.NoError(t, dictionary.Install(context.Background(), store, c))
	svc := reportsvc.New(store,
		reportsvc.WithClock(func() time.Time { return now }),
		reportsvc.WithCurrency("USD"),
		reportsvc.WithChannel("ledger"),
	)
	return env{svc: svc, store: store, chart: c}
}

func (e env) id(name string) uuid.UUID {
	a, _ := e.chart.Account(name)
	return a.ID
}

func (e env) post(t *testing.T, date time.Time, payee, dr, cr string, sum int64) {
	t.Helper()
	tx := ledger.Transaction{ID: uuid.New(), Date: date, Payee: payee, Splits: []ledger.Split{
		{ID: uuid.New(), AccountID: e.id(dr), Sum: decimal.NewFromInt(sum)},
		{ID: uuid.New(), AccountID: e.id(cr), Sum: decimal.NewFromInt(-sum)},
	}}
	require.NoError(t, e.store.SaveTransaction(context.Background(), tx))
}

// rowsBy indexes the main table by one column.
func rowsBy(t *testing.T, r *report.Report, key string) map[any]map[string]any {
	t.Helper()
	tbl := r.Table(r.Main())
	require.NotNil(t, tbl)
	out := map[any]map[string]any{}
	for i := range tbl.Rows {
		row := map[string]any{}
		for _, c := range tbl.Columns {
			row[c.Name] = tbl.Value(i, c.Name)
		}
		out[tbl.Value(i, key)] = row
	}
	return out
}

func dec(t *testing.T, v any) string {
	t.Helper()
	n, ok := v.(decimal.NullDecimal)
	require.True(t, ok, "%T", v)
	if !n.Valid {
		return "null"
	}
	return n.Decimal.String()
}

func TestBalanceSheetDefaultsToToday(t *testing.T) {
	e := setup(t)
	e.post(t, day(2024, 5, 1), "", "Checking", "Salary", 1000)
	e.post(t, day(2024, 6, 1), "", "Checking", "Salary", 1000)

	r, err := e.svc.BalanceSheet(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date:  2024-05-17"}, r.KeyLabels)
	assert.Equal(t, []string{"ledger"}, r.Keys[report.KeyRefreshChannels])

	rows := rowsBy(t, r, "acc_name")
	require.Len(t, rows, 2)
	checking := rows["Checking"]
	assert.Equal(t, "1000", dec(t, checking["debit"]))
	assert.Equal(t, "null", dec(t, checking["credit"]))
	assert.Equal(t, "1000", dec(t, checking["balance"]))
	re := rows[dictionary.RetainedEarnings]
	assert.Equal(t, "null", dec(t, re["debit"]))
	assert.Equal(t, "1000", dec(t, re["credit"]))
	assert.Equal(t, "1000", dec(t, re["balance"]))
}

func TestBalanceSheetSummaryGroupsByType(t *testing.T) {
	e := setup(t)
	e.post(t, day(2024, 5, 1), "", "Checking", "Opening Balances", 500)
	e.post(t, day(2024, 5, 2), "", "Cash", "Checking", 50)
	e.post(t, day(2024, 5, 3), "", "Groceries", "Credit Card", 20)

	r, err := e.svc.BalanceSheetSummary(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "summary", r.Main())
	rows := rowsBy(t, r, "atype_name")
	assert.Equal(t, "500", dec(t, rows["Asset"]["balance"]))
	assert.Equal(t, "20", dec(t, rows["Liability"]["balance"]))
	assert.Equal(t, "480", dec(t, rows["Equity"]["balance"]))
}

func TestMultiBalanceSheet(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.post(t, day(2022, 1, 10), "", "Cash", "Opening Balances", 10)
	e.post(t, day(2023, 1, 10), "", "Savings", "Cash", 10)

	r, err := e.svc.MultiBalanceSheet(ctx, reportsvc.MultiBalanceParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Date:  2024-04-30 and 2 annual comparisons"}, r.KeyLabels)
	col, ok := r.Table("balances").Column("balance1")
	require.True(t, ok)
	assert.Equal(t, "Balance\n2023-04-30", col.Label)
	debit0, _ := r.Table("balances").Column("debit0")
	assert.True(t, debit0.Hidden)

	rows := rowsBy(t, r, "acc_name")
	assert.Equal(t, "null", dec(t, rows["Cash"]["balance0"]))
	assert.Equal(t, "null", dec(t, rows["Cash"]["balance1"]))
	assert.Equal(t, "10", dec(t, rows["Cash"]["balance2"]))
	assert.Equal(t, "10", dec(t, rows["Savings"]["balance0"]))

	zero := 0
	_, err = e.svc.MultiBalanceSheet(ctx, reportsvc.MultiBalanceParams{Count: &zero})
	ue, ok := errs.AsUser(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidParam, ue.Code)
	assert.Equal(t, "This report requires at least 1 interval.", ue.Message)
}

func TestProfitAndLossDefaults(t *testing.T) {
	e := setup(t)
	e.post(t, day(2023, 12, 31), "", "Checking", "Salary", 1)
	e.post(t, day(2024, 1, 1), "", "Checking", "Salary", 100)
	e.post(t, day(2024, 5, 1), "", "Checking", "Salary", 1000)

	r, err := e.svc.ProfitAndLoss(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "deltas", r.Main())
	assert.Equal(t, []string{"Date:  2024-01-01 -- 2024-04-30"}, r.KeyLabels)
	rows := rowsBy(t, r, "acc_name")
	require.Len(t, rows, 1)
	assert.Equal(t, "100", dec(t, rows["Salary"]["balance"]))
}

func TestIntervalPL(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.post(t, day(2024, 4, 15), "", "Rent", "Checking", 900)
	e.post(t, day(2023, 10, 15), "", "Rent", "Checking", 800)
	e.post(t, day(2023, 10, 20), "", "Checking", "Interest", 3)

	r, err := e.svc.IntervalPL(ctx, reportsvc.IntervalParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Date:  2022-11-01 -- 2024-04-30"}, r.KeyLabels)
	col, ok := r.Table("balances").Column("balance_1")
	require.True(t, ok)
	assert.Equal(t, "Balance\n2024-04-30", col.Label)

	tbl := r.Table("balances")
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Interest", tbl.Value(0, "acc_name"), "income sorts first")
	rows := rowsBy(t, r, "acc_name")
	assert.Equal(t, "900", dec(t, rows["Rent"]["balance_1"]))
	assert.Equal(t, "800", dec(t, rows["Rent"]["balance_2"]))
	assert.Nil(t, rows["Interest"]["balance_1"])
	assert.Equal(t, "3", dec(t, rows["Interest"]["balance_2"]))

	zero := 0
	_, err = e.svc.IntervalPL(ctx, reportsvc.IntervalParams{Length: &zero})
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestTransactionListValidation(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	d1, d2 := day(2024, 2, 1), day(2024, 1, 1)

	_, err := e.svc.TransactionList(ctx, reportsvc.ListParams{Date1: &d1})
	ue, ok := errs.AsUser(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeParameterValidation, ue.Code)
	assert.Equal(t, "Enter both begin & end dates.", ue.Message)

	_, err = e.svc.TransactionList(ctx, reportsvc.ListParams{Date1: &d1, Date2: &d2})
	ue, ok = errs.AsUser(err)
	require.True(t, ok)
	assert.Equal(t, "Start date must be before end date.", ue.Message)
}

func TestTransactionListSplitsDebitCredit(t *testing.T) {
	e := setup(t)
	e.post(t, day(2024, 1, 5), "ACME Payroll", "Checking", "Salary", 1000)
	e.post(t, day(2024, 1, 6), "Corner Shop", "Groceries", "Cash", 12)
	d1, d2 := day(2024, 1, 1), day(2024, 1, 31)
	checking := e.id("Checking")

	r, err := e.svc.TransactionList(context.Background(), reportsvc.ListParams{Date1: &d1, Date2: &d2, PayeeFrag: "acme", Account: &checking})
	require.NoError(t, err)
	assert.Equal(t, []string{"Date:  2024-01-01 -- 2024-01-31", "Account:  Checking"}, r.KeyLabels)
	tbl := r.Table("trans")
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "1000", dec(t, tbl.Value(0, "debit")))
	assert.Equal(t, "null", dec(t, tbl.Value(0, "credit")))
	col, _ := tbl.Column("acc_name")
	assert.True(t, col.Hidden)
}

func TestTranDetailRunningBalance(t *testing.T) {
	e := setup(t)
	e.post(t, day(2024, 1, 1), "", "Checking", "Opening Balances", 100)
	e.post(t, day(2024, 2, 1), "", "Groceries", "Checking", 30)
	e.post(t, day(2024, 2, 2), "", "Checking", "Salary", 50)
	acct := e.id("Checking")
	d1, d2 := day(2024, 2, 1), day(2024, 2, 28)

	r, err := e.svc.TranDetail(context.Background(), reportsvc.DetailParams{Account: &acct, Date1: &d1, Date2: &d2})
	require.NoError(t, err)
	tbl := r.Table("trans")
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "Opening Balance", tbl.Value(0, "payee"))
	assert.True(t, decimal.NewFromInt(100).Equal(tbl.Value(0, "balance").(decimal.Decimal)))
	assert.Nil(t, tbl.Value(0, "debit"))
	assert.Equal(t, "30", dec(t, tbl.Value(1, "credit")))
	assert.Equal(t, "70", dec(t, tbl.Value(1, "balance")))
	assert.Equal(t, "50", dec(t, tbl.Value(2, "debit")))
	assert.Equal(t, "120", dec(t, tbl.Value(2, "balance")))

	_, err = e.svc.TranDetail(context.Background(), reportsvc.DetailParams{Date1: &d1, Date2: &d2})
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestPeriodReportsCapIntervals(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.post(t, day(2024, 4, 15), "", "Rent", "Checking", 900)
	tooMany, most, one := 61, 60, 1

	_, err := e.svc.MultiBalanceSheet(ctx, reportsvc.MultiBalanceParams{Count: &tooMany})
	ue, ok := errs.AsUser(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidParam, ue.Code)
	assert.Equal(t, "This report allows at most 60 intervals.", ue.Message)

	_, err = e.svc.IntervalPL(ctx, reportsvc.IntervalParams{Intervals: &tooMany})
	ue, ok = errs.AsUser(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidParam, ue.Code)

	r, err := e.svc.MultiBalanceSheet(ctx, reportsvc.MultiBalanceParams{Count: &most})
	require.NoError(t, err)
	_, ok = r.Table("balances").Column("balance59")
	assert.True(t, ok)

	r, err = e.svc.IntervalPL(ctx, reportsvc.IntervalParams{Intervals: &most, Length: &one})
	require.NoError(t, err)
	rows := rowsBy(t, r, "acc_name")
	assert.Equal(t, "900", dec(t, rows["Rent"]["balance_1"]))
}

func TestUnbalancedAndYears(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.post(t, day(2023, 3, 1), "", "Cash", "Checking", 5)

	r, err := e.svc.UnbalancedTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, r.Table(r.Main()).Rows)

	y, err := e.svc.TransactionYears(ctx)
	require.NoError(t, err)
	tbl := y.Table("years")
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, 2023, tbl.Value(0, "year"))
	assert.Equal(t, 1, tbl.Value(0, "count"))
}

func TestStaticSettings(t *testing.T) {
	e := setup(t)
	r, err := e.svc.StaticSettings(context.Background(), []string{reportsvc.SettingAccountTypes, reportsvc.SettingJournals})
	require.NoError(t, err)
	types := r.Table(reportsvc.SettingAccountTypes)
	require.Len(t, types.Rows, 5)
	assert.Equal(t, "Asset", types.Value(0, "atype_name"))
	assert.Len(t, r.Table(reportsvc.SettingJournals).Rows, 1)

	_, err = e.svc.StaticSettings(context.Background(), []string{"colors"})
	ue, ok := errs.AsUser(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidParam, ue.Code)
}

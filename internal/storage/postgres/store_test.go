package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/hacc/internal/dictionary"
	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/service/reconcile"
)

func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres store tests")
	}
	return dsn
}

type fixture struct {
	store *Store
	chart dictionary.Chart
}

func (f fixture) id(name string) uuid.UUID {
	a, _ := f.chart.Account(name)
	return a.ID
}

// setup migrates a clean schema, installs the starter chart and returns the store.
func setup(t *testing.T) fixture {
	t.Helper()
	dsn := getTestDSN(t)
	m, err := NewMigrator(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, m.Down())
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	c := dictionary.Build()
	require.NoError(t, dictionary.Install(ctx, s, c))
	return fixture{store: s, chart: c}
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func (f fixture) post(t *testing.T, date time.Time, dr, cr string, sum int64) ledger.Transaction {
	t.Helper()
	tx := ledger.Transaction{ID: uuid.New(), Date: date, Payee: "test", Splits: []ledger.Split{
		{ID: uuid.New(), AccountID: f.id(dr), Sum: decimal.NewFromInt(sum)},
		{ID: uuid.New(), AccountID: f.id(cr), Sum: decimal.NewFromInt(-sum)},
	}}
	require.NoError(t, f.store.SaveTransaction(context.Background(), tx))
	return tx
}

func TestMigratorVersion(t *testing.T) {
	setup(t)
	m, err := NewMigrator(getTestDSN(t), nil)
	require.NoError(t, err)
	defer m.Close()
	v, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)
	require.NoError(t, m.Up(), "up with nothing pending is not an error")
}

func TestBalanceSheetClosesIncome(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.post(t, day(2024, 1, 10), "Checking", "Salary", 1000)
	f.post(t, day(2024, 1, 11), "Groceries", "Checking", 40)
	f.post(t, day(2024, 2, 1), "Cash", "Checking", 960)

	rows, err := f.store.BalanceSheet(ctx, day(2024, 1, 31))
	require.NoError(t, err)
	got := map[string]string{}
	for _, r := range rows {
		got[r.Name] = r.Debit.Decimal.String()
	}
	assert.Equal(t, map[string]string{"Checking": "960", dictionary.RetainedEarnings: "-960"}, got)

	rows, err = f.store.BalanceSheet(ctx, day(2024, 2, 1))
	require.NoError(t, err)
	for _, r := range rows {
		assert.NotEqual(t, "Checking", r.Name, "zero balances are dropped")
	}
}

func TestMultiBalanceMergesPeriods(t *testing.T) {
	f := setup(t)
	f.post(t, day(2022, 1, 10), "Cash", "Opening Balances", 10)
	f.post(t, day(2023, 1, 10), "Savings", "Cash", 10)

	rows, err := f.store.MultiBalance(context.Background(), []time.Time{day(2024, 4, 30), day(2023, 4, 30), day(2022, 4, 30)})
	require.NoError(t, err)
	byName := map[string]ledger.MultiBalanceRow{}
	for _, r := range rows {
		_, dup := byName[r.Name]
		require.False(t, dup, r.Name)
		byName[r.Name] = r
	}
	cash := byName["Cash"]
	assert.False(t, cash.Debits[0].Valid)
	assert.False(t, cash.Debits[1].Valid)
	assert.Equal(t, "10", cash.Debits[2].Decimal.String())
	assert.Equal(t, "Asset", cash.TypeName)

	_, err = f.store.MultiBalance(context.Background(), nil)
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestDeleteAccountReferenced(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.post(t, day(2024, 1, 1), "Cash", "Opening Balances", 5)

	err := f.store.DeleteAccount(ctx, f.id("Cash"))
	assert.ErrorIs(t, err, errs.ErrReferenced)
	_, err = f.store.GetAccount(ctx, f.id("Cash"))
	require.NoError(t, err)

	require.NoError(t, f.store.DeleteAccount(ctx, f.id("Utilities")))
	assert.ErrorIs(t, f.store.DeleteAccount(ctx, f.id("Utilities")), errs.ErrNotFound)
}

func TestPutAccountDuplicateName(t *testing.T) {
	f := setup(t)
	cash, _ := f.chart.Account("Cash")
	cash.ID = uuid.New()
	err := f.store.PutAccount(context.Background(), cash)
	ue, ok := errs.AsUser(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeDataIntegrity, ue.Code)
}

func TestSaveReplacesSplits(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tx := f.post(t, day(2024, 3, 1), "Checking", "Salary", 100)
	kept, removed := tx.Splits[0].ID, tx.Splits[1].ID
	require.NoError(t, f.store.Reconcile(ctx, f.id("Checking"), []ledger.SplitMark{{SplitID: kept, Reconciled: true}}, nil))

	tx.Splits = []ledger.Split{
		tx.Splits[0],
		{ID: uuid.New(), AccountID: f.id("Interest"), Sum: decimal.NewFromInt(-100)},
	}
	require.NoError(t, f.store.SaveTransaction(ctx, tx))

	got, err := f.store.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, got.Splits, 2)
	for _, sp := range got.Splits {
		assert.NotEqual(t, removed, sp.ID)
	}
	acc, err := f.store.ReconcileAccount(ctx, f.id("Checking"))
	require.NoError(t, err)
	assert.Equal(t, "100", acc.Reconciled.String(), "tags on kept splits survive")
}

func TestSaveRejectsForeignSplit(t *testing.T) {
	f := setup(t)
	a := f.post(t, day(2024, 3, 1), "Checking", "Salary", 1)
	b := f.post(t, day(2024, 3, 2), "Checking", "Salary", 2)
	b.Splits[0].ID = a.Splits[0].ID
	err := f.store.SaveTransaction(context.Background(), b)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestReconcileAllOrNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tx := f.post(t, day(2024, 3, 1), "Checking", "Salary", 50)
	note := "March statement"
	marks := []ledger.SplitMark{{SplitID: tx.Splits[0].ID, Pending: true}, {SplitID: uuid.New(), Reconciled: true}}

	err := f.store.Reconcile(ctx, f.id("Checking"), marks, &reconcile.Note{RecNote: &note})
	assert.ErrorIs(t, err, errs.ErrInvalid)
	splits, err := f.store.ReconcileSplits(ctx, f.id("Checking"))
	require.NoError(t, err)
	require.Len(t, splits, 1)
	assert.False(t, splits[0].Pending)

	require.NoError(t, f.store.Reconcile(ctx, f.id("Checking"), marks[:1], &reconcile.Note{RecNote: &note}))
	acc, err := f.store.ReconcileAccount(ctx, f.id("Checking"))
	require.NoError(t, err)
	require.NotNil(t, acc.RecNote)
	assert.Equal(t, note, *acc.RecNote)
	assert.True(t, acc.Reconciled.IsZero())
}

func TestDeleteTransaction(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tx := f.post(t, day(2024, 3, 1), "Checking", "Salary", 50)
	gone, err := f.store.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, gone.Date.Equal(day(2024, 3, 1)))
	_, err = f.store.GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.store.DeleteTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPublishReachesListener(t *testing.T) {
	f := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := f.store.pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()
	_, err = conn.Exec(ctx, "listen hacc_test")
	require.NoError(t, err)

	require.NoError(t, f.store.Publish(ctx, "hacc_test", []byte(`{"op":"save"}`)))
	n, err := conn.Conn().WaitForNotification(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hacc_test", n.Channel)
	assert.JSONEq(t, `{"op":"save"}`, n.Payload)
}

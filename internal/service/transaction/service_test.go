package transaction_test

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
	"github.com/tinoosan/hacc/internal/notify"
	"github.com/tinoosan/hacc/internal/service/transaction"
	"github.com/tinoosan/hacc/internal/storage/memory"
)

var today = time.Date(2024, 5, 17, 15, 4, 5, 0, time.UTC)

type env struct {
	svc   transaction.Service
	store *memory.Store
	rec   *notify.Recorder
	chart dictionary.Chart
}

func setup(t *testing.T) env {
	t.Helper()
	store := memory.New()
	c := dictionary.Build()
	require.NoError(t, dictionary.Install(context.Background(), store, c))
	rec := &notify.Recorder{}
	svc := transaction.New(store, store, notify.New(rec, "", nil), transaction.WithClock(func() time.Time { return today }))
	return env{svc: svc, store: store, rec: rec, chart: c}
}

func (e env) id(name string) uuid.UUID {
	a, _ := e.chart.Account(name)
	return a.ID
}

func TestNewSaveGetRoundTrip(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	tmpl := e.svc.New(ctx)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), tmpl.Date)
	assert.Empty(t, tmpl.Splits)

	header := tmpl
	header.Payee = "Corner Shop"
	header.Memo = "milk"
	splits := []ledger.Split{
		{AccountID: e.id("Groceries"), Sum: decimal.RequireFromString("4.50")},
		{AccountID: e.id("Cash"), Sum: decimal.RequireFromString("-4.50")},
	}
	saved, err := e.svc.Save(ctx, tmpl.ID, []ledger.Transaction{header}, splits)
	require.NoError(t, err)

	got, err := e.svc.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, "Corner Shop", got.Payee)
	require.Len(t, got.Splits, 2)
	for _, sp := range got.Splits {
		assert.Equal(t, tmpl.ID, sp.TransID)
		assert.NotEqual(t, uuid.Nil, sp.ID)
		assert.Equal(t, dictionary.DefaultJournal, sp.JournalName)
	}
	assert.True(t, got.Balance().IsZero())

	msgs := e.rec.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.Message{TransID: tmpl.ID, Date: "2024-05-17", Op: notify.OpSave}, msgs[0])
}

func TestSaveReplacesSplitSet(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	tid := uuid.New()
	header := []ledger.Transaction{{Date: today}}

	first, err := e.svc.Save(ctx, tid, header, []ledger.Split{
		{AccountID: e.id("Checking"), Sum: decimal.NewFromInt(100)},
		{AccountID: e.id("Salary"), Sum: decimal.NewFromInt(-60)},
		{AccountID: e.id("Interest"), Sum: decimal.NewFromInt(-40)},
	})
	require.NoError(t, err)
	keep := first.Splits[0]
	require.NoError(t, e.store.Reconcile(ctx, e.id("Checking"), []ledger.SplitMark{{SplitID: keep.ID, Pending: true}}, nil))

	foreign := uuid.New()
	second, err := e.svc.Save(ctx, tid, header, []ledger.Split{
		{ID: keep.ID, AccountID: keep.AccountID, Sum: keep.Sum},
		{ID: foreign, AccountID: e.id("Salary"), Sum: decimal.NewFromInt(-100)},
	})
	require.NoError(t, err)
	require.Len(t, second.Splits, 2)
	ids := map[uuid.UUID]bool{}
	for _, sp := range second.Splits {
		ids[sp.ID] = true
	}
	assert.True(t, ids[keep.ID], "owned sid is kept")
	assert.False(t, ids[foreign], "unknown sid is replaced")
	assert.False(t, ids[first.Splits[2].ID], "omitted split is removed")

	open, err := e.store.ReconcileSplits(ctx, e.id("Checking"))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.True(t, open[0].Pending, "tag survives on kept split")
}

func TestSaveValidation(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.svc.Save(ctx, uuid.New(), nil, nil)
	ue, ok := errs.AsUser(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidInput, ue.Code)

	_, err = e.svc.Save(ctx, uuid.New(), []ledger.Transaction{{Date: today}}, []ledger.Split{{Sum: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, errs.ErrInvalid)
	assert.Empty(t, e.rec.Messages())
}

func TestCopyIsUnsaved(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	tid := uuid.New()
	src, err := e.svc.Save(ctx, tid, []ledger.Transaction{{Date: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Payee: "Landlord", Reference: "1001"}}, []ledger.Split{
		{AccountID: e.id("Rent"), Sum: decimal.NewFromInt(900)},
		{AccountID: e.id("Checking"), Sum: decimal.NewFromInt(-900)},
	})
	require.NoError(t, err)

	cp, err := e.svc.Copy(ctx, tid)
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, cp.ID)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), cp.Date)
	assert.Equal(t, "Landlord", cp.Payee)
	assert.Equal(t, "1001", cp.Reference)
	require.Len(t, cp.Splits, 2)
	for i, sp := range cp.Splits {
		assert.NotEqual(t, src.Splits[i].ID, sp.ID)
		assert.Equal(t, cp.ID, sp.TransID)
		assert.True(t, src.Splits[i].Sum.Equal(sp.Sum))
	}
	_, err = e.svc.Get(ctx, cp.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeleteNotifies(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	tid := uuid.New()
	date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	_, err := e.svc.Save(ctx, tid, []ledger.Transaction{{Date: date}}, nil)
	require.NoError(t, err)

	require.NoError(t, e.svc.Delete(ctx, tid))
	msgs := e.rec.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, notify.Message{TransID: tid, Date: "2024-02-29", Op: notify.OpDelete}, msgs[1])

	assert.ErrorIs(t, e.svc.Delete(ctx, tid), errs.ErrNotFound)
}

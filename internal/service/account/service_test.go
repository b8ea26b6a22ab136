package account_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/hacc/internal/dictionary"
	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/service/account"
	"github.com/tinoosan/hacc/internal/storage/memory"
)

func setup(t *testing.T) (account.Service, dictionary.Chart) {
	t.Helper()
	store := memory.New()
	c := dictionary.Build()
	require.NoError(t, dictionary.Install(context.Background(), store, c))
	return account.New(store, store), c
}

func TestListFilters(t *testing.T) {
	svc, c := setup(t)
	ctx := context.Background()

	all, err := svc.List(ctx, account.All, "")
	require.NoError(t, err)
	assert.Len(t, all, len(c.Accounts))

	var expense uuid.UUID
	for _, at := range c.Types {
		if at.Name == "Expense" {
			expense = at.ID
		}
	}
	got, err := svc.List(ctx, expense.String(), c.Journal.ID.String())
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, a := range got {
		assert.Equal(t, "Expense", a.TypeName)
	}

	_, err = svc.List(ctx, "nope", "")
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestCompletionsEscapeWildcards(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	got, err := svc.Completions(ctx, "sa")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Salary", got[0].Name)
	assert.Equal(t, "Savings", got[1].Name)

	none, err := svc.Completions(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestByReference(t *testing.T) {
	svc, _ := setup(t)
	got, err := svc.ByReference(context.Background(), "Cash")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Asset", got[0].TypeName)

	_, err = svc.ByReference(context.Background(), " ")
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestPutRequiresExactlyOneRow(t *testing.T) {
	svc, c := setup(t)
	ctx := context.Background()
	tmpl := svc.New(ctx)

	_, err := svc.Put(ctx, tmpl.ID, nil)
	ue, ok := errs.AsUser(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidInput, ue.Code)
	assert.Equal(t, "There must be exactly one row.", ue.Message)

	row := ledger.Account{ID: uuid.New(), Name: "Petty Cash", TypeID: c.Types[0].ID, JournalID: c.Journal.ID}
	saved, err := svc.Put(ctx, tmpl.ID, []ledger.Account{row})
	require.NoError(t, err)
	assert.Equal(t, tmpl.ID, saved.ID, "path id wins")
	assert.Equal(t, "Petty Cash", saved.Name)
}

func TestDeleteUnusedAccount(t *testing.T) {
	svc, c := setup(t)
	ctx := context.Background()
	cash, _ := c.Account("Cash")
	require.NoError(t, svc.Delete(ctx, cash.ID))
	_, err := svc.Get(ctx, cash.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

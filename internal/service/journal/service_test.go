package journal_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/service/journal"
	"github.com/tinoosan/hacc/internal/storage/memory"
)

func TestNewDefaultsName(t *testing.T) {
	svc := journal.New(memory.New(), nil)
	j := svc.New(context.Background())
	assert.Equal(t, journal.DefaultName, j.Name)
	assert.NotEqual(t, uuid.Nil, j.ID)
}

func TestPutUpsertsRows(t *testing.T) {
	store := memory.New()
	svc := journal.New(store, store)
	ctx := context.Background()
	id := uuid.New()
	other := uuid.New()

	_, err := svc.Put(ctx, id, []ledger.Journal{{Name: "Household"}, {ID: other, Name: "Business"}})
	require.NoError(t, err)
	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Household", got.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Business", list[0].Name)

	_, err = svc.Put(ctx, id, nil)
	assert.ErrorIs(t, err, errs.ErrInvalid)
	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

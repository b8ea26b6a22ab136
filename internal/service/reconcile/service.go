// Package reconcile implements the bank reconciliation view and its atomic
// tag updates.
package reconcile

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
)

type Repo interface {
	ReconcileAccount(ctx context.Context, account uuid.UUID) (ledger.ReconcileAccount, error)
	// ReconcileSplits lists the account's splits not tagged reconciled.
	ReconcileSplits(ctx context.Context, account uuid.UUID) ([]ledger.ReconcileSplit, error)
}

type Writer interface {
	// Reconcile applies the tag marks and, when note is non-nil, the account
	// note, all or nothing.
	Reconcile(ctx context.Context, account uuid.UUID, marks []ledger.SplitMark, note *Note) error
}

// Note is the account row of a reconciliation save.
type Note struct {
	RecNote *string
}

// Line is a split in the reconciliation view with its derived columns.
type Line struct {
	ledger.ReconcileSplit
	ledger.DCB
}

// View is the reconciliation state of one account.
type View struct {
	Account ledger.ReconcileAccount
	// PriorBalance is the reconciled total on the account's natural side.
	PriorBalance decimal.Decimal
	Lines        []Line
}

type Service interface {
	Get(ctx context.Context, account uuid.UUID) (View, error)
	Put(ctx context.Context, account uuid.UUID, marks []ledger.SplitMark, note *Note) error
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) Get(ctx context.Context, account uuid.UUID) (View, error) {
	acc, err := s.repo.ReconcileAccount(ctx, account)
	if err != nil {
		return View{}, err
	}
	splits, err := s.repo.ReconcileSplits(ctx, account)
	if err != nil {
		return View{}, err
	}
	v := View{
		Account:      acc,
		PriorBalance: ledger.TypeOriented(acc.DebitAccount, decimal.NewNullDecimal(acc.Reconciled)).Balance.Decimal,
		Lines:        make([]Line, len(splits)),
	}
	for i, sp := range splits {
		v.Lines[i] = Line{ReconcileSplit: sp, DCB: ledger.SignOriented(acc.DebitAccount, decimal.NewNullDecimal(sp.Sum))}
	}
	return v, nil
}

func (s *service) Put(ctx context.Context, account uuid.UUID, marks []ledger.SplitMark, note *Note) error {
	if account == uuid.Nil {
		return errs.Invalid(errs.CodeInvalidInput, "An account is required.")
	}
	return s.writer.Reconcile(ctx, account, marks, note)
}

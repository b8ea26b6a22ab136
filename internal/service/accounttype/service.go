// Package accounttype manages account types.
package accounttype

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
)

type Repo interface {
	// ListAccountTypes returns types ordered by sort.
	ListAccountTypes(ctx context.Context) ([]ledger.AccountType, error)
	GetAccountType(ctx context.Context, id uuid.UUID) (ledger.AccountType, error)
}

type Writer interface {
	PutAccountType(ctx context.Context, t ledger.AccountType) error
}

type Service interface {
	List(ctx context.Context) ([]ledger.AccountType, error)
	New(ctx context.Context) ledger.AccountType
	Get(ctx context.Context, id uuid.UUID) (ledger.AccountType, error)
	Put(ctx context.Context, id uuid.UUID, rows []ledger.AccountType) (ledger.AccountType, error)
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) List(ctx context.Context) ([]ledger.AccountType, error) {
	return s.repo.ListAccountTypes(ctx)
}

// New returns an unsaved debit-natured type with a fresh id.
func (s *service) New(context.Context) ledger.AccountType {
	return ledger.AccountType{ID: uuid.New(), Debit: true}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ledger.AccountType, error) {
	return s.repo.GetAccountType(ctx, id)
}

func (s *service) Put(ctx context.Context, id uuid.UUID, rows []ledger.AccountType) (ledger.AccountType, error) {
	if len(rows) != 1 {
		return ledger.AccountType{}, errs.Invalid(errs.CodeInvalidArgument, "Exactly one account type must be specified.")
	}
	t := rows[0]
	t.ID = id
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return ledger.AccountType{}, errs.Invalid(errs.CodeInvalidArgument, "An account type name is required.")
	}
	if err := s.writer.PutAccountType(ctx, t); err != nil {
		return ledger.AccountType{}, err
	}
	return t, nil
}

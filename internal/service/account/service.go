// Package account implements the account rules: listing with type/journal
// filters, name lookups and completions, single-row upserts, and deletes that
// refuse to orphan splits.
package account

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/search"
)

// All is the filter value meaning "no filter".
const All = "__all__"

type Repo interface {
	ListAccounts(ctx context.Context, f ledger.AccountFilter) ([]ledger.AccountListing, error)
	AccountsByName(ctx context.Context, name string) ([]ledger.AccountListing, error)
	CompleteAccounts(ctx context.Context, pattern string) ([]ledger.AccountListing, error)
	GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error)
}

type Writer interface {
	PutAccount(ctx context.Context, a ledger.Account) error
	// DeleteAccount removes an account with no splits. It returns
	// errs.ErrReferenced when splits exist and errs.ErrNotFound when the id is unknown.
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	List(ctx context.Context, acctype, journal string) ([]ledger.AccountListing, error)
	ByReference(ctx context.Context, name string) ([]ledger.AccountListing, error)
	Completions(ctx context.Context, prefix string) ([]ledger.AccountListing, error)
	New(ctx context.Context) ledger.Account
	Get(ctx context.Context, id uuid.UUID) (ledger.Account, error)
	Put(ctx context.Context, id uuid.UUID, rows []ledger.Account) (ledger.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// ParseFilter reads an optional id filter; empty and All mean unset.
func ParseFilter(v string) (*uuid.UUID, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == All {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, errs.Invalid(errs.CodeInvalidParam, "invalid filter id: "+v)
	}
	return &id, nil
}

func (s *service) List(ctx context.Context, acctype, journal string) ([]ledger.AccountListing, error) {
	typeID, err := ParseFilter(acctype)
	if err != nil {
		return nil, err
	}
	jrnID, err := ParseFilter(journal)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAccounts(ctx, ledger.AccountFilter{TypeID: typeID, JournalID: jrnID})
}

func (s *service) ByReference(ctx context.Context, name string) ([]ledger.AccountListing, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.Invalid(errs.CodeParameterValidation, "An account reference is required.")
	}
	return s.repo.AccountsByName(ctx, name)
}

func (s *service) Completions(ctx context.Context, prefix string) ([]ledger.AccountListing, error) {
	return s.repo.CompleteAccounts(ctx, search.Prefix(prefix))
}

// New returns an unsaved account with a fresh id.
func (s *service) New(context.Context) ledger.Account {
	return ledger.Account{ID: uuid.New()}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// Put upserts exactly one account row under the path id.
func (s *service) Put(ctx context.Context, id uuid.UUID, rows []ledger.Account) (ledger.Account, error) {
	if len(rows) != 1 {
		return ledger.Account{}, errs.Invalid(errs.CodeInvalidInput, "There must be exactly one row.")
	}
	a := rows[0]
	a.ID = id
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return ledger.Account{}, errs.Invalid(errs.CodeInvalidInput, "An account name is required.")
	}
	if a.TypeID == uuid.Nil || a.JournalID == uuid.Nil {
		return ledger.Account{}, errs.Invalid(errs.CodeInvalidInput, "An account type and journal are required.")
	}
	if err := s.writer.PutAccount(ctx, a); err != nil {
		return ledger.Account{}, err
	}
	return s.repo.GetAccount(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.writer.DeleteAccount(ctx, id)
}

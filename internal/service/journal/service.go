// Package journal manages journals, the grouping labels accounts belong to.
package journal

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
)

// DefaultName is the name of a freshly templated journal.
const DefaultName = "My Journal"

type Repo interface {
	ListJournals(ctx context.Context) ([]ledger.Journal, error)
	GetJournal(ctx context.Context, id uuid.UUID) (ledger.Journal, error)
}

type Writer interface {
	PutJournals(ctx context.Context, js []ledger.Journal) error
}

type Service interface {
	List(ctx context.Context) ([]ledger.Journal, error)
	New(ctx context.Context) ledger.Journal
	Get(ctx context.Context, id uuid.UUID) (ledger.Journal, error)
	Put(ctx context.Context, id uuid.UUID, rows []ledger.Journal) ([]ledger.Journal, error)
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) List(ctx context.Context) ([]ledger.Journal, error) {
	return s.repo.ListJournals(ctx)
}

func (s *service) New(context.Context) ledger.Journal {
	return ledger.Journal{ID: uuid.New(), Name: DefaultName}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ledger.Journal, error) {
	return s.repo.GetJournal(ctx, id)
}

// Put upserts one or more journals. A row without an id takes the path id.
func (s *service) Put(ctx context.Context, id uuid.UUID, rows []ledger.Journal) ([]ledger.Journal, error) {
	if len(rows) == 0 {
		return nil, errs.Invalid(errs.CodeInvalidInput, "At least one journal must be specified.")
	}
	out := make([]ledger.Journal, len(rows))
	for i, j := range rows {
		if j.ID == uuid.Nil {
			j.ID = id
		}
		j.Name = strings.TrimSpace(j.Name)
		if j.Name == "" {
			return nil, errs.Invalid(errs.CodeInvalidInput, "A journal name is required.")
		}
		out[i] = j
	}
	if err := s.writer.PutJournals(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

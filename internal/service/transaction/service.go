// Package transaction implements transaction templates, copies, and saves that
// replace a transaction's split set atomically.
package transaction

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/hacc/internal/dates"
	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/notify"
)

type Repo interface {
	// GetTransaction returns the transaction with its splits joined to
	// account and journal names.
	GetTransaction(ctx context.Context, tid uuid.UUID) (ledger.Transaction, error)
}

type Writer interface {
	// SaveTransaction upserts the header and makes t.Splits the complete
	// split set of the transaction in one database transaction.
	SaveTransaction(ctx context.Context, t ledger.Transaction) error
	// DeleteTransaction removes the transaction and its splits, returning the
	// deleted header.
	DeleteTransaction(ctx context.Context, tid uuid.UUID) (ledger.Transaction, error)
}

// Notifier is told about committed changes.
type Notifier interface {
	TransactionChanged(ctx context.Context, op string, tid uuid.UUID, date time.Time)
}

type Service interface {
	New(ctx context.Context) ledger.Transaction
	Get(ctx context.Context, tid uuid.UUID) (ledger.Transaction, error)
	Copy(ctx context.Context, tid uuid.UUID) (ledger.Transaction, error)
	Save(ctx context.Context, tid uuid.UUID, header []ledger.Transaction, splits []ledger.Split) (ledger.Transaction, error)
	Delete(ctx context.Context, tid uuid.UUID) error
}

type service struct {
	repo   Repo
	writer Writer
	notify Notifier
	now    func() time.Time
}

// Option configures the service.
type Option func(*service)

// WithClock overrides the clock used for template dates.
func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

func New(repo Repo, writer Writer, n Notifier, opts ...Option) Service {
	s := &service{repo: repo, writer: writer, notify: n, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) today() time.Time { return dates.Date(s.now()) }

func (s *service) New(context.Context) ledger.Transaction {
	return ledger.Transaction{ID: uuid.New(), Date: s.today(), Splits: []ledger.Split{}}
}

func (s *service) Get(ctx context.Context, tid uuid.UUID) (ledger.Transaction, error) {
	return s.repo.GetTransaction(ctx, tid)
}

// Copy clones tid into an unsaved template dated today with fresh ids.
func (s *service) Copy(ctx context.Context, tid uuid.UUID) (ledger.Transaction, error) {
	src, err := s.repo.GetTransaction(ctx, tid)
	if err != nil {
		return ledger.Transaction{}, err
	}
	out := src
	out.ID = uuid.New()
	out.Date = s.today()
	out.Splits = make([]ledger.Split, len(src.Splits))
	for i, sp := range src.Splits {
		sp.ID = uuid.New()
		sp.TransID = out.ID
		out.Splits[i] = sp
	}
	return out, nil
}

func (s *service) Save(ctx context.Context, tid uuid.UUID, header []ledger.Transaction, splits []ledger.Split) (ledger.Transaction, error) {
	if len(header) != 1 {
		return ledger.Transaction{}, errs.Invalid(errs.CodeInvalidInput, "There must be exactly one transaction row.")
	}
	t := header[0]
	t.ID = tid
	if t.Date.IsZero() {
		return ledger.Transaction{}, errs.Invalid(errs.CodeInvalidInput, "A transaction date is required.")
	}
	t.Date = dates.Date(t.Date)
	t.Reference = strings.TrimSpace(t.Reference)

	owned := map[uuid.UUID]bool{}
	existing, err := s.repo.GetTransaction(ctx, tid)
	switch {
	case err == nil:
		for _, sp := range existing.Splits {
			owned[sp.ID] = true
		}
	case !errors.Is(err, errs.ErrNotFound):
		return ledger.Transaction{}, err
	}

	t.Splits = make([]ledger.Split, len(splits))
	for i, sp := range splits {
		if sp.AccountID == uuid.Nil {
			return ledger.Transaction{}, errs.Invalid(errs.CodeInvalidInput, "Every split needs an account.")
		}
		// A sid is kept only when it already belongs to this transaction.
		if !owned[sp.ID] {
			sp.ID = uuid.New()
		}
		delete(owned, sp.ID)
		sp.TransID = tid
		t.Splits[i] = sp
	}

	if err := s.writer.SaveTransaction(ctx, t); err != nil {
		return ledger.Transaction{}, err
	}
	s.notify.TransactionChanged(ctx, notify.OpSave, tid, t.Date)
	return s.repo.GetTransaction(ctx, tid)
}

func (s *service) Delete(ctx context.Context, tid uuid.UUID) error {
	gone, err := s.writer.DeleteTransaction(ctx, tid)
	if err != nil {
		return err
	}
	s.notify.TransactionChanged(ctx, notify.OpDelete, tid, gone.Date)
	return nil
}

package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/service/reconcile"
)

func (s *Store) GetTransaction(_ context.Context, tid uuid.UUID) (ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[tid]
	if !ok {
		return ledger.Transaction{}, errs.ErrNotFound
	}
	out := t
	out.Splits = make([]ledger.Split, len(t.Splits))
	for i, sp := range t.Splits {
		a := s.accounts[sp.AccountID]
		sp.AccountName = a.Name
		sp.JournalName = s.journals[a.JournalID].Name
		out.Splits[i] = sp
	}
	return out, nil
}

// SaveTransaction upserts t and replaces its split set. Tags on splits that
// leave the set are dropped with them.
func (s *Store) SaveTransaction(_ context.Context, t ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	keep := make(map[uuid.UUID]struct{}, len(t.Splits))
	splits := make([]ledger.Split, len(t.Splits))
	for i, sp := range t.Splits {
		if _, ok := s.accounts[sp.AccountID]; !ok {
			return errs.Invalid(errs.CodeInvalidInput, "A split refers to an account that does not exist.")
		}
		if owner, ok := s.splitOwnerLocked(sp.ID); ok && owner != t.ID {
			return errs.Integrity("A split id belongs to another transaction.")
		}
		sp.TransID = t.ID
		sp.AccountName, sp.JournalName = "", ""
		splits[i] = sp
		keep[sp.ID] = struct{}{}
	}
	if prev, ok := s.transactions[t.ID]; ok {
		for _, sp := range prev.Splits {
			if _, kept := keep[sp.ID]; !kept {
				s.untagLocked(sp.ID)
			}
		}
	}
	t.Splits = splits
	s.transactions[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, tid uuid.UUID) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[tid]
	if !ok {
		return ledger.Transaction{}, errs.ErrNotFound
	}
	for _, sp := range t.Splits {
		s.untagLocked(sp.ID)
	}
	delete(s.transactions, tid)
	t.Splits = nil
	return t, nil
}

func (s *Store) splitOwnerLocked(sid uuid.UUID) (uuid.UUID, bool) {
	for _, t := range s.transactions {
		for _, sp := range t.Splits {
			if sp.ID == sid {
				return t.ID, true
			}
		}
	}
	return uuid.Nil, false
}

func (s *Store) untagLocked(sid uuid.UUID) {
	for _, set := range s.tags {
		delete(set, sid)
	}
}

func (s *Store) tagged(tag string, sid uuid.UUID) bool {
	_, ok := s.tags[tag][sid]
	return ok
}

// --- reconciliation ---

func (s *Store) ReconcileAccount(_ context.Context, account uuid.UUID) (ledger.ReconcileAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[account]
	if !ok {
		return ledger.ReconcileAccount{}, errs.ErrNotFound
	}
	out := ledger.ReconcileAccount{
		ID:           a.ID,
		Name:         a.Name,
		RecNote:      a.RecNote,
		DebitAccount: s.types[a.TypeID].Debit,
		Reconciled:   decimal.Zero,
	}
	for _, t := range s.transactions {
		for _, sp := range t.Splits {
			if sp.AccountID == account && s.tagged(ledger.TagBankReconciled, sp.ID) {
				out.Reconciled = out.Reconciled.Add(sp.Sum)
			}
		}
	}
	return out, nil
}

func (s *Store) ReconcileSplits(_ context.Context, account uuid.UUID) ([]ledger.ReconcileSplit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.ReconcileSplit, 0)
	for _, t := range s.transactions {
		for _, sp := range t.Splits {
			if sp.AccountID != account || s.tagged(ledger.TagBankReconciled, sp.ID) {
				continue
			}
			out = append(out, ledger.ReconcileSplit{
				SplitID:   sp.ID,
				Pending:   s.tagged(ledger.TagBankPending, sp.ID),
				Sum:       sp.Sum,
				Date:      t.Date,
				Reference: t.Reference,
				Payee:     t.Payee,
				Memo:      t.Memo,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Reference != b.Reference {
			return a.Reference < b.Reference
		}
		return a.SplitID.String() < b.SplitID.String()
	})
	return out, nil
}

// Reconcile validates every mark before touching any tag.
func (s *Store) Reconcile(_ context.Context, account uuid.UUID, marks []ledger.SplitMark, note *reconcile.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[account]
	if !ok {
		return errs.ErrNotFound
	}
	for _, m := range marks {
		if _, ok := s.splitOwnerLocked(m.SplitID); !ok {
			return errs.Invalid(errs.CodeInvalidInput, "A marked split does not exist.")
		}
	}
	for _, m := range marks {
		set := func(tag string, on bool) {
			if on {
				s.tags[tag][m.SplitID] = struct{}{}
			} else {
				delete(s.tags[tag], m.SplitID)
			}
		}
		set(ledger.TagBankPending, m.Pending)
		set(ledger.TagBankReconciled, m.Reconciled)
	}
	if note != nil {
		a.RecNote = note.RecNote
		s.accounts[account] = a
	}
	return nil
}

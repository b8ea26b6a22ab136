// Package memory provides an in-memory store used for development and tests.
// It answers every read the Postgres store answers, computing the report
// aggregates in Go instead of SQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/search"
)

// Store is guarded by an RWMutex. Multi-step writes hold the write lock for
// their whole duration so they apply all or nothing.
type Store struct {
	mu           sync.RWMutex
	journals     map[uuid.UUID]ledger.Journal
	types        map[uuid.UUID]ledger.AccountType
	accounts     map[uuid.UUID]ledger.Account
	transactions map[uuid.UUID]ledger.Transaction
	// tags maps a tag name to the set of split ids carrying it.
	tags map[string]map[uuid.UUID]struct{}
}

// New constructs an empty store.
func New() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset drops all data.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journals = map[uuid.UUID]ledger.Journal{}
	s.types = map[uuid.UUID]ledger.AccountType{}
	s.accounts = map[uuid.UUID]ledger.Account{}
	s.transactions = map[uuid.UUID]ledger.Transaction{}
	s.tags = map[string]map[uuid.UUID]struct{}{
		ledger.TagBankPending:    {},
		ledger.TagBankReconciled: {},
	}
}

// Ready always succeeds.
func (s *Store) Ready(context.Context) error { return nil }

// --- journals ---

func (s *Store) ListJournals(context.Context) ([]ledger.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Journal, 0, len(s.journals))
	for _, j := range s.journals {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetJournal(_ context.Context, id uuid.UUID) (ledger.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.journals[id]
	if !ok {
		return ledger.Journal{}, errs.ErrNotFound
	}
	return j, nil
}

func (s *Store) PutJournals(_ context.Context, js []ledger.Journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range js {
		s.journals[j.ID] = j
	}
	return nil
}

// --- account types ---

func (s *Store) ListAccountTypes(context.Context) ([]ledger.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.AccountType, 0, len(s.types))
	for _, t := range s.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sort != out[j].Sort {
			return out[i].Sort < out[j].Sort
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) GetAccountType(_ context.Context, id uuid.UUID) (ledger.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[id]
	if !ok {
		return ledger.AccountType{}, errs.ErrNotFound
	}
	return t, nil
}

func (s *Store) PutAccountType(_ context.Context, t ledger.AccountType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[t.ID] = t
	return nil
}

// --- accounts ---

// listingLocked joins an account to its type and journal.
func (s *Store) listingLocked(a ledger.Account) ledger.AccountListing {
	t := s.types[a.TypeID]
	return ledger.AccountListing{
		ID:           a.ID,
		Name:         a.Name,
		TypeID:       a.TypeID,
		TypeName:     t.Name,
		JournalID:    a.JournalID,
		JournalName:  s.journals[a.JournalID].Name,
		Description:  a.Description,
		BalanceSheet: t.BalanceSheet,
		Debit:        t.Debit,
	}
}

// refLocked is the report presentation of an account.
func (s *Store) refLocked(a ledger.Account) ledger.AccountRef {
	t := s.types[a.TypeID]
	desc, _, _ := strings.Cut(a.Description, "\n")
	return ledger.AccountRef{
		ID:           a.ID,
		Name:         a.Name,
		Description:  desc,
		TypeID:       t.ID,
		TypeName:     t.Name,
		TypeSort:     t.Sort,
		DebitAccount: t.Debit,
		JournalID:    a.JournalID,
		JournalName:  s.journals[a.JournalID].Name,
	}
}

func (s *Store) listings(keep func(ledger.Account) bool) []ledger.AccountListing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.AccountListing, 0)
	for _, a := range s.accounts {
		if keep(a) {
			out = append(out, s.listingLocked(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) ListAccounts(_ context.Context, f ledger.AccountFilter) ([]ledger.AccountListing, error) {
	return s.listings(func(a ledger.Account) bool {
		return (f.TypeID == nil || a.TypeID == *f.TypeID) && (f.JournalID == nil || a.JournalID == *f.JournalID)
	}), nil
}

func (s *Store) AccountsByName(_ context.Context, name string) ([]ledger.AccountListing, error) {
	return s.listings(func(a ledger.Account) bool { return a.Name == name }), nil
}

func (s *Store) CompleteAccounts(_ context.Context, pattern string) ([]ledger.AccountListing, error) {
	return s.listings(func(a ledger.Account) bool { return search.Match(pattern, a.Name) }), nil
}

func (s *Store) GetAccount(_ context.Context, id uuid.UUID) (ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return ledger.Account{}, errs.ErrNotFound
	}
	return a, nil
}

func (s *Store) AccountListing(_ context.Context, id uuid.UUID) (ledger.AccountListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return ledger.AccountListing{}, errs.ErrNotFound
	}
	return s.listingLocked(a), nil
}

func (s *Store) PutAccount(_ context.Context, a ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[a.TypeID]; !ok {
		return errs.Invalid(errs.CodeInvalidInput, "The account type does not exist.")
	}
	if _, ok := s.journals[a.JournalID]; !ok {
		return errs.Invalid(errs.CodeInvalidInput, "The journal does not exist.")
	}
	if a.RetearnID != nil {
		if _, ok := s.accounts[*a.RetearnID]; !ok && *a.RetearnID != a.ID {
			return errs.Invalid(errs.CodeInvalidInput, "The retained earnings account does not exist.")
		}
	}
	for _, other := range s.accounts {
		if other.ID != a.ID && other.Name == a.Name {
			return errs.Integrity("An account with this name already exists.")
		}
	}
	// rec_note belongs to reconciliation and survives account edits.
	if prev, ok := s.accounts[a.ID]; ok {
		a.RecNote = prev.RecNote
	}
	s.accounts[a.ID] = a
	return nil
}

// DeleteAccount refuses to delete an account any split still references.
func (s *Store) DeleteAccount(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return errs.ErrNotFound
	}
	for _, t := range s.transactions {
		for _, sp := range t.Splits {
			if sp.AccountID == id {
				return errs.ErrReferenced
			}
		}
	}
	for _, a := range s.accounts {
		if a.ID != id && a.RetearnID != nil && *a.RetearnID == id {
			return errs.Integrity("Other accounts close into this account.")
		}
	}
	delete(s.accounts, id)
	return nil
}

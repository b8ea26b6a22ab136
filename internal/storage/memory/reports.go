package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/search"
)

// balanceAsOfLocked sums splits dated on or before d per account, closing
// income-statement accounts into their retained earnings account and dropping
// accounts that net to exactly zero.
func (s *Store) balanceAsOfLocked(d time.Time) map[uuid.UUID]decimal.Decimal {
	sums := map[uuid.UUID]decimal.Decimal{}
	for _, t := range s.transactions {
		if t.Date.After(d) {
			continue
		}
		for _, sp := range t.Splits {
			a, ok := s.accounts[sp.AccountID]
			if !ok {
				continue
			}
			target := a.ID
			if !s.types[a.TypeID].BalanceSheet {
				if a.RetearnID == nil {
					continue
				}
				target = *a.RetearnID
			}
			if _, ok := s.accounts[target]; !ok {
				continue
			}
			sums[target] = sums[target].Add(sp.Sum)
		}
	}
	for id, v := range sums {
		if v.IsZero() {
			delete(sums, id)
		}
	}
	return sums
}

func bySortThenName(rows []ledger.BalanceRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].AccountRef, rows[j].AccountRef
		if a.TypeSort != b.TypeSort {
			return a.TypeSort < b.TypeSort
		}
		return a.Name < b.Name
	})
}

func (s *Store) BalanceSheet(_ context.Context, d time.Time) ([]ledger.BalanceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sums := s.balanceAsOfLocked(d)
	out := make([]ledger.BalanceRow, 0, len(sums))
	for id, v := range sums {
		out = append(out, ledger.BalanceRow{AccountRef: s.refLocked(s.accounts[id]), Debit: decimal.NewNullDecimal(v)})
	}
	bySortThenName(out)
	return out, nil
}

// MultiBalance returns one row per account present in any period; periods in
// which the account nets to zero stay null.
func (s *Store) MultiBalance(_ context.Context, periods []time.Time) ([]ledger.MultiBalanceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := map[uuid.UUID]*ledger.MultiBalanceRow{}
	for i, d := range periods {
		for id, v := range s.balanceAsOfLocked(d) {
			r, ok := rows[id]
			if !ok {
				r = &ledger.MultiBalanceRow{AccountRef: s.refLocked(s.accounts[id]), Debits: make([]decimal.NullDecimal, len(periods))}
				rows[id] = r
			}
			r.Debits[i] = decimal.NewNullDecimal(v)
		}
	}
	out := make([]ledger.MultiBalanceRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JournalName != out[j].JournalName {
			return out[i].JournalName < out[j].JournalName
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) CurrentBalanceAccounts(_ context.Context, d, from, to time.Time) ([]ledger.BalanceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sums := s.balanceAsOfLocked(d)
	recent := map[uuid.UUID]bool{}
	for _, t := range s.transactions {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		for _, sp := range t.Splits {
			recent[sp.AccountID] = true
		}
	}
	out := make([]ledger.BalanceRow, 0)
	for _, a := range s.accounts {
		if !s.types[a.TypeID].BalanceSheet {
			continue
		}
		v, held := sums[a.ID]
		if !held && !recent[a.ID] {
			continue
		}
		row := ledger.BalanceRow{AccountRef: s.refLocked(a)}
		if held {
			row.Debit = decimal.NewNullDecimal(v)
		}
		out = append(out, row)
	}
	bySortThenName(out)
	return out, nil
}

func (s *Store) ProfitAndLoss(_ context.Context, d1, d2 time.Time) ([]ledger.BalanceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sums := map[uuid.UUID]decimal.Decimal{}
	for _, t := range s.transactions {
		if t.Date.Before(d1) || t.Date.After(d2) {
			continue
		}
		for _, sp := range t.Splits {
			a, ok := s.accounts[sp.AccountID]
			if !ok || s.types[a.TypeID].BalanceSheet {
				continue
			}
			sums[a.ID] = sums[a.ID].Add(sp.Sum)
		}
	}
	out := make([]ledger.BalanceRow, 0, len(sums))
	for id, v := range sums {
		if v.IsZero() {
			continue
		}
		out = append(out, ledger.BalanceRow{AccountRef: s.refLocked(s.accounts[id]), Debit: decimal.NewNullDecimal(v)})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].AccountRef, out[j].AccountRef
		if a.TypeSort != b.TypeSort {
			return a.TypeSort < b.TypeSort
		}
		if a.JournalName != b.JournalName {
			return a.JournalName < b.JournalName
		}
		return a.Name < b.Name
	})
	return out, nil
}

func (s *Store) linesLocked(f ledger.LineFilter) []ledger.SplitLine {
	out := make([]ledger.SplitLine, 0)
	for _, t := range s.transactions {
		if t.Date.Before(f.From) || t.Date.After(f.To) {
			continue
		}
		if f.PayeeLike != "" && !search.Match(f.PayeeLike, t.Payee) {
			continue
		}
		if f.MemoLike != "" && !search.Match(f.MemoLike, t.Memo) {
			continue
		}
		for _, sp := range t.Splits {
			a, ok := s.accounts[sp.AccountID]
			if !ok {
				continue
			}
			if f.AccountID != nil && a.ID != *f.AccountID {
				continue
			}
			if f.TypeID != nil && a.TypeID != *f.TypeID {
				continue
			}
			if f.IncomeOnly && s.types[a.TypeID].BalanceSheet {
				continue
			}
			out = append(out, ledger.SplitLine{
				TransID:   t.ID,
				SplitID:   sp.ID,
				Date:      t.Date,
				Reference: t.Reference,
				Payee:     t.Payee,
				Memo:      t.Memo,
				Account:   s.refLocked(a),
				Sum:       sp.Sum,
			})
		}
	}
	return out
}

func lineLess(a, b ledger.SplitLine) bool {
	switch {
	case !a.Date.Equal(b.Date):
		return a.Date.Before(b.Date)
	case a.Reference != b.Reference:
		return a.Reference < b.Reference
	case a.Payee != b.Payee:
		return a.Payee < b.Payee
	case a.Memo != b.Memo:
		return a.Memo < b.Memo
	case a.Account.Name != b.Account.Name:
		return a.Account.Name < b.Account.Name
	}
	return a.SplitID.String() < b.SplitID.String()
}

func (s *Store) TransactionLines(_ context.Context, f ledger.LineFilter) ([]ledger.SplitLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.linesLocked(f)
	sort.Slice(out, func(i, j int) bool { return lineLess(out[i], out[j]) })
	return out, nil
}

func (s *Store) DetailedPL(_ context.Context, d1, d2 time.Time) ([]ledger.SplitLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.linesLocked(ledger.LineFilter{From: d1, To: d2, IncomeOnly: true})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Account.TypeSort != out[j].Account.TypeSort {
			return out[i].Account.TypeSort < out[j].Account.TypeSort
		}
		return lineLess(out[i], out[j])
	})
	return out, nil
}

func (s *Store) AccountBalanceBefore(_ context.Context, account uuid.UUID, d time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, t := range s.transactions {
		if !t.Date.Before(d) {
			continue
		}
		for _, sp := range t.Splits {
			if sp.AccountID == account {
				total = total.Add(sp.Sum)
			}
		}
	}
	return total, nil
}

// UnbalancedTransactions keeps the transactions whose splits do not net to
// zero. The journal column lists every journal the splits touch.
func (s *Store) UnbalancedTransactions(context.Context) ([]ledger.UnbalancedTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.UnbalancedTransaction, 0)
	for _, t := range s.transactions {
		var sum decimal.Decimal
		journals := map[string]struct{}{}
		for _, sp := range t.Splits {
			a, ok := s.accounts[sp.AccountID]
			if !ok {
				continue
			}
			sum = sum.Add(sp.Sum)
			journals[s.journals[a.JournalID].Name] = struct{}{}
		}
		if len(journals) == 0 || sum.IsZero() {
			continue
		}
		names := make([]string, 0, len(journals))
		for n := range journals {
			names = append(names, n)
		}
		sort.Strings(names)
		out = append(out, ledger.UnbalancedTransaction{
			TransID:     t.ID,
			Payee:       t.Payee,
			Memo:        t.Memo,
			Date:        t.Date,
			JournalName: strings.Join(names, ", "),
			Unbalance:   sum,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TransID.String() < out[j].TransID.String()
	})
	return out, nil
}

func (s *Store) TransactionYears(context.Context) ([]ledger.YearCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[int]int{}
	for _, t := range s.transactions {
		counts[t.Date.Year()]++
	}
	out := make([]ledger.YearCount, 0, len(counts))
	for y, c := range counts {
		out = append(out, ledger.YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/query"
)

func scanBalance(rows pgx.Rows) (ledger.BalanceRow, error) {
	var b ledger.BalanceRow
	err := rows.Scan(append(refDest(&b.AccountRef), &b.Debit)...)
	return b, err
}

func (s *Store) BalanceSheet(ctx context.Context, d time.Time) ([]ledger.BalanceRow, error) {
	return collect(ctx, s.pool, query.BalanceSheet(d), scanBalance)
}

func (s *Store) MultiBalance(ctx context.Context, periods []time.Time) ([]ledger.MultiBalanceRow, error) {
	f, err := query.MultiBalance(periods)
	if err != nil {
		return nil, err
	}
	return collect(ctx, s.pool, f, func(rows pgx.Rows) (ledger.MultiBalanceRow, error) {
		m := ledger.MultiBalanceRow{Debits: make([]decimal.NullDecimal, len(periods))}
		dest := refDest(&m.AccountRef)
		for i := range m.Debits {
			dest = append(dest, &m.Debits[i])
		}
		err := rows.Scan(dest...)
		return m, err
	})
}

func (s *Store) CurrentBalanceAccounts(ctx context.Context, d, from, to time.Time) ([]ledger.BalanceRow, error) {
	return collect(ctx, s.pool, query.CurrentBalanceAccounts(d, from, to), scanBalance)
}

func (s *Store) ProfitAndLoss(ctx context.Context, d1, d2 time.Time) ([]ledger.BalanceRow, error) {
	return collect(ctx, s.pool, query.ProfitAndLoss(d1, d2), scanBalance)
}

func scanLine(rows pgx.Rows) (ledger.SplitLine, error) {
	var l ledger.SplitLine
	dest := []any{&l.TransID, &l.SplitID, &l.Date, &l.Reference, &l.Payee, &l.Memo}
	dest = append(dest, refDest(&l.Account)...)
	err := rows.Scan(append(dest, &l.Sum)...)
	return l, err
}

func (s *Store) TransactionLines(ctx context.Context, f ledger.LineFilter) ([]ledger.SplitLine, error) {
	return collect(ctx, s.pool, query.TransactionLines(f), scanLine)
}

func (s *Store) DetailedPL(ctx context.Context, d1, d2 time.Time) ([]ledger.SplitLine, error) {
	return collect(ctx, s.pool, query.DetailedPL(d1, d2), scanLine)
}

func (s *Store) AccountBalanceBefore(ctx context.Context, account uuid.UUID, d time.Time) (decimal.Decimal, error) {
	sql, args := query.AccountBalanceBefore(account, d).Build()
	var total decimal.Decimal
	err := s.pool.QueryRow(ctx, sql, args...).Scan(&total)
	return total, err
}

func (s *Store) UnbalancedTransactions(ctx context.Context) ([]ledger.UnbalancedTransaction, error) {
	return collect(ctx, s.pool, query.UnbalancedTransactions(), func(rows pgx.Rows) (ledger.UnbalancedTransaction, error) {
		var u ledger.UnbalancedTransaction
		err := rows.Scan(&u.TransID, &u.Payee, &u.Memo, &u.Date, &u.JournalName, &u.Unbalance)
		return u, err
	})
}

func (s *Store) TransactionYears(ctx context.Context) ([]ledger.YearCount, error) {
	return collect(ctx, s.pool, query.TransactionYears(), func(rows pgx.Rows) (ledger.YearCount, error) {
		var y ledger.YearCount
		err := rows.Scan(&y.Year, &y.Count)
		return y, err
	})
}

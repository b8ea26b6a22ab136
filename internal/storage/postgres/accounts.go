package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/query"
)

// --- journals ---

func (s *Store) ListJournals(ctx context.Context) ([]ledger.Journal, error) {
	return collect(ctx, s.pool, query.New("select id, jrn_name from hacc.journals order by jrn_name"), scanJournal)
}

func scanJournal(rows pgx.Rows) (ledger.Journal, error) {
	var j ledger.Journal
	err := rows.Scan(&j.ID, &j.Name)
	return j, err
}

func (s *Store) GetJournal(ctx context.Context, id uuid.UUID) (ledger.Journal, error) {
	var j ledger.Journal
	err := s.pool.QueryRow(ctx, `select id, jrn_name from hacc.journals where id=$1`, id).Scan(&j.ID, &j.Name)
	return j, notFound(err)
}

// PutJournals upserts every journal in one transaction.
func (s *Store) PutJournals(ctx context.Context, js []ledger.Journal) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		for _, j := range js {
			if _, err := tx.Exec(ctx, `
				insert into hacc.journals (id, jrn_name) values ($1, $2)
				on conflict (id) do update set jrn_name=excluded.jrn_name
			`, j.ID, j.Name); err != nil {
				return writeErr(err)
			}
		}
		return nil
	})
}

// --- account types ---

const accountTypeSelect = `select id, atype_name, balance_sheet, debit, sort from hacc.accounttypes`

func scanAccountType(rows pgx.Rows) (ledger.AccountType, error) {
	var t ledger.AccountType
	err := rows.Scan(&t.ID, &t.Name, &t.BalanceSheet, &t.Debit, &t.Sort)
	return t, err
}

func (s *Store) ListAccountTypes(ctx context.Context) ([]ledger.AccountType, error) {
	return collect(ctx, s.pool, query.New(accountTypeSelect+" order by sort, atype_name"), scanAccountType)
}

func (s *Store) GetAccountType(ctx context.Context, id uuid.UUID) (ledger.AccountType, error) {
	var t ledger.AccountType
	err := s.pool.QueryRow(ctx, accountTypeSelect+" where id=$1", id).Scan(&t.ID, &t.Name, &t.BalanceSheet, &t.Debit, &t.Sort)
	return t, notFound(err)
}

func (s *Store) PutAccountType(ctx context.Context, t ledger.AccountType) error {
	_, err := s.pool.Exec(ctx, `
		insert into hacc.accounttypes (id, atype_name, balance_sheet, debit, sort)
		values ($1, $2, $3, $4, $5)
		on conflict (id) do update set
			atype_name=excluded.atype_name, balance_sheet=excluded.balance_sheet,
			debit=excluded.debit, sort=excluded.sort
	`, t.ID, t.Name, t.BalanceSheet, t.Debit, t.Sort)
	return writeErr(err)
}

// --- accounts ---

func scanListing(rows pgx.Rows) (ledger.AccountListing, error) {
	var a ledger.AccountListing
	err := rows.Scan(&a.ID, &a.Name, &a.TypeID, &a.TypeName, &a.JournalID, &a.JournalName,
		&a.Description, &a.BalanceSheet, &a.Debit)
	return a, err
}

func (s *Store) ListAccounts(ctx context.Context, f ledger.AccountFilter) ([]ledger.AccountListing, error) {
	return collect(ctx, s.pool, query.AccountList(f), scanListing)
}

func (s *Store) AccountsByName(ctx context.Context, name string) ([]ledger.AccountListing, error) {
	return collect(ctx, s.pool, query.AccountByName(name), scanListing)
}

func (s *Store) CompleteAccounts(ctx context.Context, pattern string) ([]ledger.AccountListing, error) {
	return collect(ctx, s.pool, query.AccountCompletions(pattern), scanListing)
}

func (s *Store) AccountListing(ctx context.Context, id uuid.UUID) (ledger.AccountListing, error) {
	rows, err := collect(ctx, s.pool, query.AccountByID(id), scanListing)
	if err != nil {
		return ledger.AccountListing{}, err
	}
	if len(rows) == 0 {
		return ledger.AccountListing{}, errs.ErrNotFound
	}
	return rows[0], nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	var a ledger.Account
	err := s.pool.QueryRow(ctx, `
		select id, acc_name, type_id, journal_id, retearn_id, coalesce(description, ''), rec_note
		from hacc.accounts
		where id=$1
	`, id).Scan(&a.ID, &a.Name, &a.TypeID, &a.JournalID, &a.RetearnID, &a.Description, &a.RecNote)
	return a, notFound(err)
}

// PutAccount upserts an account. rec_note is only written on insert; edits
// leave it to reconciliation.
func (s *Store) PutAccount(ctx context.Context, a ledger.Account) error {
	_, err := s.pool.Exec(ctx, `
		insert into hacc.accounts (id, acc_name, type_id, journal_id, retearn_id, description, rec_note)
		values ($1, $2, $3, $4, $5, nullif($6, ''), $7)
		on conflict (id) do update set
			acc_name=excluded.acc_name, type_id=excluded.type_id, journal_id=excluded.journal_id,
			retearn_id=excluded.retearn_id, description=excluded.description
	`, a.ID, a.Name, a.TypeID, a.JournalID, a.RetearnID, a.Description, a.RecNote)
	return writeErr(err)
}

// DeleteAccount checks for referencing splits inside the delete transaction.
func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var used, closing bool
		if err := tx.QueryRow(ctx, `
			select
				exists(select 1 from hacc.splits where account_id=$1),
				exists(select 1 from hacc.accounts where retearn_id=$1 and id<>$1)
		`, id).Scan(&used, &closing); err != nil {
			return err
		}
		if used {
			return errs.ErrReferenced
		}
		if closing {
			return errs.Integrity("Other accounts close into this account.")
		}
		ct, err := tx.Exec(ctx, `delete from hacc.accounts where id=$1`, id)
		if err != nil {
			return deleteErr(err)
		}
		if ct.RowsAffected() == 0 {
			return errs.ErrNotFound
		}
		return nil
	})
}

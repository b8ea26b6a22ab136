package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/query"
	"github.com/tinoosan/hacc/internal/service/reconcile"
)

func getHeader(ctx context.Context, db dbtx, tid uuid.UUID) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := db.QueryRow(ctx, `
		select tid, trandate, coalesce(tranref, ''), coalesce(payee, ''), coalesce(memo, '')
		from hacc.transactions
		where tid=$1
	`, tid).Scan(&t.ID, &t.Date, &t.Reference, &t.Payee, &t.Memo)
	return t, notFound(err)
}

func (s *Store) GetTransaction(ctx context.Context, tid uuid.UUID) (ledger.Transaction, error) {
	t, err := getHeader(ctx, s.pool, tid)
	if err != nil {
		return ledger.Transaction{}, err
	}
	t.Splits, err = collect(ctx, s.pool, query.New(`select splits.sid, splits.stid, splits.account_id, splits.sum,
	accounts.acc_name, journals.jrn_name
from hacc.splits
join hacc.accounts on accounts.id=splits.account_id
join hacc.journals on journals.id=accounts.journal_id
where splits.stid=?
order by splits.sum desc, splits.sid`, tid), func(rows pgx.Rows) (ledger.Split, error) {
		var sp ledger.Split
		err := rows.Scan(&sp.ID, &sp.TransID, &sp.AccountID, &sp.Sum, &sp.AccountName, &sp.JournalName)
		return sp, err
	})
	if err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

// SaveTransaction upserts the header and replaces the split set. Splits left
// out of t.Splits are deleted, taking their tags with them.
func (s *Store) SaveTransaction(ctx context.Context, t ledger.Transaction) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			insert into hacc.transactions (tid, trandate, tranref, payee, memo)
			values ($1, $2, nullif($3, ''), nullif($4, ''), nullif($5, ''))
			on conflict (tid) do update set
				trandate=excluded.trandate, tranref=excluded.tranref,
				payee=excluded.payee, memo=excluded.memo
		`, t.ID, t.Date, t.Reference, t.Payee, t.Memo); err != nil {
			return writeErr(err)
		}

		keep := make([]uuid.UUID, len(t.Splits))
		for i, sp := range t.Splits {
			keep[i] = sp.ID
		}
		if _, err := tx.Exec(ctx, `delete from hacc.splits where stid=$1 and not (sid = any($2))`, t.ID, keep); err != nil {
			return err
		}

		for _, sp := range t.Splits {
			ct, err := tx.Exec(ctx, `
				insert into hacc.splits (sid, stid, account_id, sum)
				values ($1, $2, $3, $4)
				on conflict (sid) do update set account_id=excluded.account_id, sum=excluded.sum
				where splits.stid=excluded.stid
			`, sp.ID, t.ID, sp.AccountID, sp.Sum)
			if pgCode(err) == codeForeignKey {
				return errs.Invalid(errs.CodeInvalidInput, "A split refers to an account that does not exist.")
			}
			if err != nil {
				return err
			}
			if ct.RowsAffected() == 0 {
				return errs.Integrity("A split id belongs to another transaction.")
			}
		}
		return nil
	})
}

// DeleteTransaction deletes the splits, then the header.
func (s *Store) DeleteTransaction(ctx context.Context, tid uuid.UUID) (ledger.Transaction, error) {
	var gone ledger.Transaction
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		t, err := getHeader(ctx, tx, tid)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `delete from hacc.splits where stid=$1`, tid); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `delete from hacc.transactions where tid=$1`, tid); err != nil {
			return err
		}
		gone = t
		return nil
	})
	return gone, err
}

// --- reconciliation ---

func (s *Store) ReconcileAccount(ctx context.Context, account uuid.UUID) (ledger.ReconcileAccount, error) {
	sql, args := query.ReconcileAccount(account).Build()
	var a ledger.ReconcileAccount
	err := s.pool.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.Name, &a.RecNote, &a.DebitAccount, &a.Reconciled)
	return a, notFound(err)
}

func (s *Store) ReconcileSplits(ctx context.Context, account uuid.UUID) ([]ledger.ReconcileSplit, error) {
	return collect(ctx, s.pool, query.ReconcileSplits(account), func(rows pgx.Rows) (ledger.ReconcileSplit, error) {
		var r ledger.ReconcileSplit
		err := rows.Scan(&r.SplitID, &r.Pending, &r.Reconciled, &r.Sum, &r.Date, &r.Reference, &r.Payee, &r.Memo)
		return r, err
	})
}

// Reconcile applies every mark and the optional note in one transaction.
func (s *Store) Reconcile(ctx context.Context, account uuid.UUID, marks []ledger.SplitMark, note *reconcile.Note) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `select exists(select 1 from hacc.accounts where id=$1)`, account).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return errs.ErrNotFound
		}
		sids := make([]uuid.UUID, len(marks))
		for i, m := range marks {
			sids[i] = m.SplitID
		}
		var missing bool
		if err := tx.QueryRow(ctx, `
			select exists(
				select 1 from unnest($1::uuid[]) as m(sid)
				where not exists(select 1 from hacc.splits where splits.sid=m.sid)
			)
		`, sids).Scan(&missing); err != nil {
			return err
		}
		if missing {
			return errs.Invalid(errs.CodeInvalidInput, "A marked split does not exist.")
		}
		for _, m := range marks {
			for _, tag := range []struct {
				name string
				on   bool
			}{{ledger.TagBankPending, m.Pending}, {ledger.TagBankReconciled, m.Reconciled}} {
				if err := setTag(ctx, tx, tag.name, m.SplitID, tag.on); err != nil {
					return err
				}
			}
		}
		if note != nil {
			if _, err := tx.Exec(ctx, `update hacc.accounts set rec_note=$1 where id=$2`, note.RecNote, account); err != nil {
				return err
			}
		}
		return nil
	})
}

func setTag(ctx context.Context, tx pgx.Tx, tag string, sid uuid.UUID, on bool) error {
	if !on {
		_, err := tx.Exec(ctx, `
			delete from hacc.tagsplits
			where split_id=$1 and tag_id=(select id from hacc.tags where tag_name=$2)
		`, sid, tag)
		return err
	}
	_, err := tx.Exec(ctx, `
		insert into hacc.tagsplits (tag_id, split_id)
		select id, $1 from hacc.tags where tag_name=$2
		on conflict do nothing
	`, sid, tag)
	return err
}

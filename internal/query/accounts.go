package query

import (
	"github.com/google/uuid"
	"github.com/tinoosan/hacc/internal/ledger"
)

const accountListing = `select accounts.id, accounts.acc_name,
	accounttypes.id as atype_id, accounttypes.atype_name,
	journals.id as jrn_id, journals.jrn_name,
	coalesce(accounts.description, '') as description,
	accounttypes.balance_sheet, accounttypes.debit
from hacc.accounts
` + accountJoins

// AccountList lists accounts, optionally restricted to a type and/or journal.
func AccountList(f ledger.AccountFilter) Fragment {
	var conds []Fragment
	if f.TypeID != nil {
		conds = append(conds, New("accounts.type_id=?", *f.TypeID))
	}
	if f.JournalID != nil {
		conds = append(conds, New("accounts.journal_id=?", *f.JournalID))
	}
	return New(accountListing).Append(
		And(conds...).Wrap("where ", ""),
		New("order by accounts.acc_name"),
	)
}

// AccountByName finds accounts whose name equals name exactly.
func AccountByName(name string) Fragment {
	return New(accountListing).Append(New("where accounts.acc_name=?", name))
}

// AccountByID is the listing row of one account.
func AccountByID(id uuid.UUID) Fragment {
	return New(accountListing).Append(New("where accounts.id=?", id))
}

// AccountCompletions lists accounts whose name matches an ilike pattern.
func AccountCompletions(pattern string) Fragment {
	return New(accountListing).Append(
		New("where accounts.acc_name ilike ?", pattern),
		New("order by accounts.acc_name"),
	)
}

// ReconcileAccount is the reconciliation header of an account: its natural
// side and the raw signed sum of splits tagged reconciled.
func ReconcileAccount(account uuid.UUID) Fragment {
	return New(`select accounts.id, accounts.acc_name, accounts.rec_note,
	accounttypes.debit as debit_account,
	coalesce(reconciled.summary, 0) as reconciled
from hacc.accounts
join hacc.accounttypes on accounttypes.id=accounts.type_id
left outer join lateral (
	select sum(splits.sum) as summary
	from hacc.splits
	join hacc.tagsplits tsrec on tsrec.split_id=splits.sid
		and tsrec.tag_id=(select id from hacc.tags where tag_name=?)
	where splits.account_id=accounts.id
) reconciled on true
where accounts.id=?`, ledger.TagBankReconciled, account)
}

// ReconcileSplits lists an account's splits that are not tagged reconciled,
// flagging the ones tagged pending.
func ReconcileSplits(account uuid.UUID) Fragment {
	return New(`select
	splits.sid,
	tspend.split_id is not null as pending,
	tsrec.split_id is not null as reconciled,
	splits.sum,
	transactions.trandate as date,
	coalesce(transactions.tranref, '') as reference,
	coalesce(transactions.payee, '') as payee,
	coalesce(transactions.memo, '') as memo
from hacc.splits
left outer join hacc.tagsplits tspend on tspend.split_id=splits.sid
	and tspend.tag_id=(select id from hacc.tags where tag_name=?)
left outer join hacc.tagsplits tsrec on tsrec.split_id=splits.sid
	and tsrec.tag_id=(select id from hacc.tags where tag_name=?)
join hacc.transactions on splits.stid=transactions.tid
where splits.account_id=? and tsrec.split_id is null
order by transactions.trandate, transactions.tranref, splits.sid`,
		ledger.TagBankPending, ledger.TagBankReconciled, account)
}

package query

import (
	"time"

	"github.com/google/uuid"
	"github.com/tinoosan/hacc/internal/ledger"
)

// LineColumns is the scan order of split-line statements; the account
// presentation columns (AccountColumns) follow, then the split sum.
var LineColumns = []string{"tid", "sid", "date", "reference", "payee", "memo"}

const lineSelect = `select
	transactions.tid, splits.sid,
	transactions.trandate as date,
	coalesce(transactions.tranref, '') as reference,
	coalesce(transactions.payee, '') as payee,
	coalesce(transactions.memo, '') as memo,
	` + accountSelect + `,
	splits.sum
from hacc.transactions
join hacc.splits on splits.stid=transactions.tid
join hacc.accounts on splits.account_id=accounts.id
` + accountJoins

func lineWhere(f ledger.LineFilter) Fragment {
	conds := []Fragment{New("transactions.trandate between ? and ?", f.From, f.To)}
	if f.AccountID != nil {
		conds = append(conds, New("accounts.id=?", *f.AccountID))
	}
	if f.TypeID != nil {
		conds = append(conds, New("accounts.type_id=?", *f.TypeID))
	}
	if f.PayeeLike != "" {
		conds = append(conds, New("transactions.payee ilike ?", f.PayeeLike))
	}
	if f.MemoLike != "" {
		conds = append(conds, New("transactions.memo ilike ?", f.MemoLike))
	}
	if f.IncomeOnly {
		conds = append(conds, New("not accounttypes.balance_sheet"))
	}
	return And(conds...).Wrap("where ", "")
}

// TransactionLines lists split lines matching f in date order.
func TransactionLines(f ledger.LineFilter) Fragment {
	return New(lineSelect).Append(
		lineWhere(f),
		New(`order by transactions.trandate, transactions.tranref,
	transactions.payee, transactions.memo, accounts.acc_name, splits.sid`),
	)
}

// DetailedPL lists the income-statement split lines between d1 and d2,
// grouped by account type sort.
func DetailedPL(d1, d2 time.Time) Fragment {
	f := ledger.LineFilter{From: d1, To: d2, IncomeOnly: true}
	return New(lineSelect).Append(
		lineWhere(f),
		New(`order by accounttypes.sort, transactions.trandate, transactions.tranref,
	transactions.payee, transactions.memo, accounts.acc_name, splits.sid`),
	)
}

// AccountBalanceBefore is the signed sum of an account's splits dated before d.
func AccountBalanceBefore(account uuid.UUID, d time.Time) Fragment {
	return New(`select coalesce(sum(splits.sum), 0)
from hacc.splits
join hacc.transactions on transactions.tid=splits.stid
where splits.account_id=? and transactions.trandate<?`, account, d)
}

// UnbalancedTransactions lists transactions whose splits do not sum to zero.
// Journal names of the touched accounts are joined into one column.
func UnbalancedTransactions() Fragment {
	return New(`select
	transactions.tid,
	coalesce(transactions.payee, '') as payee,
	coalesce(transactions.memo, '') as memo,
	transactions.trandate,
	string_agg(distinct journals.jrn_name, ', ' order by journals.jrn_name) as jrn_name,
	sum(splits.sum) as unbalance
from hacc.accounts
join hacc.splits on splits.account_id=accounts.id
join hacc.transactions on transactions.tid=splits.stid
join hacc.journals on journals.id=accounts.journal_id
group by transactions.tid, transactions.payee, transactions.memo, transactions.trandate
having sum(splits.sum)<>0
order by transactions.trandate, transactions.tid`)
}

// TransactionYears counts transactions per calendar year.
func TransactionYears() Fragment {
	return New(`select extract(year from trandate)::int as year, count(*)::int as count
from hacc.transactions
group by 1
order by 1`)
}

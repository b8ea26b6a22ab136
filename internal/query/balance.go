package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/tinoosan/hacc/internal/errs"
)

// AccountColumns are the presentation columns every balance statement selects,
// in scan order, ahead of the signed amount column(s).
var AccountColumns = []string{
	"description", "id", "acc_name",
	"atype_id", "atype_name", "atype_sort", "debit_account",
	"jrn_id", "jrn_name",
}

const accountSelect = `coalesce(split_part(accounts.description, E'\n', 1), '') as description,
	accounts.id, accounts.acc_name,
	accounttypes.id as atype_id, accounttypes.atype_name, accounttypes.sort as atype_sort,
	accounttypes.debit as debit_account,
	journals.id as jrn_id, journals.jrn_name`

const accountJoins = `join hacc.accounttypes on accounttypes.id=accounts.type_id
join hacc.journals on journals.id=accounts.journal_id`

// balanceAsOf closes income-statement balances into the account's retained
// earnings account and drops accounts netting to exactly zero.
const balanceAsOf = `with balances as (
	select accounts.id, accounts.type_id, accounts.retearn_id, sum(splits.sum) as debit
	from hacc.accounts
	join hacc.splits on splits.account_id=accounts.id
	join hacc.transactions on transactions.tid=splits.stid
	where transactions.trandate<=?
	group by accounts.id, accounts.type_id, accounts.retearn_id
), balsheet as (
	select
		case when accounttypes.balance_sheet then balances.id else ret.id end as account_id,
		balances.debit
	from balances
	join hacc.accounttypes on accounttypes.id=balances.type_id
	left outer join hacc.accounts ret on ret.id=balances.retearn_id
)
select ` + accountSelect + `,
	balsheet.debit
from (
	select balsheet.account_id, sum(balsheet.debit) as debit
	from balsheet
	group by balsheet.account_id
	having sum(balsheet.debit) <> 0
) balsheet
join hacc.accounts on accounts.id=balsheet.account_id
` + accountJoins

// BalanceAsOf is the per-account signed balance as of d, inclusive.
func BalanceAsOf(d time.Time) Fragment {
	return New(balanceAsOf, d)
}

// BalanceSheet is BalanceAsOf ordered for presentation.
func BalanceSheet(d time.Time) Fragment {
	return BalanceAsOf(d).Append(New("order by accounttypes.sort, accounts.acc_name"))
}

func alias(i int) string { return fmt.Sprintf("bal%d", i) }

// coalesce renders coalesce(bal0.col, ..., bal{n-1}.col); a single column is
// returned bare.
func coalesce(n int, col string) string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = alias(i) + "." + col
	}
	if n == 1 {
		return cols[0]
	}
	return "coalesce(" + strings.Join(cols, ", ") + ")"
}

// MultiBalance computes per-account balances as of every period end in one
// statement. Each period is its own CTE; they are combined by successive full
// outer joins keyed on the first non-null prior id, so an account present in
// any period yields exactly one row. Presentation columns coalesce over all
// periods; the signed amount for period i is debit{i} and is null when the
// account nets to zero at that date.
func MultiBalance(periods []time.Time) (Fragment, error) {
	n := len(periods)
	if n < 1 {
		return Fragment{}, errs.Invalid(errs.CodeInvalidParam, "This report requires at least 1 interval.")
	}

	ctes := make([]Fragment, n)
	for i, d := range periods {
		ctes[i] = BalanceAsOf(d).Wrap(alias(i)+" as (\n", "\n)")
	}

	cols := make([]Fragment, 0, len(AccountColumns)+n)
	for _, c := range AccountColumns {
		cols = append(cols, New(coalesce(n, c)+" as "+c))
	}
	for i := 0; i < n; i++ {
		cols = append(cols, New(fmt.Sprintf("%s.debit as debit%d", alias(i), i)))
	}

	joins := []Fragment{New("from " + alias(0))}
	for i := 1; i < n; i++ {
		joins = append(joins, New(fmt.Sprintf("full outer join %s on %s.id=%s", alias(i), alias(i), coalesce(i, "id"))))
	}

	return Join("\n",
		Join(",\n", ctes...).Wrap("with ", ""),
		Join(",\n\t", cols...).Wrap("select\n\t", ""),
		Join("\n", joins...),
		New("order by "+coalesce(n, "jrn_name")+", "+coalesce(n, "acc_name")),
	), nil
}

// CurrentBalanceAccounts lists balance-sheet accounts holding a balance at d
// or having any split dated between from and to.
func CurrentBalanceAccounts(d, from, to time.Time) Fragment {
	return Join("\n",
		BalanceAsOf(d).Wrap("with balance as (\n", "\n), recent as ("),
		New(`	select distinct splits.account_id as id
	from hacc.splits
	join hacc.transactions on transactions.tid=splits.stid
	where transactions.trandate between ? and ?
)`, from, to),
		New(`select `+accountSelect+`,
	balance.debit
from hacc.accounts
`+accountJoins+`
left outer join balance on balance.id=accounts.id
where accounts.id in ((select id from balance) union (select id from recent))
	and accounttypes.balance_sheet
order by accounttypes.sort, accounts.acc_name`),
	)
}

// ProfitAndLoss is the signed net change of every income-statement account
// between d1 and d2 inclusive; accounts with no net change are omitted.
func ProfitAndLoss(d1, d2 time.Time) Fragment {
	return New(`with deltas as (
	select accounts.id as account_id, sum(splits.sum) as debit
	from hacc.transactions
	join hacc.splits on transactions.tid=splits.stid
	join hacc.accounts on splits.account_id=accounts.id
	join hacc.accounttypes on accounttypes.id=accounts.type_id
	where transactions.trandate between ? and ?
		and not accounttypes.balance_sheet
	group by accounts.id
	having sum(splits.sum)<>0
)
select `+accountSelect+`,
	deltas.debit
from deltas
join hacc.accounts on accounts.id=deltas.account_id
`+accountJoins+`
order by accounttypes.sort, journals.jrn_name, accounts.acc_name`, d1, d2)
}

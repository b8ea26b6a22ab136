package query

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestBuildNumbersPlaceholdersInOrder(t *testing.T) {
	f := New("a=? and b=?", 1, 2).Append(New("c=?", 3))
	sql, args := f.Build()
	assert.Equal(t, "a=$1 and b=$2\nc=$3", sql)
	assert.Equal(t, []any{1, 2, 3}, args)
}

func TestFragmentsAreImmutable(t *testing.T) {
	base := New("x=?", 1)
	_ = base.Append(New("y=?", 2))
	_ = base.Wrap("(", ")")
	assert.Equal(t, "x=?", base.SQL())
	assert.Equal(t, []any{1}, base.Args())

	args := base.Args()
	args[0] = 99
	assert.Equal(t, []any{1}, base.Args())
}

func TestAndDefaultsToTrue(t *testing.T) {
	assert.Equal(t, "true", And().SQL())
	assert.Equal(t, "a=? and b", And(New("a=?", 1), Fragment{}, New("b")).SQL())
}

func TestMultiBalanceRejectsEmptyPeriods(t *testing.T) {
	_, err := MultiBalance(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalid))
	ue, ok := errs.AsUser(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidParam, ue.Code)
}

func TestMultiBalanceJoinsOnAllPriorKeys(t *testing.T) {
	periods := []time.Time{day(2024, 12, 31), day(2023, 12, 31), day(2022, 12, 31)}
	f, err := MultiBalance(periods)
	require.NoError(t, err)

	sql := f.SQL()
	for _, want := range []string{
		"with bal0 as (",
		"bal1 as (",
		"bal2 as (",
		"from bal0",
		"full outer join bal1 on bal1.id=bal0.id",
		"full outer join bal2 on bal2.id=coalesce(bal0.id, bal1.id)",
		"coalesce(bal0.acc_name, bal1.acc_name, bal2.acc_name) as acc_name",
		"coalesce(bal0.debit_account, bal1.debit_account, bal2.debit_account) as debit_account",
		"bal0.debit as debit0",
		"bal2.debit as debit2",
		"order by coalesce(bal0.jrn_name, bal1.jrn_name, bal2.jrn_name), coalesce(bal0.acc_name, bal1.acc_name, bal2.acc_name)",
	} {
		assert.Contains(t, sql, want)
	}
	assert.Equal(t, 3, strings.Count(sql, "having sum(balsheet.debit) <> 0"))

	built, args := f.Build()
	assert.NotContains(t, built, "?")
	assert.Contains(t, built, "transactions.trandate<=$3")
	assert.Equal(t, []any{periods[0], periods[1], periods[2]}, args)
}

func TestMultiBalanceSinglePeriod(t *testing.T) {
	f, err := MultiBalance([]time.Time{day(2024, 6, 30)})
	require.NoError(t, err)
	sql := f.SQL()
	assert.NotContains(t, sql, "full outer join")
	assert.Contains(t, sql, "bal0.acc_name as acc_name")
	assert.Contains(t, sql, "bal0.debit as debit0")
}

func TestPlaceholdersMatchArgs(t *testing.T) {
	acct, atype := uuid.New(), uuid.New()
	multi, err := MultiBalance([]time.Time{day(2024, 1, 31), day(2023, 1, 31)})
	require.NoError(t, err)
	frags := map[string]Fragment{
		"balance sheet":    BalanceSheet(day(2024, 1, 31)),
		"multi":            multi,
		"current":          CurrentBalanceAccounts(day(2024, 1, 31), day(2024, 1, 1), day(2024, 3, 1)),
		"pnl":              ProfitAndLoss(day(2024, 1, 1), day(2024, 12, 31)),
		"detailed pl":      DetailedPL(day(2024, 1, 1), day(2024, 12, 31)),
		"lines unfiltered": TransactionLines(ledger.LineFilter{From: day(2024, 1, 1), To: day(2024, 2, 1)}),
		"lines filtered": TransactionLines(ledger.LineFilter{
			From: day(2024, 1, 1), To: day(2024, 2, 1), AccountID: &acct, TypeID: &atype,
			PayeeLike: "%acme%", MemoLike: "%rent%",
		}),
		"balance before": AccountBalanceBefore(acct, day(2024, 1, 1)),
		"unbalanced":     UnbalancedTransactions(),
		"years":          TransactionYears(),
		"accounts":       AccountList(ledger.AccountFilter{TypeID: &atype, JournalID: &acct}),
		"by name":        AccountByName("Cash"),
		"completions":    AccountCompletions("Ca%"),
		"rec account":    ReconcileAccount(acct),
		"rec splits":     ReconcileSplits(acct),
	}
	for name, f := range frags {
		assert.Equal(t, len(f.Args()), f.Placeholders(), name)
	}
}

func TestTransactionLinesFilters(t *testing.T) {
	acct := uuid.New()
	f := TransactionLines(ledger.LineFilter{From: day(2024, 1, 1), To: day(2024, 1, 31), AccountID: &acct, MemoLike: "%rent%"})
	sql, args := f.Build()
	assert.Contains(t, sql, "where transactions.trandate between $1 and $2 and accounts.id=$3 and transactions.memo ilike $4")
	assert.Equal(t, []any{day(2024, 1, 1), day(2024, 1, 31), acct, "%rent%"}, args)
	assert.NotContains(t, sql, "balance_sheet")

	pl, _ := DetailedPL(day(2024, 1, 1), day(2024, 1, 31)).Build()
	assert.Contains(t, pl, "not accounttypes.balance_sheet")
}

func TestAccountListWithoutFilters(t *testing.T) {
	sql, args := AccountList(ledger.AccountFilter{}).Build()
	assert.Contains(t, sql, "where true")
	assert.Empty(t, args)
}

func TestUnbalancedTransactionsGroupsByTransactionOnly(t *testing.T) {
	sql := UnbalancedTransactions().SQL()
	assert.Contains(t, sql, "group by transactions.tid, transactions.payee, transactions.memo, transactions.trandate\nhaving")
	assert.Contains(t, sql, "string_agg(distinct journals.jrn_name, ', ' order by journals.jrn_name) as jrn_name")
}

package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tinoosan/hacc/internal/dates"
	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/report"
)

const (
	formatByType = "gl_summarize_by_type"
	formatTotal  = "gl_summarize_total"
)

// recentWindow is how far around the report date a split keeps a zero
// balance account on the current balance list.
const recentWindow = 30

// maxPeriods bounds the comparison columns of the multi-period reports.
const maxPeriods = 60

// intervalWorkers caps the concurrent P&L queries of one interval report.
const intervalWorkers = 4

func checkPeriods(n int) error {
	if n < 1 {
		return errs.Invalid(errs.CodeInvalidParam, "This report requires at least 1 interval.")
	}
	if n > maxPeriods {
		return errs.Invalid(errs.CodeInvalidParam, fmt.Sprintf("This report allows at most %d intervals.", maxPeriods))
	}
	return nil
}

func (s *service) balanceTable(rows []ledger.BalanceRow) *report.Table {
	t := report.NewTable(append(accountColumns(), s.dcbColumns("", "")...)...)
	for _, b := range rows {
		row := accountRow(b.AccountRef)
		putDCB(row, "", ledger.TypeOriented(b.DebitAccount, b.Debit))
		t.Add(row)
	}
	return t
}

func (s *service) BalanceSheet(ctx context.Context, date *time.Time) (*report.Report, error) {
	d := orDate(date, s.today())
	rows, err := s.repo.BalanceSheet(ctx, d)
	if err != nil {
		return nil, err
	}
	r := s.newReport("Balance Sheet")
	r.Labelf("Date:  %s", dates.Format(d))
	r.AddTable("balances", s.balanceTable(rows), true)
	r.Formats(formatByType)
	return r, nil
}

func (s *service) BalanceSheetSummary(ctx context.Context, date *time.Time) (*report.Report, error) {
	d := orDate(date, s.today())
	rows, err := s.repo.BalanceSheet(ctx, d)
	if err != nil {
		return nil, err
	}

	type typeTotal struct {
		ref   ledger.AccountRef
		debit decimal.Decimal
	}
	totals := map[uuid.UUID]*typeTotal{}
	var order []*typeTotal
	for _, b := range rows {
		tt, ok := totals[b.TypeID]
		if !ok {
			tt = &typeTotal{ref: b.AccountRef}
			totals[b.TypeID] = tt
			order = append(order, tt)
		}
		tt.debit = tt.debit.Add(b.Debit.Decimal)
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].ref.TypeSort != order[j].ref.TypeSort {
			return order[i].ref.TypeSort < order[j].ref.TypeSort
		}
		return order[i].ref.TypeName < order[j].ref.TypeName
	})

	cols := []report.Column{
		report.Surrogate("atype_id", report.AccountType),
		report.Name("atype_name", report.AccountType, report.Label("Account Type"), report.URLKey("atype_id"), report.Represents()),
		report.Integer("atype_sort", report.Hidden()),
		report.Boolean("debit_account", report.Hidden()),
	}
	t := report.NewTable(append(cols, s.dcbColumns("", "")...)...)
	for _, tt := range order {
		row := report.Row{
			"atype_id":      tt.ref.TypeID,
			"atype_name":    tt.ref.TypeName,
			"atype_sort":    tt.ref.TypeSort,
			"debit_account": tt.ref.DebitAccount,
		}
		putDCB(row, "", ledger.TypeOriented(tt.ref.DebitAccount, decimal.NewNullDecimal(tt.debit)))
		t.Add(row)
	}

	r := s.newReport("Balance Sheet Summary")
	r.Labelf("Date:  %s", dates.Format(d))
	r.AddTable("summary", t, true)
	return r, nil
}

func (s *service) CurrentBalanceAccounts(ctx context.Context, date *time.Time) (*report.Report, error) {
	d := orDate(date, s.today())
	rows, err := s.repo.CurrentBalanceAccounts(ctx, d, d.AddDate(0, 0, -recentWindow), d.AddDate(0, 0, recentWindow))
	if err != nil {
		return nil, err
	}
	r := s.newReport("Current Balance Accounts")
	r.Labelf("Date:  %s", dates.Format(d))
	r.AddTable("balances", s.balanceTable(rows), true)
	r.Formats(formatByType)
	r.Related(report.RowRelated{
		Label:     "Reconcile",
		URL:       "hacc://reconcile",
		Params:    map[string]string{},
		RowParams: map[string]string{"account_id": "id"},
	})
	return r, nil
}

func (s *service) MultiBalanceSheet(ctx context.Context, p MultiBalanceParams) (*report.Report, error) {
	pme := s.priorMonthEnd()
	year := orInt(p.Year, pme.Year())
	month := orInt(p.Month, int(pme.Month()))
	count := orInt(p.Count, 3)
	if err := checkPeriods(count); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, errs.Invalid(errs.CodeInvalidParam, "The month must be between 1 and 12.")
	}

	periods := make([]time.Time, count)
	for i := range periods {
		periods[i] = dates.MonthEnd(year-i, time.Month(month))
	}
	rows, err := s.repo.MultiBalance(ctx, periods)
	if err != nil {
		return nil, err
	}

	cols := accountColumns()
	for i, d := range periods {
		cols = append(cols, s.dcbColumns(fmt.Sprint(i), "\n"+dates.Format(d))...)
	}
	t := report.NewTable(cols...)
	for _, m := range rows {
		row := accountRow(m.AccountRef)
		for i := range periods {
			var amt decimal.NullDecimal
			if i < len(m.Debits) {
				amt = m.Debits[i]
			}
			putDCB(row, fmt.Sprint(i), ledger.TypeOriented(m.DebitAccount, amt))
		}
		t.Add(row)
	}

	r := s.newReport("Multi Balance Sheet")
	r.Labelf("Date:  %s and %d annual comparisons", dates.Format(periods[0]), count-1)
	r.AddTable("balances", t, true)
	r.Formats(formatByType)
	return r, nil
}

func (s *service) ProfitAndLoss(ctx context.Context, date1, date2 *time.Time) (*report.Report, error) {
	pme := s.priorMonthEnd()
	d1 := orDate(date1, time.Date(pme.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
	d2 := orDate(date2, pme)
	rows, err := s.repo.ProfitAndLoss(ctx, d1, d2)
	if err != nil {
		return nil, err
	}
	r := s.newReport("Profit & Loss")
	r.Labelf("Date:  %s -- %s", dates.Format(d1), dates.Format(d2))
	r.AddTable("deltas", s.balanceTable(rows), true)
	r.Formats(formatByType)
	return r, nil
}

type interval struct {
	from, to time.Time
}

func (s *service) IntervalPL(ctx context.Context, p IntervalParams) (*report.Report, error) {
	ending := orDate(p.EndingDate, dates.TheFirst(s.today()).AddDate(0, 0, -1))
	count := orInt(p.Intervals, 3)
	length := orInt(p.Length, 6)
	if err := checkPeriods(count); err != nil {
		return nil, err
	}
	if length < 1 {
		return nil, errs.Invalid(errs.CodeInvalidParam, "Intervals must be at least 1 month long.")
	}

	ed1 := dates.TheFirst(ending)
	spans := make([]interval, count)
	for i := range spans {
		spans[i] = interval{
			from: dates.NMonthsEarlier(ed1, (i+1)*length-1),
			to:   dates.MonthEndOf(dates.NMonthsEarlier(ed1, i*length)),
		}
	}

	sets := make([][]ledger.BalanceRow, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(intervalWorkers)
	for i, sp := range spans {
		g.Go(func() error {
			rows, err := s.repo.ProfitAndLoss(gctx, sp.from, sp.to)
			if err != nil {
				return fmt.Errorf("interval %d: %w", i+1, err)
			}
			sets[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accounts := map[uuid.UUID]ledger.AccountRef{}
	byInterval := make([]map[uuid.UUID]ledger.BalanceRow, count)
	for i, rows := range sets {
		byInterval[i] = make(map[uuid.UUID]ledger.BalanceRow, len(rows))
		for _, b := range rows {
			byInterval[i][b.ID] = b
			accounts[b.ID] = b.AccountRef
		}
	}
	refs := make([]ledger.AccountRef, 0, len(accounts))
	for _, a := range accounts {
		refs = append(refs, a)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].TypeSort != refs[j].TypeSort {
			return refs[i].TypeSort < refs[j].TypeSort
		}
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return refs[i].ID.String() < refs[j].ID.String()
	})

	cols := accountColumns()
	for i, sp := range spans {
		cols = append(cols, s.dcbColumns(fmt.Sprintf("_%d", i+1), "\n"+dates.Format(sp.to))...)
	}
	t := report.NewTable(cols...)
	for _, a := range refs {
		row := accountRow(a)
		for i := range spans {
			if b, ok := byInterval[i][a.ID]; ok {
				putDCB(row, fmt.Sprintf("_%d", i+1), ledger.TypeOriented(b.DebitAccount, b.Debit))
			}
		}
		t.Add(row)
	}

	r := s.newReport("Profit & Loss - Comparative")
	r.Labelf("Date:  %s -- %s", dates.Format(spans[count-1].from), dates.Format(spans[0].to))
	r.AddTable("balances", t, true)
	r.Formats(formatByType)
	return r, nil
}

// lineColumns are the split-line columns shared by the listing views.
func (s *service) lineColumns(hideAccount bool) []report.Column {
	return []report.Column{
		report.Surrogate("tid", report.Transaction),
		report.Surrogate("sid", report.Transaction),
		report.Date("date", report.Label("Date")),
		report.Text("reference", report.Label("Reference")),
		report.Surrogate("id", report.Account),
		report.Name("acc_name", report.Account, report.Label("Account"), report.URLKey("id"), report.HiddenIf(hideAccount)),
		report.Text("payee", report.Label("Payee")),
		report.Text("memo", report.Label("Memo")),
	}
}

func lineRow(l ledger.SplitLine) report.Row {
	return report.Row{
		"tid":       l.TransID,
		"sid":       l.SplitID,
		"date":      l.Date,
		"reference": l.Reference,
		"id":        l.Account.ID,
		"acc_name":  l.Account.Name,
		"payee":     l.Payee,
		"memo":      l.Memo,
	}
}

func (s *service) DetailedPL(ctx context.Context, date1, date2 *time.Time) (*report.Report, error) {
	d1, d2, err := dateRange(date1, date2)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.DetailedPL(ctx, d1, d2)
	if err != nil {
		return nil, err
	}
	cols := append([]report.Column{
		report.Surrogate("atype_id", report.AccountType),
		report.Name("atype_name", report.AccountType, report.Label("Account Type"), report.URLKey("atype_id"), report.SortProxy("atype_sort")),
		report.Integer("atype_sort", report.Hidden()),
		report.Surrogate("jrn_id", report.Journal),
		report.Name("jrn_name", report.Journal, report.Label("Journal"), report.URLKey("jrn_id")),
	}, s.lineColumns(false)...)
	cols = append(cols,
		report.Currency("debit", s.currency, report.Label("Debit")),
		report.Currency("credit", s.currency, report.Label("Credit")),
	)
	t := report.NewTable(cols...)
	for _, l := range lines {
		row := lineRow(l)
		row["atype_id"] = l.Account.TypeID
		row["atype_name"] = l.Account.TypeName
		row["atype_sort"] = l.Account.TypeSort
		row["jrn_id"] = l.Account.JournalID
		row["jrn_name"] = l.Account.JournalName
		row["debit"], row["credit"] = ledger.SplitColumns(l.Sum)
		t.Add(row)
	}
	r := s.newReport("Detailed Profit & Loss")
	r.Labelf("Period between: %s -- %s", dates.Format(d1), dates.Format(d2))
	r.AddTable("splits", t, true)
	r.Formats(formatByType)
	return r, nil
}

func (s *service) UnbalancedTransactions(ctx context.Context) (*report.Report, error) {
	rows, err := s.repo.UnbalancedTransactions(ctx)
	if err != nil {
		return nil, err
	}
	t := report.NewTable(
		report.Surrogate("tid", report.Transaction),
		report.Text("payee", report.Label("Payee")),
		report.Text("memo", report.Label("Memo")),
		report.Date("trandate", report.Label("Date")),
		report.Name("jrn_name", report.Journal, report.Label("Journal")),
		report.Currency("unbalance", s.currency, report.Label("Unbalance")),
	)
	for _, u := range rows {
		t.Add(report.Row{
			"tid":       u.TransID,
			"payee":     u.Payee,
			"memo":      u.Memo,
			"trandate":  u.Date,
			"jrn_name":  u.JournalName,
			"unbalance": u.Unbalance,
		})
	}
	r := s.newReport("Unbalanced Transactions")
	r.AddTable("balances", t, true)
	return r, nil
}

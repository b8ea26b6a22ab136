// Package report assembles the ledger reports: it picks report periods,
// fetches rows through the Repo, derives debit/credit/balance columns and lays
// everything out as tabular report payloads.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tinoosan/hacc/internal/dates"
	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/notify"
	"github.com/tinoosan/hacc/internal/report"
)

type Repo interface {
	BalanceSheet(ctx context.Context, d time.Time) ([]ledger.BalanceRow, error)
	MultiBalance(ctx context.Context, periods []time.Time) ([]ledger.MultiBalanceRow, error)
	CurrentBalanceAccounts(ctx context.Context, d, from, to time.Time) ([]ledger.BalanceRow, error)
	ProfitAndLoss(ctx context.Context, d1, d2 time.Time) ([]ledger.BalanceRow, error)
	TransactionLines(ctx context.Context, f ledger.LineFilter) ([]ledger.SplitLine, error)
	DetailedPL(ctx context.Context, d1, d2 time.Time) ([]ledger.SplitLine, error)
	AccountBalanceBefore(ctx context.Context, account uuid.UUID, d time.Time) (decimal.Decimal, error)
	AccountListing(ctx context.Context, id uuid.UUID) (ledger.AccountListing, error)
	UnbalancedTransactions(ctx context.Context) ([]ledger.UnbalancedTransaction, error)
	TransactionYears(ctx context.Context) ([]ledger.YearCount, error)
	ListAccountTypes(ctx context.Context) ([]ledger.AccountType, error)
	ListJournals(ctx context.Context) ([]ledger.Journal, error)
}

type Service interface {
	BalanceSheet(ctx context.Context, date *time.Time) (*report.Report, error)
	BalanceSheetSummary(ctx context.Context, date *time.Time) (*report.Report, error)
	CurrentBalanceAccounts(ctx context.Context, date *time.Time) (*report.Report, error)
	MultiBalanceSheet(ctx context.Context, p MultiBalanceParams) (*report.Report, error)
	ProfitAndLoss(ctx context.Context, date1, date2 *time.Time) (*report.Report, error)
	IntervalPL(ctx context.Context, p IntervalParams) (*report.Report, error)
	DetailedPL(ctx context.Context, date1, date2 *time.Time) (*report.Report, error)
	UnbalancedTransactions(ctx context.Context) (*report.Report, error)
	TransactionYears(ctx context.Context) (*report.Report, error)
	TransactionList(ctx context.Context, p ListParams) (*report.Report, error)
	TranDetail(ctx context.Context, p DetailParams) (*report.Report, error)
	StaticSettings(ctx context.Context, names []string) (*report.Report, error)
}

// MultiBalanceParams selects the period ends of the multi balance sheet.
// Nil fields take defaults from the prior month end.
type MultiBalanceParams struct {
	Year  *int
	Month *int
	Count *int
}

// IntervalParams selects the comparative P&L intervals.
type IntervalParams struct {
	EndingDate *time.Time
	Intervals  *int
	Length     *int
}

// ListParams filters the transaction list.
type ListParams struct {
	Date1, Date2 *time.Time
	Account      *uuid.UUID
	AccountType  *uuid.UUID
	PayeeFrag    string
	MemoFrag     string
}

// DetailParams selects an account ledger.
type DetailParams struct {
	Account      *uuid.UUID
	Date1, Date2 *time.Time
}

type service struct {
	repo     Repo
	now      func() time.Time
	currency string
	channel  string
}

// Option configures the service.
type Option func(*service)

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

// WithCurrency sets the currency amounts are rounded to.
func WithCurrency(curr string) Option { return func(s *service) { s.currency = curr } }

// WithChannel sets the refresh channel advertised on ledger reports.
func WithChannel(ch string) Option { return func(s *service) { s.channel = ch } }

func New(repo Repo, opts ...Option) Service {
	s := &service{repo: repo, now: time.Now, currency: "USD", channel: notify.DefaultChannel}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) today() time.Time { return dates.Date(s.now()) }

// priorMonthEnd is the last day of the month before today.
func (s *service) priorMonthEnd() time.Time {
	return dates.TheFirst(s.today()).AddDate(0, 0, -1)
}

func (s *service) newReport(title string) *report.Report {
	r := report.New(title)
	r.RefreshOn(s.channel)
	return r
}

func orDate(d *time.Time, def time.Time) time.Time {
	if d == nil {
		return def
	}
	return dates.Date(*d)
}

func orInt(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// dateRange checks a required begin/end pair.
func dateRange(d1, d2 *time.Time) (time.Time, time.Time, error) {
	if d1 == nil || d2 == nil {
		return time.Time{}, time.Time{}, errs.Invalid(errs.CodeParameterValidation, "Enter both begin & end dates.")
	}
	if d1.After(*d2) {
		return time.Time{}, time.Time{}, errs.Invalid(errs.CodeParameterValidation, "Start date must be before end date.")
	}
	return dates.Date(*d1), dates.Date(*d2), nil
}

// accountColumns are the presentation columns shared by balance reports.
func accountColumns() []report.Column {
	return []report.Column{
		report.Surrogate("id", report.Account),
		report.Name("acc_name", report.Account, report.Label("Account"), report.URLKey("id"), report.Represents()),
		report.Text("description"),
		report.Surrogate("atype_id", report.AccountType),
		report.Name("atype_name", report.AccountType, report.Label("Account Type"), report.URLKey("atype_id"), report.SortProxy("atype_sort")),
		report.Integer("atype_sort", report.Hidden()),
		report.Boolean("debit_account", report.Hidden()),
		report.Surrogate("jrn_id", report.Journal),
		report.Name("jrn_name", report.Journal, report.Label("Journal"), report.URLKey("jrn_id")),
	}
}

func accountRow(a ledger.AccountRef) report.Row {
	return report.Row{
		"id":            a.ID,
		"acc_name":      a.Name,
		"description":   a.Description,
		"atype_id":      a.TypeID,
		"atype_name":    a.TypeName,
		"atype_sort":    a.TypeSort,
		"debit_account": a.DebitAccount,
		"jrn_id":        a.JournalID,
		"jrn_name":      a.JournalName,
	}
}

// dcbColumns are the hidden debit/credit and visible balance columns; suffix
// distinguishes periods and label suffixes the column labels.
func (s *service) dcbColumns(suffix, label string) []report.Column {
	return []report.Column{
		report.Currency("debit"+suffix, s.currency, report.Label("Debit"+label), report.Hidden()),
		report.Currency("credit"+suffix, s.currency, report.Label("Credit"+label), report.Hidden()),
		report.Currency("balance"+suffix, s.currency, report.Label("Balance"+label)),
	}
}

func putDCB(row report.Row, suffix string, v ledger.DCB) {
	row["debit"+suffix] = v.Debit
	row["credit"+suffix] = v.Credit
	row["balance"+suffix] = v.Balance
}

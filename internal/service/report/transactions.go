package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tinoosan/hacc/internal/dates"
	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/report"
	"github.com/tinoosan/hacc/internal/search"
)

func (s *service) TransactionYears(ctx context.Context) (*report.Report, error) {
	years, err := s.repo.TransactionYears(ctx)
	if err != nil {
		return nil, err
	}
	t := report.NewTable(report.Integer("year", report.Label("Year")), report.Integer("count", report.Label("Count")))
	for _, y := range years {
		t.Add(report.Row{"year": y.Year, "count": y.Count})
	}
	r := s.newReport("Transaction Years")
	r.AddTable("years", t, true)
	return r, nil
}

func (s *service) TransactionList(ctx context.Context, p ListParams) (*report.Report, error) {
	d1, d2, err := dateRange(p.Date1, p.Date2)
	if err != nil {
		return nil, err
	}
	f := ledger.LineFilter{
		From:      d1,
		To:        d2,
		AccountID: p.Account,
		TypeID:    p.AccountType,
		PayeeLike: search.Fragment(p.PayeeFrag),
		MemoLike:  search.Fragment(p.MemoFrag),
	}
	lines, err := s.repo.TransactionLines(ctx, f)
	if err != nil {
		return nil, err
	}

	t := report.NewTable(append(s.lineColumns(p.Account != nil),
		report.Currency("debit", s.currency, report.Label("Debit")),
		report.Currency("credit", s.currency, report.Label("Credit")),
	)...)
	for _, l := range lines {
		row := lineRow(l)
		row["debit"], row["credit"] = ledger.SplitColumns(l.Sum)
		t.Add(row)
	}

	r := s.newReport("Transactions List")
	r.Labelf("Date:  %s -- %s", dates.Format(d1), dates.Format(d2))
	if p.Account != nil {
		acc, err := s.repo.AccountListing(ctx, *p.Account)
		if err != nil {
			return nil, err
		}
		r.Labelf("Account:  %s", acc.Name)
	}
	r.AddTable("trans", t, true)
	r.Formats(formatTotal)
	return r, nil
}

// TranDetail is an account ledger: the opening balance as of the day before
// date1, then each split with a running balance on the account's natural side.
func (s *service) TranDetail(ctx context.Context, p DetailParams) (*report.Report, error) {
	if p.Account == nil {
		return nil, errs.Invalid(errs.CodeParameterValidation, "Select an account.")
	}
	d1, d2, err := dateRange(p.Date1, p.Date2)
	if err != nil {
		return nil, err
	}
	acc, err := s.repo.AccountListing(ctx, *p.Account)
	if err != nil {
		return nil, err
	}
	opening, err := s.repo.AccountBalanceBefore(ctx, acc.ID, d1)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.TransactionLines(ctx, ledger.LineFilter{From: d1, To: d2, AccountID: &acc.ID})
	if err != nil {
		return nil, err
	}

	t := report.NewTable(append(s.lineColumns(true),
		report.Currency("debit", s.currency, report.Label("Debit")),
		report.Currency("credit", s.currency, report.Label("Credit")),
		report.Currency("balance", s.currency, report.Label("Balance")),
	)...)

	running := ledger.TypeOriented(acc.Debit, decimal.NewNullDecimal(opening)).Balance.Decimal
	t.Add(report.Row{
		"date":     d1.AddDate(0, 0, -1),
		"id":       acc.ID,
		"acc_name": acc.Name,
		"payee":    "Opening Balance",
		"balance":  running,
	})
	for _, l := range lines {
		row := lineRow(l)
		v := ledger.SignOriented(acc.Debit, decimal.NewNullDecimal(l.Sum))
		running = running.Add(v.Balance.Decimal)
		v.Balance = decimal.NewNullDecimal(running)
		putDCB(row, "", v)
		t.Add(row)
	}

	r := s.newReport("Transaction Detail")
	r.Labelf("Account:  %s", acc.Name)
	r.Labelf("Date:  %s -- %s", dates.Format(d1), dates.Format(d2))
	r.AddTable("trans", t, true)
	return r, nil
}

// Static setting names.
const (
	SettingAccountTypes = "account_types"
	SettingJournals     = "journals"
)

// StaticSettings returns one lookup table per requested name.
func (s *service) StaticSettings(ctx context.Context, names []string) (*report.Report, error) {
	r := report.New("Static Settings")
	for _, name := range names {
		switch name {
		case SettingAccountTypes:
			types, err := s.repo.ListAccountTypes(ctx)
			if err != nil {
				return nil, err
			}
			t := report.NewTable(report.Name("atype_name", report.AccountType), report.Surrogate("id", report.AccountType))
			for _, at := range types {
				t.Add(report.Row{"atype_name": at.Name, "id": at.ID})
			}
			r.AddTable(name, t, false)
		case SettingJournals:
			js, err := s.repo.ListJournals(ctx)
			if err != nil {
				return nil, err
			}
			t := report.NewTable(report.Name("jrn_name", report.Journal), report.Surrogate("id", report.Journal))
			for _, j := range js {
				t.Add(report.Row{"jrn_name": j.Name, "id": j.ID})
			}
			r.AddTable(name, t, false)
		default:
			return nil, errs.Invalid(errs.CodeInvalidParam, fmt.Sprintf("unknown static setting: %s", name))
		}
	}
	return r, nil
}

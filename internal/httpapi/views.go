package httpapi

import (
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/report"
	"github.com/tinoosan/hacc/internal/service/reconcile"
)

// Table layouts of the entity endpoints. Edit tables mirror the stored row so
// a fetched template can be sent back on PUT.

func accountListTable(rows []ledger.AccountListing) *report.Table {
	t := report.NewTable(
		report.Surrogate("id", report.Account),
		report.Name("account", report.Account, report.Label("Account"), report.URLKey("id"), report.Represents()),
		report.Surrogate("atype_id", report.AccountType),
		report.Name("type", report.AccountType, report.Label("Type"), report.URLKey("atype_id")),
		report.Surrogate("jrn_id", report.Journal),
		report.Name("journal", report.Journal, report.Label("Journal"), report.URLKey("jrn_id")),
		report.Text("description", report.Label("Description")),
	)
	for _, a := range rows {
		t.Add(report.Row{
			"id": a.ID, "account": a.Name,
			"atype_id": a.TypeID, "type": a.TypeName,
			"jrn_id": a.JournalID, "journal": a.JournalName,
			"description": a.Description,
		})
	}
	return t
}

func accountRefTable(rows []ledger.AccountListing) *report.Table {
	t := report.NewTable(
		report.Surrogate("id", report.Account),
		report.Name("type", report.AccountType, report.Label("Type")),
		report.Boolean("balance_sheet", report.Hidden()),
		report.Boolean("debit", report.Hidden()),
		report.Name("account", report.Account, report.Label("Account"), report.URLKey("id"), report.Represents()),
		report.Text("description", report.Label("Description")),
	)
	for _, a := range rows {
		t.Add(report.Row{
			"id": a.ID, "type": a.TypeName,
			"balance_sheet": a.BalanceSheet, "debit": a.Debit,
			"account": a.Name, "description": a.Description,
		})
	}
	return t
}

func accountTable(a ledger.Account) *report.Table {
	t := report.NewTable(
		report.Surrogate("id", report.Account),
		report.Name("acc_name", report.Account, report.Label("Account")),
		report.Surrogate("type_id", report.AccountType),
		report.Surrogate("journal_id", report.Journal),
		report.Surrogate("retearn_id", report.Account),
		report.Text("description", report.Label("Description")),
		report.Text("rec_note", report.Hidden()),
	)
	t.Add(report.Row{
		"id": a.ID, "acc_name": a.Name,
		"type_id": a.TypeID, "journal_id": a.JournalID, "retearn_id": a.RetearnID,
		"description": a.Description, "rec_note": a.RecNote,
	})
	return t
}

func accountTypeTable(types ...ledger.AccountType) *report.Table {
	t := report.NewTable(
		report.Surrogate("id", report.AccountType),
		report.Name("atype_name", report.AccountType, report.Label("Type"), report.URLKey("id")),
		report.Boolean("balance_sheet", report.Label("Balance Sheet")),
		report.Boolean("debit", report.Label("Debit")),
		report.Integer("sort", report.Label("Sort")),
	)
	for _, at := range types {
		t.Add(report.Row{"id": at.ID, "atype_name": at.Name, "balance_sheet": at.BalanceSheet, "debit": at.Debit, "sort": at.Sort})
	}
	return t
}

func journalTable(js ...ledger.Journal) *report.Table {
	t := report.NewTable(
		report.Surrogate("id", report.Journal),
		report.Name("jrn_name", report.Journal, report.Label("Journal"), report.URLKey("id")),
	)
	for _, j := range js {
		t.Add(report.Row{"id": j.ID, "jrn_name": j.Name})
	}
	return t
}

// transactionReport is the edit form of a transaction: its header row and its
// splits.
func (s *Server) transactionReport(tx ledger.Transaction) *report.Report {
	r := report.New("")
	trans := report.NewTable(
		report.Surrogate("tid", report.Transaction),
		report.Date("trandate", report.Label("Date")),
		report.Text("tranref", report.Label("Reference")),
		report.Text("payee", report.Label("Payee")),
		report.Text("memo", report.Label("Memo")),
	)
	trans.Add(report.Row{"tid": tx.ID, "trandate": tx.Date, "tranref": tx.Reference, "payee": tx.Payee, "memo": tx.Memo})
	r.AddTable("trans", trans, false)

	splits := report.NewTable(
		report.Surrogate("sid", report.Transaction),
		report.Surrogate("stid", report.Transaction),
		report.Surrogate("account_id", report.Account),
		report.Name("acc_name", report.Account, report.Label("Account"), report.URLKey("account_id")),
		report.Currency("sum", s.currency, report.Label("Amount")),
		report.Name("jrn_name", report.Journal, report.Label("Journal")),
	)
	for _, sp := range tx.Splits {
		splits.Add(report.Row{
			"sid": sp.ID, "stid": tx.ID, "account_id": sp.AccountID,
			"acc_name": sp.AccountName, "sum": sp.Sum, "jrn_name": sp.JournalName,
		})
	}
	r.AddTable("splits", splits, false)
	return r
}

// reconcileReport lays out the reconciliation view: the account header and
// the splits still to be reconciled.
func (s *Server) reconcileReport(v reconcile.View) *report.Report {
	r := report.New("Reconcile")
	r.Labelf("Account:  %s", v.Account.Name)
	acc := report.NewTable(
		report.Surrogate("id", report.Account),
		report.Name("acc_name", report.Account, report.Label("Account")),
		report.Text("rec_note", report.Label("Note")),
		report.Boolean("debit_account", report.Hidden()),
		report.Currency("prior_reconciled_balance", s.currency, report.Label("Prior Reconciled Balance")),
	)
	acc.Add(report.Row{
		"id": v.Account.ID, "acc_name": v.Account.Name, "rec_note": v.Account.RecNote,
		"debit_account": v.Account.DebitAccount, "prior_reconciled_balance": v.PriorBalance,
	})
	r.AddTable("account", acc, false)

	trans := report.NewTable(
		report.Surrogate("sid", report.Transaction),
		report.Boolean("pending", report.Label("Pending")),
		report.Boolean("reconciled", report.Label("Reconciled")),
		report.Currency("debit", s.currency, report.Label("Debit")),
		report.Currency("credit", s.currency, report.Label("Credit")),
		report.Currency("balance", s.currency, report.Label("Balance"), report.Hidden()),
		report.Date("date", report.Label("Date")),
		report.Text("reference", report.Label("Reference")),
		report.Text("payee", report.Label("Payee")),
		report.Text("memo", report.Label("Memo")),
	)
	for _, l := range v.Lines {
		trans.Add(report.Row{
			"sid": l.SplitID, "pending": l.Pending, "reconciled": l.Reconciled,
			"debit": l.Debit, "credit": l.Credit, "balance": l.Balance,
			"date": l.Date, "reference": l.Reference, "payee": l.Payee, "memo": l.Memo,
		})
	}
	r.AddTable("trans", trans, true)
	return r
}

package httpapi

import (
	"net/http"

	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/report"
)

// listAccounts handles GET /api/accounts/list?acctype=&journal=
func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := s.accounts.List(r.Context(), q.Get("acctype"), q.Get("journal"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep := report.New("Account List")
	rep.AddTable("accounts", accountListTable(rows), true)
	toJSON(w, http.StatusOK, rep)
}

// accountsByReference handles GET /api/accounts/by-reference?reference=
func (s *Server) accountsByReference(w http.ResponseWriter, r *http.Request) {
	rows, err := s.accounts.ByReference(r.Context(), r.URL.Query().Get("reference"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep := report.New("")
	rep.AddTable("account", accountRefTable(rows), true)
	toJSON(w, http.StatusOK, rep)
}

// accountCompletions handles GET /api/accounts/completions?prefix=
func (s *Server) accountCompletions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.accounts.Completions(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep := report.New("")
	rep.AddTable("accounts", accountRefTable(rows), true)
	toJSON(w, http.StatusOK, rep)
}

func accountReport(a ledger.Account) *report.Report {
	rep := report.New("")
	rep.AddTable("account", accountTable(a), true)
	return rep
}

func (s *Server) newAccount(w http.ResponseWriter, r *http.Request) {
	rep := accountReport(s.accounts.New(r.Context()))
	rep.MarkNewRow()
	toJSON(w, http.StatusOK, rep)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.accounts.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, accountReport(a))
}

// putAccount handles PUT /api/account/{id}. The account table must carry
// exactly one row; its id is taken from the path.
func (s *Server) putAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := report.Decode(r.Body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, _, err := tableRows[accountRow](s.validate, p, "account", accountSpec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	accs := make([]ledger.Account, len(rows))
	for i, row := range rows {
		accs[i] = row.entity()
	}
	a, err := s.accounts.Put(r.Context(), id, accs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, accountReport(a))
}

// deleteAccount handles DELETE /api/account/{id}. Accounts still referenced
// by splits answer 409.
func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.accounts.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"net/http"
	"sort"

	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/report"
)

func (s *Server) listJournals(w http.ResponseWriter, r *http.Request) {
	js, err := s.journals.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep := report.New("Journals List")
	rep.AddTable("journals", journalTable(js...), true)
	toJSON(w, http.StatusOK, rep)
}

func journalReport(js ...ledger.Journal) *report.Report {
	rep := report.New("")
	rep.AddTable("journal", journalTable(js...), true)
	return rep
}

func (s *Server) newJournal(w http.ResponseWriter, r *http.Request) {
	rep := journalReport(s.journals.New(r.Context()))
	rep.MarkNewRow()
	toJSON(w, http.StatusOK, rep)
}

func (s *Server) getJournal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	j, err := s.journals.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, journalReport(j))
}

// putJournal handles PUT /api/journal/{id}. Every row is upserted; rows
// without an id take the path id.
func (s *Server) putJournal(w http.ResponseWriter, r *http.Request) {
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
	rows, _, err := tableRows[journalRow](s.validate, p, "journal", journalSpec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	js := make([]ledger.Journal, len(rows))
	for i, row := range rows {
		js[i] = row.entity()
	}
	saved, err := s.journals.Put(r.Context(), id, js)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, journalReport(saved...))
}

func (s *Server) listAccountTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.accountTypes.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep := report.New("Account Types List")
	rep.AddTable("accounttypes", accountTypeTable(types...), true)
	toJSON(w, http.StatusOK, rep)
}

func accountTypeReport(t ledger.AccountType) *report.Report {
	rep := report.New("")
	rep.AddTable("accounttype", accountTypeTable(t), true)
	return rep
}

func (s *Server) newAccountType(w http.ResponseWriter, r *http.Request) {
	rep := accountTypeReport(s.accountTypes.New(r.Context()))
	rep.MarkNewRow()
	toJSON(w, http.StatusOK, rep)
}

func (s *Server) getAccountType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.accountTypes.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, accountTypeReport(t))
}

func (s *Server) putAccountType(w http.ResponseWriter, r *http.Request) {
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
	rows, _, err := tableRows[accountTypeRow](s.validate, p, "accounttype", accountTypeSpec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	types := make([]ledger.AccountType, len(rows))
	for i, row := range rows {
		types[i] = row.entity()
	}
	t, err := s.accountTypes.Put(r.Context(), id, types)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, accountTypeReport(t))
}

// staticSettings handles GET /api/static_settings. Every query value names
// a lookup table, e.g. ?a=journals&b=account_types.
func (s *Server) staticSettings(w http.ResponseWriter, r *http.Request) {
	var names []string
	for _, vs := range r.URL.Query() {
		names = append(names, vs...)
	}
	sort.Strings(names)
	rep, err := s.reports.StaticSettings(r.Context(), names)
	s.render(w, r, rep, err)
}

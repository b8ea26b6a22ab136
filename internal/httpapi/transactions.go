package httpapi

import (
	"net/http"

	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/report"
	"github.com/tinoosan/hacc/internal/service/reconcile"
)

func (s *Server) newTransaction(w http.ResponseWriter, r *http.Request) {
	rep := s.transactionReport(s.transactions.New(r.Context()))
	rep.MarkNewRow()
	toJSON(w, http.StatusOK, rep)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tx, err := s.transactions.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, s.transactionReport(tx))
}

// copyTransaction handles GET /api/transaction/{id}/copy: an unsaved clone
// dated today.
func (s *Server) copyTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tx, err := s.transactions.Copy(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep := s.transactionReport(tx)
	rep.MarkNewRow()
	toJSON(w, http.StatusOK, rep)
}

// putTransaction handles PUT /api/transaction/{id}: the trans table holds
// the header and the splits table becomes the complete split set.
func (s *Server) putTransaction(w http.ResponseWriter, r *http.Request) {
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
	trans, _, err := tableRows[transRow](s.validate, p, "trans", transSpec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	splitRows, _, err := tableRows[splitRow](s.validate, p, "splits", splitsSpec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	header := make([]ledger.Transaction, len(trans))
	for i, t := range trans {
		header[i] = t.entity()
	}
	splits := make([]ledger.Split, len(splitRows))
	for i, sp := range splitRows {
		splits[i] = sp.entity()
	}
	saved, err := s.transactions.Save(r.Context(), id, header, splits)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, s.transactionReport(saved))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getReconcile handles GET /api/transactions/reconcile?account=
func (s *Server) getReconcile(w http.ResponseWriter, r *http.Request) {
	account, err := queryUUID(r, "account")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if account == nil {
		s.fail(w, r, errs.Invalid(errs.CodeInvalidParam, "Select an account."))
		return
	}
	v, err := s.reconcile.Get(r.Context(), *account)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, s.reconcileReport(v))
}

// putReconcile handles PUT /api/transactions/reconcile. The trans table
// carries the desired pending/reconciled flags per split and the account
// table names the account and optionally its rec_note.
func (s *Server) putReconcile(w http.ResponseWriter, r *http.Request) {
	p, err := report.Decode(r.Body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	marks, _, err := tableRows[markRow](s.validate, p, "trans", marksSpec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	accRows, accRecs, err := tableRows[recAccountRow](s.validate, p, "account", recAccountSpec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if len(accRows) != 1 {
		s.fail(w, r, errs.Invalid(errs.CodeInvalidInput, "There must be exactly one account row."))
		return
	}
	account := accRows[0].ID.UUID()
	var note *reconcile.Note
	if accRecs[0].Has("rec_note") {
		note = &reconcile.Note{RecNote: accRows[0].RecNote}
	}

	out := make([]ledger.SplitMark, len(marks))
	for i, m := range marks {
		out[i] = ledger.SplitMark{SplitID: m.SplitID.UUID(), Pending: m.Pending, Reconciled: m.Reconciled}
	}
	if err := s.reconcile.Put(r.Context(), account, out, note); err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.reconcile.Get(r.Context(), account)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, s.reconcileReport(v))
}

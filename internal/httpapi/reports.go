package httpapi

import (
	"net/http"

	reportsvc "github.com/tinoosan/hacc/internal/service/report"
)

func (s *Server) balanceSheet(w http.ResponseWriter, r *http.Request) {
	p := paramReader{r: r}
	date := p.dateParam("date")
	if p.err != nil {
		s.fail(w, r, p.err)
		return
	}
	rep, err := s.reports.BalanceSheet(r.Context(), date)
	s.render(w, r, rep, err)
}

func (s *Server) balanceSheetSummary(w http.ResponseWriter, r *http.Request) {
	p := paramReader{r: r}
	date := p.dateParam("date")
	if p.err != nil {
		s.fail(w, r, p.err)
		return
	}
	rep, err := s.reports.BalanceSheetSummary(r.Context(), date)
	s.render(w, r, rep, err)
}

func (s *Server) currentBalanceAccounts(w http.ResponseWriter, r *http.Request) {
	p := paramReader{r: r}
	date := p.dateParam("date")
	if p.err != nil {
		s.fail(w, r, p.err)
		return
	}
	rep, err := s.reports.CurrentBalanceAccounts(r.Context(), date)
	s.render(w, r, rep, err)
}

// multiBalanceSheet handles GET /api/gledger/multi-balance-sheet?year=&month_end=&count=
func (s *Server) multiBalanceSheet(w http.ResponseWriter, r *http.Request) {
	p := paramReader{r: r}
	params := reportsvc.MultiBalanceParams{
		Year:  p.intParam("year"),
		Month: p.intParam("month_end"),
		Count: p.intParam("count"),
	}
	if p.err != nil {
		s.fail(w, r, p.err)
		return
	}
	rep, err := s.reports.MultiBalanceSheet(r.Context(), params)
	s.render(w, r, rep, err)
}

func (s *Server) profitAndLoss(w http.ResponseWriter, r *http.Request) {
	p := paramReader{r: r}
	d1, d2 := p.dateParam("date1"), p.dateParam("date2")
	if p.err != nil {
		s.fail(w, r, p.err)
		return
	}
	rep, err := s.reports.ProfitAndLoss(r.Context(), d1, d2)
	s.render(w, r, rep, err)
}

// intervalPL handles GET /api/gledger/interval-p-and-l?ending_date=&intervals=&length=
func (s *Server) intervalPL(w http.ResponseWriter, r *http.Request) {
	p := paramReader{r: r}
	params := reportsvc.IntervalParams{
		EndingDate: p.dateParam("ending_date"),
		Intervals:  p.intParam("intervals"),
		Length:     p.intParam("length"),
	}
	if p.err != nil {
		s.fail(w, r, p.err)
		return
	}
	rep, err := s.reports.IntervalPL(r.Context(), params)
	s.render(w, r, rep, err)
}

func (s *Server) detailedPL(w http.ResponseWriter, r *http.Request) {
	p := paramReader{r: r}
	d1, d2 := p.dateParam("date1"), p.dateParam("date2")
	if p.err != nil {
		s.fail(w, r, p.err)
		return
	}
	rep, err := s.reports.DetailedPL(r.Context(), d1, d2)
	s.render(w, r, rep, err)
}

func (s *Server) unbalancedTransactions(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.UnbalancedTransactions(r.Context())
	s.render(w, r, rep, err)
}

func (s *Server) transactionYears(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.TransactionYears(r.Context())
	s.render(w, r, rep, err)
}

// transactionList handles GET /api/transactions/list. Both dates are
// required; account, acctype, payee_frag and memo_frag narrow the list.
func (s *Server) transactionList(w http.ResponseWriter, r *http.Request) {
	p := paramReader{r: r}
	q := r.URL.Query()
	params := reportsvc.ListParams{
		Date1:       p.dateParam("date1"),
		Date2:       p.dateParam("date2"),
		Account:     p.uuidParam("account"),
		AccountType: p.uuidParam("acctype"),
		PayeeFrag:   q.Get("payee_frag"),
		MemoFrag:    q.Get("memo_frag"),
	}
	if p.err != nil {
		s.fail(w, r, p.err)
		return
	}
	rep, err := s.reports.TransactionList(r.Context(), params)
	s.render(w, r, rep, err)
}

func (s *Server) tranDetail(w http.ResponseWriter, r *http.Request) {
	p := paramReader{r: r}
	params := reportsvc.DetailParams{
		Account: p.uuidParam("account"),
		Date1:   p.dateParam("date1"),
		Date2:   p.dateParam("date2"),
	}
	if p.err != nil {
		s.fail(w, r, p.err)
		return
	}
	rep, err := s.reports.TranDetail(r.Context(), params)
	s.render(w, r, rep, err)
}

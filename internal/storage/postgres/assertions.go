package postgres

import (
	"github.com/tinoosan/hacc/internal/dictionary"
	"github.com/tinoosan/hacc/internal/notify"
	"github.com/tinoosan/hacc/internal/service/account"
	"github.com/tinoosan/hacc/internal/service/accounttype"
	"github.com/tinoosan/hacc/internal/service/journal"
	"github.com/tinoosan/hacc/internal/service/reconcile"
	"github.com/tinoosan/hacc/internal/service/report"
	"github.com/tinoosan/hacc/internal/service/transaction"
)

// Compile-time interface assertions documenting which interfaces Store satisfies.
var (
	_ journal.Repo       = (*Store)(nil)
	_ journal.Writer     = (*Store)(nil)
	_ account.Repo       = (*Store)(nil)
	_ account.Writer     = (*Store)(nil)
	_ accounttype.Repo   = (*Store)(nil)
	_ accounttype.Writer = (*Store)(nil)
	_ transaction.Repo   = (*Store)(nil)
	_ transaction.Writer = (*Store)(nil)
	_ reconcile.Repo     = (*Store)(nil)
	_ reconcile.Writer   = (*Store)(nil)
	_ report.Repo        = (*Store)(nil)
	_ dictionary.Writer  = (*Store)(nil)
	_ notify.Publisher   = (*Store)(nil)
)

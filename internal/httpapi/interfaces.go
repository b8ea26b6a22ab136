package httpapi

import (
	"context"

	"github.com/tinoosan/hacc/internal/service/account"
	"github.com/tinoosan/hacc/internal/service/accounttype"
	"github.com/tinoosan/hacc/internal/service/journal"
	"github.com/tinoosan/hacc/internal/service/reconcile"
	reportsvc "github.com/tinoosan/hacc/internal/service/report"
	"github.com/tinoosan/hacc/internal/service/transaction"
)

// Store composes every read and write the API needs. Both the memory and the
// Postgres store satisfy it.
type Store interface {
	journal.Repo
	journal.Writer
	accounttype.Repo
	accounttype.Writer
	account.Repo
	account.Writer
	transaction.Repo
	transaction.Writer
	reconcile.Repo
	reconcile.Writer
	reportsvc.Repo
}

// ReadyChecker is optionally implemented by dependencies to indicate readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

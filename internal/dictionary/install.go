package dictionary

import (
	"context"
	"fmt"

	"github.com/tinoosan/hacc/internal/ledger"
)

// Writer is the subset of store writes the chart needs.
type Writer interface {
	PutJournals(ctx context.Context, js []ledger.Journal) error
	PutAccountType(ctx context.Context, t ledger.AccountType) error
	PutAccount(ctx context.Context, a ledger.Account) error
}

// Install writes the chart. Retained Earnings is written first so the other
// accounts can point at it.
func Install(ctx context.Context, w Writer, c Chart) error {
	if err := w.PutJournals(ctx, []ledger.Journal{c.Journal}); err != nil {
		return fmt.Errorf("install journal: %w", err)
	}
	for _, t := range c.Types {
		if err := w.PutAccountType(ctx, t); err != nil {
			return fmt.Errorf("install type %s: %w", t.Name, err)
		}
	}
	ordered := make([]ledger.Account, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.Name == RetainedEarnings {
			ordered = append([]ledger.Account{a}, ordered...)
			continue
		}
		ordered = append(ordered, a)
	}
	for _, a := range ordered {
		if err := w.PutAccount(ctx, a); err != nil {
			return fmt.Errorf("install account %s: %w", a.Name, err)
		}
	}
	return nil
}

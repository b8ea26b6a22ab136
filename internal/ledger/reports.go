package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRef carries the presentation fields every report row resolves for an account.
type AccountRef struct {
	ID           uuid.UUID
	Name         string
	Description  string
	TypeID       uuid.UUID
	TypeName     string
	TypeSort     int
	DebitAccount bool
	JournalID    uuid.UUID
	JournalName  string
}

// BalanceRow is a signed net amount for one account.
type BalanceRow struct {
	AccountRef
	Debit decimal.NullDecimal
}

// MultiBalanceRow holds one signed balance per period; a period where the
// account nets to exactly zero (or has no activity) is null.
type MultiBalanceRow struct {
	AccountRef
	Debits []decimal.NullDecimal
}

// SplitLine is a transaction leg joined to its account, type and journal.
type SplitLine struct {
	TransID   uuid.UUID
	SplitID   uuid.UUID
	Date      time.Time
	Reference string
	Payee     string
	Memo      string
	Account   AccountRef
	Sum       decimal.Decimal
}

// LineFilter selects split lines for the transaction list and detail views.
type LineFilter struct {
	From, To  time.Time
	AccountID *uuid.UUID
	TypeID    *uuid.UUID
	// PayeeLike and MemoLike are ready-made ilike patterns.
	PayeeLike string
	MemoLike  string
	// IncomeOnly restricts lines to non-balance-sheet accounts.
	IncomeOnly bool
}

// UnbalancedTransaction is a transaction whose splits do not sum to zero.
// JournalName lists the journals of the accounts it touches.
type UnbalancedTransaction struct {
	TransID     uuid.UUID
	Payee       string
	Memo        string
	Date        time.Time
	JournalName string
	Unbalance   decimal.Decimal
}

// YearCount is the number of transactions dated in a calendar year.
type YearCount struct {
	Year  int
	Count int
}

// ReconcileAccount is the account header of the reconciliation view.
type ReconcileAccount struct {
	ID           uuid.UUID
	Name         string
	RecNote      *string
	DebitAccount bool
	// Reconciled is the raw signed sum of all reconciled splits.
	Reconciled decimal.Decimal
}

// ReconcileSplit is a split that is not yet reconciled.
type ReconcileSplit struct {
	SplitID    uuid.UUID
	Pending    bool
	Reconciled bool
	Sum        decimal.Decimal
	Date       time.Time
	Reference  string
	Payee      string
	Memo       string
}

// SplitMark is the desired tag state for one split.
type SplitMark struct {
	SplitID    uuid.UUID
	Pending    bool
	Reconciled bool
}

package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tag names used to track bank reconciliation on splits.
const (
	TagBankPending    = "Bank Pending"
	TagBankReconciled = "Bank Reconciled"
)

// Journal is a grouping label for accounts.
type Journal struct {
	ID   uuid.UUID
	Name string
}

// AccountType classifies accounts.
type AccountType struct {
	ID   uuid.UUID
	Name string
	// BalanceSheet types keep their balance across periods; the others are
	// closed into the account's retained earnings account.
	BalanceSheet bool
	// Debit marks a natural debit-balance type (assets, expenses).
	Debit bool
	Sort  int
}

// Account is a ledger account. Every account has exactly one type and one journal.
type Account struct {
	ID        uuid.UUID
	Name      string
	TypeID    uuid.UUID
	JournalID uuid.UUID
	// RetearnID is the closing target for income-statement accounts.
	RetearnID   *uuid.UUID
	Description string
	RecNote     *string
}

// Transaction owns a set of splits that should sum to zero.
type Transaction struct {
	ID        uuid.UUID
	Date      time.Time
	Reference string
	Payee     string
	Memo      string
	Splits    []Split
}

// Split is one signed leg of a transaction; positive sums are debits.
type Split struct {
	ID        uuid.UUID
	TransID   uuid.UUID
	AccountID uuid.UUID
	Sum       decimal.Decimal
	// Read-side joins, filled by stores when reading a transaction.
	AccountName string
	JournalName string
}

// Balance returns the sum of all splits.
func (t Transaction) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, s := range t.Splits {
		total = total.Add(s.Sum)
	}
	return total
}

// AccountFilter narrows the account list; nil means no filter.
type AccountFilter struct {
	TypeID    *uuid.UUID
	JournalID *uuid.UUID
}

// AccountListing is an account joined with its type and journal names.
type AccountListing struct {
	ID          uuid.UUID
	Name        string
	TypeID      uuid.UUID
	TypeName    string
	JournalID   uuid.UUID
	JournalName string
	Description string
	// BalanceSheet and Debit come from the account type.
	BalanceSheet bool
	Debit        bool
}

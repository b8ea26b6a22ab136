// Package dictionary holds the curated starter chart of accounts used to seed
// an empty ledger.
package dictionary

import (
	"github.com/google/uuid"
	"github.com/tinoosan/hacc/internal/ledger"
)

// TypeDef describes a starter account type.
type TypeDef struct {
	Name         string
	BalanceSheet bool
	Debit        bool
	Sort         int
}

// AccountDef describes a starter account of a given type.
type AccountDef struct {
	Name        string
	Type        string
	Description string
}

// RetainedEarnings is the equity account income-statement accounts close into.
const RetainedEarnings = "Retained Earnings"

// DefaultJournal is the journal starter accounts belong to.
const DefaultJournal = "General"

var types = []TypeDef{
	{Name: "Asset", BalanceSheet: true, Debit: true, Sort: 10},
	{Name: "Liability", BalanceSheet: true, Debit: false, Sort: 20},
	{Name: "Equity", BalanceSheet: true, Debit: false, Sort: 30},
	{Name: "Income", BalanceSheet: false, Debit: false, Sort: 40},
	{Name: "Expense", BalanceSheet: false, Debit: true, Sort: 50},
}

var accounts = []AccountDef{
	{Name: "Checking", Type: "Asset", Description: "Primary bank account"},
	{Name: "Savings", Type: "Asset"},
	{Name: "Cash", Type: "Asset"},
	{Name: "Credit Card", Type: "Liability"},
	{Name: "Opening Balances", Type: "Equity"},
	{Name: RetainedEarnings, Type: "Equity"},
	{Name: "Salary", Type: "Income"},
	{Name: "Interest", Type: "Income"},
	{Name: "Groceries", Type: "Expense"},
	{Name: "Rent", Type: "Expense"},
	{Name: "Utilities", Type: "Expense"},
}

// Types returns the starter account types ordered by sort.
func Types() []TypeDef { return append([]TypeDef(nil), types...) }

// Accounts returns the starter accounts.
func Accounts() []AccountDef { return append([]AccountDef(nil), accounts...) }

// Chart is a starter chart materialised with fresh identifiers.
type Chart struct {
	Journal  ledger.Journal
	Types    []ledger.AccountType
	Accounts []ledger.Account
}

// Build materialises the starter chart. Income and expense accounts close
// into the Retained Earnings account.
func Build() Chart {
	c := Chart{Journal: ledger.Journal{ID: uuid.New(), Name: DefaultJournal}}
	byName := make(map[string]ledger.AccountType, len(types))
	for _, t := range types {
		at := ledger.AccountType{ID: uuid.New(), Name: t.Name, BalanceSheet: t.BalanceSheet, Debit: t.Debit, Sort: t.Sort}
		byName[t.Name] = at
		c.Types = append(c.Types, at)
	}
	retearn := uuid.New()
	for _, a := range accounts {
		at := byName[a.Type]
		acc := ledger.Account{ID: uuid.New(), Name: a.Name, TypeID: at.ID, JournalID: c.Journal.ID, Description: a.Description}
		if a.Name == RetainedEarnings {
			acc.ID = retearn
		}
		if !at.BalanceSheet {
			id := retearn
			acc.RetearnID = &id
		}
		c.Accounts = append(c.Accounts, acc)
	}
	return c
}

// Account returns the built account with the given name.
func (c Chart) Account(name string) (ledger.Account, bool) {
	for _, a := range c.Accounts {
		if a.Name == name {
			return a, true
		}
	}
	return ledger.Account{}, false
}

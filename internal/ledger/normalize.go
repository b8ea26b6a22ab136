package ledger

import "github.com/shopspring/decimal"

// DCB is the presentation triple derived from one signed net amount.
type DCB struct {
	Debit   decimal.NullDecimal
	Credit  decimal.NullDecimal
	Balance decimal.NullDecimal
}

var minusOne = decimal.NewFromInt(-1)

func some(d decimal.Decimal) decimal.NullDecimal { return decimal.NullDecimal{Decimal: d, Valid: true} }

func orient(debitType bool, amt decimal.Decimal) decimal.Decimal {
	if debitType {
		return amt
	}
	return amt.Mul(minusOne)
}

// TypeOriented places the amount in the column of the account type's natural
// side regardless of its sign. Aggregate reports (balance sheet, P&L) use it.
func TypeOriented(debitType bool, amt decimal.NullDecimal) DCB {
	if !amt.Valid {
		return DCB{}
	}
	out := DCB{Balance: some(orient(debitType, amt.Decimal))}
	if debitType {
		out.Debit = some(amt.Decimal)
	} else {
		out.Credit = some(amt.Decimal.Neg())
	}
	return out
}

// SignOriented places the amount by its sign: positive amounts are debits and
// negative amounts are credits. A zero amount lands on the type's natural side.
// Split-level views (reconciliation, transaction detail) use it.
func SignOriented(debitType bool, amt decimal.NullDecimal) DCB {
	if !amt.Valid {
		return DCB{}
	}
	out := DCB{Balance: some(orient(debitType, amt.Decimal))}
	switch amt.Decimal.Sign() {
	case 1:
		out.Debit = some(amt.Decimal)
	case -1:
		out.Credit = some(amt.Decimal.Neg())
	default:
		if debitType {
			out.Debit = some(decimal.Zero)
		} else {
			out.Credit = some(decimal.Zero)
		}
	}
	return out
}

// SplitColumns is the debit/credit split used by transaction listings:
// non-negative sums show as debits, negative sums as credits.
func SplitColumns(sum decimal.Decimal) (debit, credit decimal.NullDecimal) {
	if sum.Sign() >= 0 {
		return some(sum), decimal.NullDecimal{}
	}
	return decimal.NullDecimal{}, some(sum.Neg())
}

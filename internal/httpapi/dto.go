package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tinoosan/hacc/internal/dates"
	"github.com/tinoosan/hacc/internal/errs"
	"github.com/tinoosan/hacc/internal/ledger"
	"github.com/tinoosan/hacc/internal/report"
)

// looseID accepts null or "" as the nil id, so template rows with blank
// surrogates decode.
type looseID uuid.UUID

func (l *looseID) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		*l = looseID(uuid.Nil)
		return nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return err
	}
	*l = looseID(id)
	return nil
}

func (l looseID) UUID() uuid.UUID { return uuid.UUID(l) }

// day is a YYYY-MM-DD cell.
type day struct{ time.Time }

func (d *day) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	t, ok, err := dates.Parse(*s)
	if err != nil {
		return err
	}
	if ok {
		d.Time = t
	}
	return nil
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type journalRow struct {
	ID   looseID `json:"id"`
	Name string  `json:"jrn_name" validate:"required,max=120"`
}

func (j journalRow) entity() ledger.Journal {
	return ledger.Journal{ID: j.ID.UUID(), Name: j.Name}
}

type accountTypeRow struct {
	Name         string `json:"atype_name" validate:"required,max=120"`
	BalanceSheet bool   `json:"balance_sheet"`
	Debit        bool   `json:"debit"`
	Sort         int    `json:"sort" validate:"gte=0"`
}

func (t accountTypeRow) entity() ledger.AccountType {
	return ledger.AccountType{Name: t.Name, BalanceSheet: t.BalanceSheet, Debit: t.Debit, Sort: t.Sort}
}

type accountRow struct {
	Name        string  `json:"acc_name" validate:"required,max=120"`
	TypeID      looseID `json:"type_id" validate:"required"`
	JournalID   looseID `json:"journal_id" validate:"required"`
	RetearnID   looseID `json:"retearn_id"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func (a accountRow) entity() ledger.Account {
	acc := ledger.Account{
		Name:        a.Name,
		TypeID:      a.TypeID.UUID(),
		JournalID:   a.JournalID.UUID(),
		Description: text(a.Description),
	}
	if id := a.RetearnID.UUID(); id != uuid.Nil {
		acc.RetearnID = &id
	}
	return acc
}

type transRow struct {
	Date      day     `json:"trandate"`
	Reference *string `json:"tranref" validate:"omitempty,max=60"`
	Payee     *string `json:"payee" validate:"omitempty,max=200"`
	Memo      *string `json:"memo"`
}

func (t transRow) entity() ledger.Transaction {
	return ledger.Transaction{Date: t.Date.Time, Reference: text(t.Reference), Payee: text(t.Payee), Memo: text(t.Memo)}
}

type splitRow struct {
	SplitID   looseID             `json:"sid"`
	AccountID looseID             `json:"account_id" validate:"required"`
	Sum       decimal.NullDecimal `json:"sum" validate:"required"`
}

func (s splitRow) entity() ledger.Split {
	return ledger.Split{ID: s.SplitID.UUID(), AccountID: s.AccountID.UUID(), Sum: s.Sum.Decimal}
}

type markRow struct {
	SplitID    looseID `json:"sid" validate:"required"`
	Pending    bool    `json:"pending"`
	Reconciled bool    `json:"reconciled"`
}

type recAccountRow struct {
	ID      looseID `json:"id" validate:"required"`
	RecNote *string `json:"rec_note"`
}

// Request table layouts.
var (
	journalSpec     = report.Spec{Required: []string{"jrn_name"}, Optional: []string{"id"}, AllowExtra: true}
	accountTypeSpec = report.Spec{Required: []string{"atype_name"}, Amendments: []string{"id"}, AllowExtra: true}
	accountSpec     = report.Spec{Required: []string{"acc_name", "type_id", "journal_id"}, Amendments: []string{"id"}, AllowExtra: true}
	transSpec       = report.Spec{Required: []string{"trandate"}, Amendments: []string{"tid"}, AllowExtra: true}
	splitsSpec      = report.Spec{Required: []string{"account_id", "sum"}, Amendments: []string{"sid", "stid"}, AllowExtra: true}
	marksSpec       = report.Spec{Required: []string{"sid", "pending", "reconciled"}}
	recAccountSpec  = report.Spec{Required: []string{"id"}, Optional: []string{"rec_note"}}
)

// newValidator reports fields by their column names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// A null amount counts as missing.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		n, ok := f.Interface().(decimal.NullDecimal)
		if !ok || !n.Valid {
			return nil
		}
		return n.Decimal.String()
	}, decimal.NullDecimal{})
	return v
}

// tableRows reads, binds and validates one request table.
func tableRows[T any](v *validator.Validate, p report.Payload, table string, spec report.Spec) ([]T, []report.Record, error) {
	recs, err := p.Table(table, spec)
	if err != nil {
		return nil, nil, err
	}
	rows, err := report.Bind[T](recs)
	if err != nil {
		return nil, nil, err
	}
	for i := range rows {
		if err := v.Struct(rows[i]); err != nil {
			return nil, nil, validationErr(table, i, err)
		}
	}
	return rows, recs, nil
}

func validationErr(table string, row int, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		if fe.Tag() == "required" {
			return errs.Invalid(errs.CodeInvalidInput, fmt.Sprintf("%s row %d: %s is required", table, row, fe.Field()))
		}
		return errs.Invalid(errs.CodeInvalidInput, fmt.Sprintf("%s row %d: %s failed %s", table, row, fe.Field(), fe.Tag()))
	}
	return errs.Invalid(errs.CodeInvalidInput, err.Error())
}

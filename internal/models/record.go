package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvKind tags an investment record with the role it plays in a statement.
// Records without a kind are position rows.
type InvKind string

const (
	InvKindNone     InvKind = ""
	InvKindInvest   InvKind = "INVEST"
	InvKindReinvest InvKind = "REINVEST"
	InvKindBankTran InvKind = "INVBANKTRAN"
)

// Record is one normalized transaction or position row produced by the row
// parser. Amount fields are pointers so that "absent in the source" stays
// distinguishable from an explicit zero; amounts are integer minor units.
type Record struct {
	Date time.Time
	Desc string
	Memo string

	Income  *int64
	Outgo   *int64
	Outgo1  *int64
	Outgo2  *int64
	Usage   *int64
	Balance *int64

	// Receipt-style sources.
	UnitPrice *int64
	ItemCount *int64
	Desc1     string
	Desc2     string
	Memo2     string

	// Set by the classifier.
	FITID   string
	Amount  int64
	TrnType string
	// Explicit transaction type carried by the source. When set it wins
	// over keyword classification.
	SourceType string
	// Direction marker carried by wallet-style sources; institution hooks
	// turn it into Income or Outgo before classification.
	Marker string

	// Investment fields.
	InvKind    InvKind
	UniqueID   string
	SecName    string
	HeldInAcct string
	PosType    string
	Units      *int64
	Taxes      *int64
	Fees       *int64
	ParValue   *int64
	DebtType   string
	DebtDate   time.Time
	Price      *decimal.Decimal
	CouponRate *decimal.Decimal
}

// HasDate reports whether the record carries an ordering key. Undated rows
// are discarded after parsing.
func (r *Record) HasDate() bool {
	return !r.Date.IsZero()
}

// HasAmount reports whether the record carries either amount column. Rows
// with neither are balance-only markers and are dropped by the classifier.
func (r *Record) HasAmount() bool {
	return r.Income != nil || r.Outgo != nil
}

// IncomeValue returns the income amount, zero when absent.
func (r *Record) IncomeValue() int64 {
	if r.Income == nil {
		return 0
	}
	return *r.Income
}

// OutgoValue returns the outgo amount, zero when absent.
func (r *Record) OutgoValue() int64 {
	if r.Outgo == nil {
		return 0
	}
	return *r.Outgo
}

// BalanceValue returns the reported balance, zero when absent.
func (r *Record) BalanceValue() int64 {
	if r.Balance == nil {
		return 0
	}
	return *r.Balance
}

// UnitsValue returns the traded or held unit count, zero when absent.
func (r *Record) UnitsValue() int64 {
	if r.Units == nil {
		return 0
	}
	return *r.Units
}

// TaxesValue returns the withheld taxes, zero when absent.
func (r *Record) TaxesValue() int64 {
	if r.Taxes == nil {
		return 0
	}
	return *r.Taxes
}

// FeesValue returns the charged fees, zero when absent.
func (r *Record) FeesValue() int64 {
	if r.Fees == nil {
		return 0
	}
	return *r.Fees
}

// PriceValue returns the unit price, zero when absent.
func (r *Record) PriceValue() decimal.Decimal {
	if r.Price == nil {
		return decimal.Zero
	}
	return *r.Price
}

// Int64 returns a pointer to v, for filling optional amount fields.
func Int64(v int64) *int64 {
	return &v
}

// Decimal returns a pointer to d, for filling optional price fields.
func Decimal(d decimal.Decimal) *decimal.Decimal {
	return &d
}

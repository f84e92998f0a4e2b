package filter

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"csvofx/internal/filtererror"
	"csvofx/internal/models"

	"github.com/shopspring/decimal"
)

// Date layouts probed during inference, in probe order: slash, dash,
// localized day marker, pure digits.
const (
	layoutSlash   = "2006/1/2"
	layoutDash    = "2006-1-2"
	layoutKanji   = "2006年1月2日"
	layoutCompact = "20060102"
)

// ToTime converts a date string using the filter's cached layout. The
// first successful inference is cached for the filter's lifetime; a later
// string that does not match the cached layout is a conversion failure for
// that row only.
func (f *Filter) ToTime(value string) (time.Time, error) {
	if f.DateLayout == "" {
		layout, err := inferDateLayout(value)
		if err != nil {
			return time.Time{}, err
		}
		f.DateLayout = layout
	}

	t, err := time.ParseInLocation(f.DateLayout, value, f.location())
	if err != nil {
		return time.Time{}, &filtererror.ConvertError{
			Field: string(models.FieldDate), Value: value, Err: err,
		}
	}
	return t, nil
}

func inferDateLayout(value string) (string, error) {
	switch {
	case strings.Contains(value, "/"):
		return layoutSlash, nil
	case strings.Contains(value, "-"):
		return layoutDash, nil
	case strings.Contains(value, "日"):
		return layoutKanji, nil
	case isDigits(value):
		return layoutCompact, nil
	default:
		return "", &filtererror.DateFormatError{Value: value}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (f *Filter) location() *time.Location {
	if f.Location != nil {
		return f.Location
	}
	return JST
}

// ParseAmount parses an integer amount in minor units, tolerating grouping
// separators.
func ParseAmount(field models.Field, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64)
	if err != nil {
		return 0, &filtererror.ConvertError{Field: string(field), Value: value, Err: err}
	}
	return v, nil
}

// ParseDecimal parses a fractional value such as a unit price or coupon
// rate, tolerating grouping separators.
func ParseDecimal(field models.Field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return decimal.Zero, &filtererror.ConvertError{Field: string(field), Value: value, Err: err}
	}
	return d, nil
}

// assign converts one cell and stores it on the record. The institution
// hook gets first refusal; unhandled fields fall through to the filter
// kind's default chain.
func (f *Filter) assign(rec *models.Record, field models.Field, value string) error {
	if f.ConvertField != nil {
		handled, err := f.ConvertField(f, rec, field, value)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	if f.Kind == KindInvestment {
		handled, err := f.assignInvestment(rec, field, value)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	return f.assignBank(rec, field, value)
}

// assignBank is the default conversion chain shared by every filter kind.
// Card-only sub-total columns are accepted here as well so that the credit
// specializations only override what genuinely differs.
func (f *Filter) assignBank(rec *models.Record, field models.Field, value string) error {
	switch field {
	case models.FieldDate:
		t, err := f.ToTime(value)
		if err != nil {
			return err
		}
		rec.Date = t
	case models.FieldDesc:
		rec.Desc = value
	case models.FieldMemo:
		rec.Memo = value
	case models.FieldIncome:
		v, err := ParseAmount(field, value)
		if err != nil {
			return err
		}
		rec.Income = models.Int64(v)
	case models.FieldOutgo:
		v, err := ParseAmount(field, value)
		if err != nil {
			return err
		}
		rec.Outgo = models.Int64(v)
	case models.FieldBalance:
		v, err := ParseAmount(field, value)
		if err != nil {
			return err
		}
		rec.Balance = models.Int64(v)
	case models.FieldUsage:
		v, err := ParseAmount(field, value)
		if err != nil {
			return err
		}
		rec.Usage = models.Int64(v)
	case models.FieldOutgo1:
		if f.Kind != KindCredit {
			return unknownField(field, value)
		}
		v, err := ParseAmount(field, value)
		if err != nil {
			return err
		}
		rec.Outgo1 = models.Int64(v)
	case models.FieldOutgo2:
		if f.Kind != KindCredit {
			return unknownField(field, value)
		}
		v, err := ParseAmount(field, value)
		if err != nil {
			return err
		}
		rec.Outgo2 = models.Int64(v)
	case models.FieldType:
		// Carried as an opaque marker; hooks decide whether it means
		// anything. It never feeds type classification directly.
		rec.Marker = value
	case models.FieldID:
		// A row sequence number; validated but not carried.
		if _, err := ParseAmount(field, value); err != nil {
			return err
		}
	default:
		return unknownField(field, value)
	}
	return nil
}

// assignInvestment covers the investment-only fields; everything else
// falls through to the bank chain.
func (f *Filter) assignInvestment(rec *models.Record, field models.Field, value string) (bool, error) {
	switch field {
	case models.FieldDebtDate:
		t, err := f.ToTime(value)
		if err != nil {
			return true, err
		}
		rec.DebtDate = t
	case models.FieldUnits:
		v, err := ParseAmount(field, value)
		if err != nil {
			return true, err
		}
		rec.Units = models.Int64(v)
	case models.FieldTaxes:
		v, err := ParseAmount(field, value)
		if err != nil {
			return true, err
		}
		rec.Taxes = models.Int64(v)
	case models.FieldFees:
		v, err := ParseAmount(field, value)
		if err != nil {
			return true, err
		}
		rec.Fees = models.Int64(v)
	case models.FieldParValue:
		v, err := ParseAmount(field, value)
		if err != nil {
			return true, err
		}
		rec.ParValue = models.Int64(v)
	case models.FieldPrice:
		d, err := ParseDecimal(field, value)
		if err != nil {
			return true, err
		}
		rec.Price = models.Decimal(d)
	case models.FieldCouponRate:
		d, err := ParseDecimal(field, value)
		if err != nil {
			return true, err
		}
		rec.CouponRate = models.Decimal(d)
	case models.FieldUniqueID:
		rec.UniqueID = value
	case models.FieldSecName:
		rec.SecName = value
	case models.FieldHeldInAcct:
		rec.HeldInAcct = value
	case models.FieldPosType:
		rec.PosType = value
	case models.FieldDebtType:
		rec.DebtType = value
	default:
		return false, nil
	}
	return true, nil
}

// errUnknownField marks a field tag with no conversion rule; the row
// carrying it is dropped.
var errUnknownField = errors.New("no conversion rule for field")

func unknownField(field models.Field, value string) error {
	return &filtererror.ConvertError{
		Field: string(field),
		Value: value,
		Err:   errUnknownField,
	}
}

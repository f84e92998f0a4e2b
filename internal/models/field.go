package models

// Field identifies the semantic meaning of one source column. The set is
// institution-spanning: cash-account exports use the date/amount/balance
// group, card exports add the split charge sub-totals, investment exports
// add the security fields.
type Field string

const (
	// FieldNone marks a column the pipeline skips.
	FieldNone Field = ""

	FieldDate    Field = "date"
	FieldYear    Field = "year"
	FieldMonth   Field = "month"
	FieldDay     Field = "day"
	FieldDesc    Field = "desc"
	FieldMemo    Field = "memo"
	FieldIncome  Field = "income"
	FieldOutgo   Field = "outgo"
	FieldBalance Field = "balance"
	FieldType    Field = "type"
	FieldID      Field = "id"

	// Card exports that split a charge into "new this period" and
	// "billed this period" sub-totals.
	FieldOutgo1 Field = "outgo1"
	FieldOutgo2 Field = "outgo2"
	// Prepaid-card exports reporting one unsigned usage amount plus an
	// in/out marker column.
	FieldUsage Field = "usage"

	// Receipt-style exports reporting unit price and item count instead of
	// a total.
	FieldUnitPrice Field = "unitPrice"
	FieldItemCount Field = "itemCount"
	FieldDesc1     Field = "desc1"
	FieldDesc2     Field = "desc2"
	FieldMemo2     Field = "memo2"

	// Investment exports.
	FieldUniqueID   Field = "uniqueId"
	FieldSecName    Field = "secName"
	FieldUnits      Field = "units"
	FieldPrice      Field = "price"
	FieldHeldInAcct Field = "heldInAcct"
	FieldPosType    Field = "posType"
	FieldTaxes      Field = "taxes"
	FieldFees       Field = "fees"
	FieldParValue   Field = "parValue"
	FieldCouponRate Field = "couponRate"
	FieldDebtDate   Field = "debtDate"
	FieldDebtType   Field = "debtType"
)

package models

// SecurityScheme is the identifier scheme of a security code, which doubles
// as its coarse type: equities carry exchange codes, funds carry association
// codes, everything else is treated as debt.
type SecurityScheme string

const (
	// SchemeEquity is a 4-digit exchange security code (JP:SIC).
	SchemeEquity SecurityScheme = "JP:SIC"
	// SchemeFund is an 8-digit fund association code (JP:ITAJ). Fund unit
	// prices are quoted per 10,000 units.
	SchemeFund SecurityScheme = "JP:ITAJ"
	// SchemeDebt covers every other code (JP:HC).
	SchemeDebt SecurityScheme = "JP:HC"
)

// InferScheme guesses a security's scheme from the digit length of its
// code: 4 digits is an equity, 8 a fund, anything else debt. ETF-style
// securities that hold both codes are treated as two distinct securities.
// This is a heuristic kept for compatibility, not a guaranteed
// classification; newer extended security codes are not handled.
func InferScheme(uniqueID string) SecurityScheme {
	switch len(uniqueID) {
	case 4:
		return SchemeEquity
	case 8:
		return SchemeFund
	default:
		return SchemeDebt
	}
}

// SecurityID pairs a security code with its identifier scheme.
type SecurityID struct {
	UniqueID string         `xml:"UNIQUEID"`
	Scheme   SecurityScheme `xml:"UNIQUEIDTYPE"`
}

// NewSecurityID builds a SecurityID, inferring the scheme when none is
// given.
func NewSecurityID(uniqueID string, scheme SecurityScheme) SecurityID {
	if scheme == "" {
		scheme = InferScheme(uniqueID)
	}
	return SecurityID{UniqueID: uniqueID, Scheme: scheme}
}

// Package filter implements the per-institution conversion filters: format
// recognition, row parsing with per-field conversion, and transaction
// classification with deterministic id assignment. Institution behavior
// differences are expressed as small hook functions on the Filter rather
// than inheritance; concrete filters live in internal/institutions and are
// registered explicitly at process start.
package filter

import (
	"sort"
	"time"

	"csvofx/internal/descriptor"
	"csvofx/internal/filtererror"
	"csvofx/internal/ledger"
	"csvofx/internal/models"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Kind selects which statement a filter produces.
type Kind string

const (
	KindBank       Kind = "bank"
	KindCredit     Kind = "credit"
	KindInvestment Kind = "investment"
)

// Wildcard is the type-rule pattern that matches every description.
const Wildcard = "*"

// TypeRule maps a description keyword to a transaction type. Rules are
// scanned in order; the first pattern contained in the description wins.
type TypeRule struct {
	Pattern string `yaml:"pattern"`
	TrnType string `yaml:"type"`
}

// ConvertFunc is an institution-specific field conversion override. It
// returns handled=false to fall through to the filter kind's default
// conversion chain.
type ConvertFunc func(f *Filter, rec *models.Record, field models.Field, value string) (handled bool, err error)

// Filter converts one institution's export shape into normalized records.
// A filter owns its format descriptor, ordered type-rule table and cached
// date layout; the layout cache is set once per filter lifetime and never
// reset during a run.
type Filter struct {
	// Key is the registry key identifying the institution.
	Key  string
	Name string
	Kind Kind

	BankID   string
	AcctType string
	Currency string

	Separator rune
	Format    descriptor.Format
	// AltFormats are additional layouts probed during recognition, for
	// institutions that export the same data under several headers.
	AltFormats []descriptor.Format

	// TypeRules nil means classification falls straight through to the
	// signed-amount default.
	TypeRules []TypeRule

	// BalanceMode is the default reconciliation mode for card statements;
	// an account configuration may override it.
	BalanceMode ledger.Mode

	SortKey models.Field

	// DateLayout may be preset; otherwise it is inferred from the first
	// date string the filter parses and cached.
	DateLayout string
	Location   *time.Location

	// MergePriceHistory marks price-history filters whose batches are
	// merged into a single position list keyed by "code-name" group names.
	MergePriceHistory bool

	// Hooks, all optional.
	ConvertField ConvertFunc
	PreClassify  func(f *Filter, recs []*models.Record) []*models.Record
	PostClassify func(f *Filter, recs []*models.Record)
	AnalyzeHook  func(f *Filter, rows [][]string, blocks [][][]string) [][][]string
}

// JST is the timezone offset the source institutions report in.
var JST = time.FixedZone("JST", 9*60*60)

// bankTypeRules is the default keyword table for cash accounts; insertion
// order is match priority.
func bankTypeRules() []TypeRule {
	return []TypeRule{
		{Pattern: "利息", TrnType: "INT"},
		{Pattern: "配当", TrnType: "DIV"},
		{Pattern: "振込入金", TrnType: "DIRECTDEP"},
		{Pattern: "取立入金", TrnType: "DIRECTDEP"},
		{Pattern: "自動引落の戻し入金", TrnType: "DIRECTDEP"},
		{Pattern: "出金", TrnType: "PAYMENT"},
		{Pattern: "自動引落", TrnType: "PAYMENT"},
		{Pattern: "振込", TrnType: "CASH"},
		{Pattern: "現金引出", TrnType: "ATM"},
		{Pattern: "カードによる引出", TrnType: "CHECK"},
		{Pattern: "小切手関連取引", TrnType: "DEBIT"},
	}
}

// NewBank returns a cash-account filter with the default bank defaults.
func NewBank(key, name, bankID string, format descriptor.Format) *Filter {
	return &Filter{
		Key:       key,
		Name:      name,
		Kind:      KindBank,
		BankID:    bankID,
		AcctType:  "SAVINGS",
		Currency:  "JPY",
		Separator: ',',
		Format:    format,
		TypeRules: bankTypeRules(),
		SortKey:   models.FieldDate,
		Location:  JST,
	}
}

// NewCredit returns a credit-card filter. Card statements carry no signed
// distinction, so the single wildcard rule tags everything CREDIT.
func NewCredit(key, name string, format descriptor.Format) *Filter {
	f := NewBank(key, name, "", format)
	f.Kind = KindCredit
	f.TypeRules = []TypeRule{{Pattern: Wildcard, TrnType: "CREDIT"}}
	f.BalanceMode = ledger.ModeSum
	return f
}

// NewInvestment returns an investment filter.
func NewInvestment(key, name, brokerID string, format descriptor.Format) *Filter {
	f := NewBank(key, name, brokerID, format)
	f.Kind = KindInvestment
	return f
}

// PrependTypeRules puts rules ahead of the filter's existing table, giving
// them match priority.
func (f *Filter) PrependTypeRules(rules []TypeRule) {
	f.TypeRules = append(append([]TypeRule{}, rules...), f.TypeRules...)
}

// Analyze locates the filter's header inside a raw row matrix and returns
// the data blocks that follow each occurrence. A nil result means the
// format was not recognized, which is not an error. Filters listing
// alternate layouts probe them in order and take the first that matches.
// A filter without a primary format is misconfigured, not a miss.
func (f *Filter) Analyze(rows [][]string) ([][][]string, error) {
	if len(f.Format) == 0 {
		return nil, filtererror.ErrNoColumns
	}
	formats := append([]descriptor.Format{f.Format}, f.AltFormats...)

	for _, format := range formats {
		if len(format) == 0 {
			continue
		}
		blocks, err := descriptor.Slice(rows, format)
		if err != nil {
			return nil, err
		}
		if blocks == nil {
			continue
		}
		if f.AnalyzeHook != nil {
			blocks = f.AnalyzeHook(f, rows, blocks)
		}
		return blocks, nil
	}
	return nil, nil
}

// -- registry --

var registry = make(map[string]*Filter)

// Register adds a filter under its key. Registration happens once at
// process start; re-registering a key replaces the previous filter.
func Register(f *Filter) {
	if _, ok := registry[f.Key]; ok {
		log.WithField("key", f.Key).Warn("Replacing already registered filter")
	}
	registry[f.Key] = f
}

// Lookup returns the filter registered under key.
func Lookup(key string) (*Filter, bool) {
	f, ok := registry[key]
	return f, ok
}

// LookupByName returns the filter with the given display name.
func LookupByName(name string) (*Filter, bool) {
	for _, f := range registry {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// All returns every registered filter, sorted by key for deterministic
// iteration.
func All() []*Filter {
	keys := make([]string, 0, len(registry))
	for key := range registry {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	filters := make([]*Filter, 0, len(keys))
	for _, key := range keys {
		filters = append(filters, registry[key])
	}
	return filters
}

// Package assembler turns classified transaction records into the
// statement document tree, reconciling balances against the persistent
// per-account ledger.
package assembler

import (
	"sort"
	"time"

	"csvofx/internal/filter"
	"csvofx/internal/filtererror"
	"csvofx/internal/ledger"
	"csvofx/internal/models"
	"csvofx/internal/store"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Assembler builds one account's statement document from grouped records.
type Assembler struct {
	Filter  *filter.Filter
	Account store.Account
	History *ledger.History
	Now     time.Time
}

// New returns an assembler for the given filter and account binding.
func New(f *filter.Filter, account store.Account, history *ledger.History, now time.Time) *Assembler {
	return &Assembler{Filter: f, Account: account, History: history, Now: now}
}

// balanceMode resolves the reconciliation mode: the account binding
// overrides the institution default.
func (a *Assembler) balanceMode() ledger.Mode {
	if a.Account.BalanceMode != "" {
		return a.Account.BalanceMode
	}
	if a.Filter.BalanceMode != "" {
		return a.Filter.BalanceMode
	}
	return ledger.ModeSum
}

// Build assembles the document for every record group. Groups that end
// up with no transactions after classification are skipped; if nothing
// survives at all, NoDataError is returned.
func (a *Assembler) Build(groups map[string][]*models.Record) (*models.Document, error) {
	doc := &models.Document{}

	switch a.Filter.Kind {
	case filter.KindInvestment:
		if err := a.buildInvestment(doc, groups); err != nil {
			return nil, err
		}
	case filter.KindCredit:
		for _, key := range sortedKeys(groups) {
			records := a.Filter.Classify(groups[key])
			if len(records) == 0 {
				continue
			}
			stmt, err := a.cardStatement(records)
			if err != nil {
				return nil, err
			}
			doc.CreditCard = appendCardStatement(doc.CreditCard, stmt)
		}
	default:
		for _, key := range sortedKeys(groups) {
			records := a.Filter.Classify(groups[key])
			if len(records) == 0 {
				continue
			}
			stmt, err := a.bankStatement(records)
			if err != nil {
				return nil, err
			}
			doc.Bank = appendBankStatement(doc.Bank, stmt)
		}
	}

	if doc.Bank == nil && doc.CreditCard == nil && doc.Investment == nil {
		return nil, &filtererror.NoDataError{Account: a.Filter.Key}
	}
	return doc, nil
}

func sortedKeys(groups map[string][]*models.Record) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// transactionList builds the common transaction list shared by bank,
// card, and investment cash statements.
func (a *Assembler) transactionList(records []*models.Record) models.TransactionList {
	list := models.TransactionList{
		Start: models.NewTimestamp(records[0].Date),
		End:   models.NewTimestamp(records[len(records)-1].Date),
	}
	for _, rec := range records {
		list.Transactions = append(list.Transactions, statementTransaction(rec))
	}
	return list
}

func statementTransaction(rec *models.Record) models.StatementTransaction {
	return models.StatementTransaction{
		TrnType: rec.TrnType,
		Posted:  models.NewTimestamp(rec.Date),
		Amount:  rec.Amount,
		FITID:   rec.FITID,
		Name:    rec.Desc,
		Memo:    rec.Memo,
	}
}

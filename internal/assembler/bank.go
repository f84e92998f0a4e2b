package assembler

import (
	"fmt"

	"csvofx/internal/models"

	"github.com/sirupsen/logrus"
)

// bankStatement assembles one cash-account statement. The ledger balance
// is taken from the last record's reported balance, and the same value is
// appended to the reconciliation history for both totals.
func (a *Assembler) bankStatement(records []*models.Record) (*models.BankStatement, error) {
	last := records[len(records)-1]
	balance := last.BalanceValue()
	if last.Balance == nil {
		log.WithFields(logrus.Fields{
			"account": a.Filter.Key,
			"date":    last.Date.Format("2006/01/02"),
		}).Warn("Last record carries no balance, reporting zero")
	}

	if a.History != nil {
		if err := a.History.Record(last.Date, balance, balance); err != nil {
			return nil, fmt.Errorf("error recording balance history: %w", err)
		}
	}

	return &models.BankStatement{
		Currency: a.Filter.Currency,
		Account: models.BankAccount{
			BankID:   a.Filter.BankID,
			BranchID: a.Account.BranchID,
			AcctID:   a.Account.AccountID,
			AcctType: a.Filter.AcctType,
		},
		Transactions:  a.transactionList(records),
		LedgerBalance: models.Balance{Amount: balance, AsOf: models.NewTimestamp(a.Now)},
		MarketingInfo: a.Filter.Name,
	}, nil
}

func appendBankStatement(set *models.BankMessageSet, stmt *models.BankStatement) *models.BankMessageSet {
	if set == nil {
		set = &models.BankMessageSet{}
	}
	set.Statements = append(set.Statements, models.BankStatementResponse{
		TrnUID:    "0",
		Status:    models.StatusOK(),
		Statement: stmt,
	})
	return set
}

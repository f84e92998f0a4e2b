package assembler

import (
	"fmt"

	"csvofx/internal/ledger"
	"csvofx/internal/models"

	"github.com/sirupsen/logrus"
)

// cardStatement assembles one credit-card statement. Card exports carry no
// balance column, so the ledger balance is reconstructed from the records
// and the persistent history.
func (a *Assembler) cardStatement(records []*models.Record) (*models.CardStatement, error) {
	balance, err := a.cardBalance(records)
	if err != nil {
		return nil, err
	}

	return &models.CardStatement{
		Currency:      a.Filter.Currency,
		Account:       models.CardAccount{AcctID: a.Account.AccountID},
		Transactions:  a.transactionList(records),
		LedgerBalance: models.Balance{Amount: balance, AsOf: models.NewTimestamp(a.Now)},
		MarketingInfo: a.Filter.Name,
	}, nil
}

// cardBalance computes the statement balance per the account's
// reconciliation mode and appends the batch totals to the history.
//
// In sum mode the balance is simply the sum of the batch's signed amounts
// and both history totals carry it unchanged.
//
// In history mode the export's two outgo columns diverge: the first is the
// monthly billing total, the second the running charge total. The balance
// owed is the negated running total plus the net of all earlier history
// entries, which carries forward charges billed but not yet settled.
func (a *Assembler) cardBalance(records []*models.Record) (int64, error) {
	last := records[len(records)-1]

	var balance, totalA, totalB int64
	switch mode := a.balanceMode(); mode {
	case ledger.ModeHistory:
		var sum1, sum2 int64
		for _, rec := range records {
			if rec.Outgo1 != nil {
				sum1 += *rec.Outgo1
			}
			if rec.Outgo2 != nil {
				sum2 += *rec.Outgo2
			}
		}
		totalA, totalB = -sum1, -sum2

		var priorA, priorB int64
		if a.History != nil {
			priorA, priorB = a.History.SumBefore(records[0].Date)
		}
		balance = totalB + (priorA - priorB)

		log.WithFields(logrus.Fields{
			"account": a.Filter.Key,
			"billed":  totalA,
			"charged": totalB,
			"carried": priorA - priorB,
			"balance": balance,
		}).Debug("Reconciled card balance from history")
	default:
		for _, rec := range records {
			balance += rec.Amount
		}
		totalA, totalB = balance, balance
	}

	if a.History != nil {
		if err := a.History.Record(last.Date, totalA, totalB); err != nil {
			return 0, fmt.Errorf("error recording balance history: %w", err)
		}
	}
	return balance, nil
}

func appendCardStatement(set *models.CardMessageSet, stmt *models.CardStatement) *models.CardMessageSet {
	if set == nil {
		set = &models.CardMessageSet{}
	}
	set.Statements = append(set.Statements, models.CardStatementResponse{
		TrnUID:    "0",
		Status:    models.StatusOK(),
		Statement: stmt,
	})
	return set
}

package assembler

import (
	"sort"
	"strings"
	"time"

	"csvofx/internal/models"

	"github.com/shopspring/decimal"
)

// fundPriceScale rescales fund quotes, which the sources report per
// ten-thousand units, down to a per-unit price.
var fundPriceScale = decimal.NewFromInt(10000)

// buildInvestment assembles the brokerage branch of the document. Price
// history filters merge every batch into a single position list; regular
// brokerage exports split into trades, cash movements and positions by
// the kind their institution hooks tagged onto each record.
func (a *Assembler) buildInvestment(doc *models.Document, groups map[string][]*models.Record) error {
	if a.Filter.MergePriceHistory {
		return a.buildPriceHistory(doc, groups)
	}

	var trades, cash, holdings []*models.Record
	for _, key := range sortedKeys(groups) {
		for _, rec := range groups[key] {
			switch rec.InvKind {
			case models.InvKindInvest, models.InvKindReinvest:
				trades = append(trades, rec)
			case models.InvKindBankTran:
				cash = append(cash, rec)
			default:
				holdings = append(holdings, rec)
			}
		}
	}

	list := &models.InvTransactionList{}
	for _, rec := range a.Filter.ClassifyTrades(trades) {
		a.appendTrade(list, rec)
	}
	for _, rec := range a.Filter.Classify(cash) {
		list.CashTransactions = append(list.CashTransactions, models.InvBankTransaction{
			Transaction: statementTransaction(rec),
			SubAcctFund: subAccount(rec.HeldInAcct),
		})
	}

	positions, securities := a.buildPositions(holdings)
	if list.IsEmpty() && positions.IsEmpty() {
		return nil
	}
	if list.IsEmpty() {
		list = nil
	}
	if positions.IsEmpty() {
		positions = nil
	}

	a.attachInvestment(doc, models.NewTimestamp(a.Now), list, positions, securities)
	return nil
}

// appendTrade converts one trade record and files it under the element its
// security type and side call for. Sells are recorded with positive units.
func (a *Assembler) appendTrade(list *models.InvTransactionList, rec *models.Record) {
	if rec.InvKind == models.InvKindReinvest {
		list.Reinvestments = append(list.Reinvestments, a.reinvestment(rec))
		return
	}

	secID := models.NewSecurityID(rec.UniqueID, "")
	units := rec.UnitsValue()
	buy := units > 0
	if !buy {
		units = -units
	}
	trade := models.InvTrade{
		InvTran:     models.InvTran{FITID: rec.FITID, Trade: models.NewTimestamp(rec.Date)},
		SecID:       secID,
		Units:       units,
		UnitPrice:   a.unitPrice(rec, secID.Scheme),
		Taxes:       rec.TaxesValue(),
		Fees:        rec.FeesValue(),
		SubAcctSec:  subAccount(rec.HeldInAcct),
		SubAcctFund: "CASH",
	}
	trade.Total = tradeTotal(trade)

	switch secID.Scheme {
	case models.SchemeFund:
		if buy {
			list.BuyFunds = append(list.BuyFunds, models.BuyFund{InvBuy: trade, BuyType: "BUY"})
		} else {
			list.SellFunds = append(list.SellFunds, models.SellFund{InvSell: trade, SellType: "SELL"})
		}
	case models.SchemeDebt:
		if buy {
			list.BuyDebts = append(list.BuyDebts, models.BuyDebt{InvBuy: trade})
		} else {
			list.SellDebts = append(list.SellDebts, models.SellDebt{InvSell: trade, SellType: "SELL"})
		}
	default:
		if buy {
			list.BuyStocks = append(list.BuyStocks, models.BuyStock{InvBuy: trade, BuyType: "BUY"})
		} else {
			list.SellStocks = append(list.SellStocks, models.SellStock{InvSell: trade, SellType: "SELL"})
		}
	}
}

func (a *Assembler) reinvestment(rec *models.Record) models.Reinvestment {
	secID := models.NewSecurityID(rec.UniqueID, "")
	price := a.unitPrice(rec, secID.Scheme)
	units := rec.UnitsValue()
	total := price.Mul(decimal.NewFromInt(units)).
		Sub(decimal.NewFromInt(rec.TaxesValue())).
		Sub(decimal.NewFromInt(rec.FeesValue()))
	return models.Reinvestment{
		InvTran:    models.InvTran{FITID: rec.FITID, Trade: models.NewTimestamp(rec.Date)},
		SecID:      secID,
		IncomeType: "DIV",
		Total:      total.Neg(),
		SubAcctSec: subAccount(rec.HeldInAcct),
		Units:      units,
		UnitPrice:  price,
	}
}

// tradeTotal computes units*price less taxes and fees, after the sell-side
// unit flip has already been applied.
func tradeTotal(trade models.InvTrade) decimal.Decimal {
	return trade.UnitPrice.Mul(decimal.NewFromInt(trade.Units)).
		Sub(decimal.NewFromInt(trade.Taxes)).
		Sub(decimal.NewFromInt(trade.Fees))
}

// unitPrice returns the record's per-unit price with the fund rescale
// applied.
func (a *Assembler) unitPrice(rec *models.Record, scheme models.SecurityScheme) decimal.Decimal {
	price := rec.PriceValue()
	if scheme == models.SchemeFund {
		price = price.Div(fundPriceScale)
	}
	return price
}

// buildPositions converts holding rows into the per-type position list and
// collects the securities they reference. Undated holdings carry no price
// date and the element is omitted.
func (a *Assembler) buildPositions(holdings []*models.Record) (*models.PositionList, *securitySet) {
	positions := &models.PositionList{}
	securities := newSecuritySet()

	for _, rec := range holdings {
		secID := models.NewSecurityID(rec.UniqueID, "")
		price := a.unitPrice(rec, secID.Scheme)
		units := rec.UnitsValue()

		pos := models.Position{
			SecID:       secID,
			HeldInAcct:  subAccount(rec.HeldInAcct),
			PosType:     positionType(rec.PosType),
			Units:       units,
			UnitPrice:   price,
			MarketValue: price.Mul(decimal.NewFromInt(units)),
			Memo:        rec.Memo,
		}
		if rec.HasDate() {
			asOf := models.NewTimestamp(rec.Date)
			pos.PriceAsOf = &asOf
		}
		appendPosition(positions, pos)
		securities.add(rec)
	}
	return positions, securities
}

func appendPosition(list *models.PositionList, pos models.Position) {
	switch pos.SecID.Scheme {
	case models.SchemeFund:
		list.Funds = append(list.Funds, models.FundPosition{Position: pos})
	case models.SchemeDebt:
		list.Debts = append(list.Debts, models.DebtPosition{Position: pos})
	default:
		list.Stocks = append(list.Stocks, models.StockPosition{Position: pos})
	}
}

func subAccount(v string) string {
	if v == "" {
		return "CASH"
	}
	return v
}

func positionType(v string) string {
	if v == "" {
		return "LONG"
	}
	return v
}

// buildPriceHistory merges price-series batches into one position list:
// every dated quote becomes a zero-unit position of its security, sorted
// by date, and the statement's as-of time is the latest quote date. Group
// names carry the security as "code-name"; batches split across files get
// a "_N" suffix and share the base name.
func (a *Assembler) buildPriceHistory(doc *models.Document, groups map[string][]*models.Record) error {
	var quotes []*models.Record
	securities := newSecuritySet()

	for _, key := range sortedKeys(groups) {
		base, _, _ := strings.Cut(key, "_")
		code, name, _ := strings.Cut(base, "-")
		securities.add(&models.Record{UniqueID: code, SecName: name})
		for _, rec := range groups[key] {
			if !rec.HasDate() || rec.Price == nil {
				continue
			}
			if rec.UniqueID == "" {
				rec.UniqueID = code
			}
			if rec.SecName == "" {
				rec.SecName = name
			}
			quotes = append(quotes, rec)
		}
	}
	if len(quotes) == 0 {
		return nil
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Date.Before(quotes[j].Date)
	})

	positions := &models.PositionList{}
	var asOf time.Time
	for _, rec := range quotes {
		secID := models.NewSecurityID(rec.UniqueID, "")
		quoted := models.NewTimestamp(rec.Date)
		appendPosition(positions, models.Position{
			SecID:      secID,
			HeldInAcct: "CASH",
			PosType:    "LONG",
			UnitPrice:  a.unitPrice(rec, secID.Scheme),
			PriceAsOf:  &quoted,
		})
		if rec.Date.After(asOf) {
			asOf = rec.Date
		}
	}

	a.attachInvestment(doc, models.NewTimestamp(asOf), nil, positions, securities)
	return nil
}

// attachInvestment wraps the statement in its envelopes and hangs the
// investment and security-list branches on the document.
func (a *Assembler) attachInvestment(doc *models.Document, asOf models.Timestamp, list *models.InvTransactionList, positions *models.PositionList, securities *securitySet) {
	stmt := &models.InvStatement{
		AsOf:     asOf,
		Currency: a.Filter.Currency,
		Account: models.InvAccount{
			BrokerID: a.Filter.BankID,
			AcctID:   a.Account.AccountID,
		},
		Transactions:  list,
		Positions:     positions,
		MarketingInfo: a.Filter.Name,
	}
	doc.Investment = &models.InvMessageSet{
		Statements: []models.InvStatementResponse{{
			TrnUID:    "0",
			Status:    models.StatusOK(),
			Statement: stmt,
		}},
	}

	if secList := securities.list(); !secList.IsEmpty() {
		doc.Securities = &models.SecListMessageSet{
			TrnResponse: models.SecListTrnResponse{TrnUID: "0", Status: models.StatusOK()},
			List:        *secList,
		}
	}
}

// securitySet deduplicates referenced securities by their unique id while
// keeping first-seen order.
type securitySet struct {
	seen  map[string]bool
	order []*models.Record
}

func newSecuritySet() *securitySet {
	return &securitySet{seen: make(map[string]bool)}
}

func (s *securitySet) add(rec *models.Record) {
	if rec.UniqueID == "" || s.seen[rec.UniqueID] {
		return
	}
	s.seen[rec.UniqueID] = true
	s.order = append(s.order, rec)
}

func (s *securitySet) list() *models.SecurityList {
	list := &models.SecurityList{}
	for _, rec := range s.order {
		secID := models.NewSecurityID(rec.UniqueID, "")
		info := models.SecurityInfo{SecID: secID, Name: rec.SecName}
		switch secID.Scheme {
		case models.SchemeFund:
			list.Funds = append(list.Funds, models.FundInfo{Info: info})
		case models.SchemeDebt:
			debt := models.DebtInfo{
				Info:       info,
				ParValue:   rec.ParValue,
				DebtType:   rec.DebtType,
				CouponRate: rec.CouponRate,
			}
			if !rec.DebtDate.IsZero() {
				maturity := models.NewTimestamp(rec.DebtDate)
				debt.Maturity = &maturity
			}
			list.Debts = append(list.Debts, debt)
		default:
			list.Stocks = append(list.Stocks, models.StockInfo{Info: info})
		}
	}
	return list
}

package assembler

import (
	"testing"
	"time"

	"csvofx/internal/descriptor"
	"csvofx/internal/filter"
	"csvofx/internal/filtererror"
	"csvofx/internal/ledger"
	"csvofx/internal/models"
	"csvofx/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2022, 6, 1, 12, 0, 0, 0, filter.JST)

func bankFormat() descriptor.Format {
	return descriptor.Format{
		{Label: "日付", Field: models.FieldDate},
		{Label: "摘要", Field: models.FieldDesc},
		{Label: "出金", Field: models.FieldOutgo},
		{Label: "入金", Field: models.FieldIncome},
		{Label: "残高", Field: models.FieldBalance},
	}
}

func openHistory(t *testing.T, dir, account string) *ledger.History {
	t.Helper()
	h, err := ledger.Open(dir, account)
	require.NoError(t, err)
	return h
}

func bankRecord(day int, desc string, income, outgo, balance int64) *models.Record {
	rec := &models.Record{
		Date: time.Date(2022, 1, day, 0, 0, 0, 0, filter.JST),
		Desc: desc,
	}
	if income != 0 {
		rec.Income = models.Int64(income)
	}
	if outgo != 0 {
		rec.Outgo = models.Int64(outgo)
	}
	rec.Balance = models.Int64(balance)
	return rec
}

func TestBuild_BankStatement(t *testing.T) {
	dir := t.TempDir()
	f := filter.NewBank("test-bank", "テスト銀行", "999991", bankFormat())
	account := store.Account{Institution: "test-bank", BranchID: "001", AccountID: "1234567"}

	asm := New(f, account, openHistory(t, dir, "口座１"), testNow)
	doc, err := asm.Build(map[string][]*models.Record{
		"sample0": {
			bankRecord(19, "カ－ド", 1000, 0, 41019),
			bankRecord(11, "振込", 0, 500, 40019),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, doc.Bank)
	require.Len(t, doc.Bank.Statements, 1)

	resp := doc.Bank.Statements[0]
	assert.Equal(t, "0", resp.TrnUID)
	assert.Equal(t, 0, resp.Status.Code)
	assert.Equal(t, "INFO", resp.Status.Severity)

	stmt := resp.Statement
	require.NotNil(t, stmt)
	assert.Equal(t, "JPY", stmt.Currency)
	assert.Equal(t, "999991", stmt.Account.BankID)
	assert.Equal(t, "001", stmt.Account.BranchID)
	assert.Equal(t, "1234567", stmt.Account.AcctID)
	assert.Equal(t, "SAVINGS", stmt.Account.AcctType)
	assert.Equal(t, "テスト銀行", stmt.MarketingInfo)

	// Sorted oldest first; the last record's balance is the statement
	// balance and also lands in the history under both totals.
	require.Len(t, stmt.Transactions.Transactions, 2)
	assert.Equal(t, int64(-500), stmt.Transactions.Transactions[0].Amount)
	assert.Equal(t, int64(1000), stmt.Transactions.Transactions[1].Amount)
	assert.Equal(t, int64(41019), stmt.LedgerBalance.Amount)

	h := openHistory(t, dir, "口座１")
	e, ok := h.Get("2022/01/19")
	require.True(t, ok)
	assert.Equal(t, int64(41019), e.TotalA)
	assert.Equal(t, int64(41019), e.TotalB)
}

func TestBuild_NoData(t *testing.T) {
	f := filter.NewBank("test-bank", "テスト銀行", "999991", bankFormat())
	asm := New(f, store.Account{}, nil, testNow)

	_, err := asm.Build(map[string][]*models.Record{"empty": {}})
	var n *filtererror.NoDataError
	assert.ErrorAs(t, err, &n)
}

func creditFilter(mode ledger.Mode) *filter.Filter {
	f := filter.NewCredit("test-credit", "テストカード", bankFormat())
	f.BalanceMode = mode
	return f
}

func cardRecord(month, day int, outgo1, outgo2 int64) *models.Record {
	rec := &models.Record{
		Date: time.Date(2022, time.Month(month), day, 0, 0, 0, 0, filter.JST),
		Desc: "ショップ",
	}
	if outgo1 != 0 {
		rec.Outgo1 = models.Int64(outgo1)
	}
	if outgo2 != 0 {
		rec.Outgo2 = models.Int64(outgo2)
	}
	return rec
}

func TestBuild_CardSumMode(t *testing.T) {
	dir := t.TempDir()
	asm := New(creditFilter(ledger.ModeSum), store.Account{AccountID: "9876"},
		openHistory(t, dir, "口座１２"), testNow)

	doc, err := asm.Build(map[string][]*models.Record{
		"batch": {
			cardRecord(1, 11, 500, 0),
			cardRecord(1, 12, 800, 0),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, doc.CreditCard)
	stmt := doc.CreditCard.Statements[0].Statement
	assert.Equal(t, int64(-1300), stmt.LedgerBalance.Amount)
	assert.Equal(t, "9876", stmt.Account.AcctID)

	e, ok := openHistory(t, dir, "口座１２").Get("2022/01/12")
	require.True(t, ok)
	assert.Equal(t, int64(-1300), e.TotalA)
	assert.Equal(t, int64(-1300), e.TotalB)
}

func TestBuild_CardHistoryMode_EmptyHistory(t *testing.T) {
	dir := t.TempDir()
	asm := New(creditFilter(ledger.ModeHistory), store.Account{AccountID: "9876"},
		openHistory(t, dir, "口座１２"), testNow)

	// First sub-total: newly charged this period. Second sub-total:
	// amount billed this period. With no history the owed balance is
	// simply the negated billed amount.
	doc, err := asm.Build(map[string][]*models.Record{
		"batch": {
			cardRecord(1, 11, 300, 500),
			cardRecord(1, 12, 200, 300),
		},
	})
	require.NoError(t, err)
	stmt := doc.CreditCard.Statements[0].Statement
	assert.Equal(t, int64(-800), stmt.LedgerBalance.Amount)

	e, ok := openHistory(t, dir, "口座１２").Get("2022/01/12")
	require.True(t, ok)
	assert.Equal(t, int64(-500), e.TotalA)
	assert.Equal(t, int64(-800), e.TotalB)
}

func TestBuild_CardHistoryMode_CarryForward(t *testing.T) {
	dir := t.TempDir()
	h := openHistory(t, dir, "口座１２")
	require.NoError(t, h.Record(time.Date(2022, 1, 12, 0, 0, 0, 0, filter.JST), -500, -800))

	asm := New(creditFilter(ledger.ModeHistory), store.Account{AccountID: "9876"},
		openHistory(t, dir, "口座１２"), testNow)
	doc, err := asm.Build(map[string][]*models.Record{
		"batch": {
			cardRecord(2, 10, 300, 400),
		},
	})
	require.NoError(t, err)

	// Charged-but-unbilled from January: -500 - (-800) = 300.
	stmt := doc.CreditCard.Statements[0].Statement
	assert.Equal(t, int64(-100), stmt.LedgerBalance.Amount)

	e, ok := openHistory(t, dir, "口座１２").Get("2022/02/10")
	require.True(t, ok)
	assert.Equal(t, int64(-300), e.TotalA)
	assert.Equal(t, int64(-400), e.TotalB)
}

func TestBuild_CardModeOverrideFromAccount(t *testing.T) {
	dir := t.TempDir()
	account := store.Account{AccountID: "9876", BalanceMode: ledger.ModeSum}
	asm := New(creditFilter(ledger.ModeHistory), account,
		openHistory(t, dir, "口座１２"), testNow)

	doc, err := asm.Build(map[string][]*models.Record{
		"batch": {cardRecord(1, 11, 500, 300)},
	})
	require.NoError(t, err)
	// Sum mode: only the copied first sub-total feeds the amount.
	stmt := doc.CreditCard.Statements[0].Statement
	assert.Equal(t, int64(-500), stmt.LedgerBalance.Amount)
}

func invRecord(day int, kind models.InvKind, code string, units int64, price string) *models.Record {
	return &models.Record{
		Date:     time.Date(2022, 4, day, 0, 0, 0, 0, filter.JST),
		InvKind:  kind,
		UniqueID: code,
		SecName:  "テスト銘柄" + code,
		Units:    models.Int64(units),
		Price:    models.Decimal(decimal.RequireFromString(price)),
	}
}

func TestBuild_InvestmentTradesAndPositions(t *testing.T) {
	f := filter.NewInvestment("test-inv", "テスト証券", "999993", nil)
	asm := New(f, store.Account{AccountID: "777"}, nil, testNow)

	buy := invRecord(5, models.InvKindInvest, "7203", 100, "2218")
	sell := invRecord(6, models.InvKindInvest, "7203", -50, "2190")
	sell.Taxes = models.Int64(120)
	sell.Fees = models.Int64(30)
	fundBuy := invRecord(7, models.InvKindInvest, "04315017", 10000, "21180")
	reinvest := invRecord(8, models.InvKindReinvest, "04315017", 500, "21000")

	stockPos := invRecord(8, models.InvKindNone, "7203", 50, "2169")
	fundPos := invRecord(8, models.InvKindNone, "04315017", 10500, "21100")

	doc, err := asm.Build(map[string][]*models.Record{
		"Invtran": {buy, sell, fundBuy, reinvest},
		"Invpos":  {stockPos, fundPos},
	})
	require.NoError(t, err)
	require.NotNil(t, doc.Investment)
	stmt := doc.Investment.Statements[0].Statement
	require.NotNil(t, stmt)
	assert.Equal(t, "999993", stmt.Account.BrokerID)
	assert.Equal(t, "777", stmt.Account.AcctID)

	list := stmt.Transactions
	require.NotNil(t, list)
	require.Len(t, list.BuyStocks, 1)
	require.Len(t, list.SellStocks, 1)
	require.Len(t, list.BuyFunds, 1)
	require.Len(t, list.Reinvestments, 1)

	buyTrade := list.BuyStocks[0].InvBuy
	assert.Equal(t, models.SchemeEquity, buyTrade.SecID.Scheme)
	assert.Equal(t, int64(100), buyTrade.Units)
	assert.True(t, buyTrade.Total.Equal(decimal.RequireFromString("221800")))

	// Sells flip to positive units; taxes and fees reduce the total.
	sellTrade := list.SellStocks[0].InvSell
	assert.Equal(t, int64(50), sellTrade.Units)
	assert.True(t, sellTrade.Total.Equal(decimal.RequireFromString("109350")))
	assert.Equal(t, "SELL", list.SellStocks[0].SellType)

	// Fund quotes are per 10,000 units.
	fundTrade := list.BuyFunds[0].InvBuy
	assert.Equal(t, models.SchemeFund, fundTrade.SecID.Scheme)
	assert.True(t, fundTrade.UnitPrice.Equal(decimal.RequireFromString("2.118")))
	assert.True(t, fundTrade.Total.Equal(decimal.RequireFromString("21180")))

	// Reinvested income totals negative.
	assert.True(t, list.Reinvestments[0].Total.Equal(decimal.RequireFromString("-1050")))

	positions := stmt.Positions
	require.NotNil(t, positions)
	require.Len(t, positions.Stocks, 1)
	require.Len(t, positions.Funds, 1)
	assert.True(t, positions.Stocks[0].Position.MarketValue.Equal(decimal.RequireFromString("108450")))
	assert.True(t, positions.Funds[0].Position.MarketValue.Equal(decimal.RequireFromString("22155")))
	assert.Equal(t, "CASH", positions.Stocks[0].Position.HeldInAcct)
	assert.Equal(t, "LONG", positions.Stocks[0].Position.PosType)

	require.NotNil(t, doc.Securities)
	assert.Len(t, doc.Securities.List.Stocks, 1)
	assert.Len(t, doc.Securities.List.Funds, 1)
}

func TestBuild_PositionPriceDateOmittedWhenUndated(t *testing.T) {
	f := filter.NewInvestment("test-inv", "テスト証券", "999993", nil)
	asm := New(f, store.Account{AccountID: "777"}, nil, testNow)

	dated := invRecord(8, models.InvKindNone, "7203", 50, "2169")
	undated := &models.Record{
		InvKind:  models.InvKindNone,
		UniqueID: "9984",
		SecName:  "テスト銘柄9984",
		Units:    models.Int64(10),
		Price:    models.Decimal(decimal.RequireFromString("5500")),
	}

	doc, err := asm.Build(map[string][]*models.Record{
		"Invpos": {dated, undated},
	})
	require.NoError(t, err)
	stmt := doc.Investment.Statements[0].Statement
	require.Len(t, stmt.Positions.Stocks, 2)

	require.NotNil(t, stmt.Positions.Stocks[0].Position.PriceAsOf)
	assert.Equal(t, "20220408000000",
		stmt.Positions.Stocks[0].Position.PriceAsOf.Format("20060102150405"))
	assert.Nil(t, stmt.Positions.Stocks[1].Position.PriceAsOf)
}

func TestBuild_PriceHistoryMerge(t *testing.T) {
	f := filter.NewInvestment("test-prices", "価格OFX", "900000", nil)
	f.MergePriceHistory = true
	asm := New(f, store.Account{AccountID: "004"}, nil, testNow)

	quote := func(day int, price string) *models.Record {
		return &models.Record{
			Date:  time.Date(2022, 4, day, 0, 0, 0, 0, filter.JST),
			Price: models.Decimal(decimal.RequireFromString(price)),
		}
	}

	doc, err := asm.Build(map[string][]*models.Record{
		"7203-トヨタ自動車":         {quote(5, "2218"), quote(6, "2190")},
		"04315017-ダイワ上場投信":    {quote(5, "21180")},
		"9984-ソフトバンクグループ_1": {quote(5, "5500")},
		"9984-ソフトバンクグループ_2": {quote(7, "5600")},
	})
	require.NoError(t, err)
	stmt := doc.Investment.Statements[0].Statement
	require.NotNil(t, stmt)

	// Every quote becomes a zero-unit position; split batches merge.
	require.NotNil(t, stmt.Positions)
	assert.Len(t, stmt.Positions.Stocks, 4)
	assert.Len(t, stmt.Positions.Funds, 1)
	assert.Nil(t, stmt.Transactions)

	// Statement as-of is the latest quote date.
	assert.Equal(t, "20220407000000", stmt.AsOf.Format("20060102150405"))

	require.NotNil(t, doc.Securities)
	assert.Len(t, doc.Securities.List.Stocks, 2)
	assert.Len(t, doc.Securities.List.Funds, 1)

	fund := stmt.Positions.Funds[0].Position
	assert.True(t, fund.UnitPrice.Equal(decimal.RequireFromString("2.118")))
	assert.Equal(t, int64(0), fund.Units)
	assert.Equal(t, "7203", stmt.Positions.Stocks[0].Position.SecID.UniqueID)
}

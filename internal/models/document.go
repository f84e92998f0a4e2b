package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is the assembled statement tree for one account, ready to be
// handed to the serializer. Exactly one of the statement branches is
// populated per conversion; Securities accompanies Investment.
type Document struct {
	Bank       *BankMessageSet
	CreditCard *CardMessageSet
	Investment *InvMessageSet
	Securities *SecListMessageSet
}

// Timestamp wraps time.Time with the compact statement wire encoding
// (YYYYMMDDHHMMSS).
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t for serialization.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// MarshalText implements encoding.TextMarshaler.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.Format("20060102150405")), nil
}

// Status is the fixed per-response status block: code zero, informational.
type Status struct {
	Code     int    `xml:"CODE"`
	Severity string `xml:"SEVERITY"`
}

// StatusOK is the status attached to every generated response.
func StatusOK() Status {
	return Status{Code: 0, Severity: "INFO"}
}

// StatementTransaction is one transaction line of a cash or card statement.
type StatementTransaction struct {
	TrnType string    `xml:"TRNTYPE"`
	Posted  Timestamp `xml:"DTPOSTED"`
	Amount  int64     `xml:"TRNAMT"`
	FITID   string    `xml:"FITID"`
	Name    string    `xml:"NAME,omitempty"`
	Memo    string    `xml:"MEMO,omitempty"`
}

// TransactionList carries the statement period and its transactions.
type TransactionList struct {
	Start        Timestamp              `xml:"DTSTART"`
	End          Timestamp              `xml:"DTEND"`
	Transactions []StatementTransaction `xml:"STMTTRN"`
}

// Balance is a ledger balance with its as-of time.
type Balance struct {
	Amount int64     `xml:"BALAMT"`
	AsOf   Timestamp `xml:"DTASOF"`
}

// BankAccount identifies the source cash account.
type BankAccount struct {
	BankID   string `xml:"BANKID"`
	BranchID string `xml:"BRANCHID"`
	AcctID   string `xml:"ACCTID"`
	AcctType string `xml:"ACCTTYPE"`
}

// BankStatement is one cash-account statement.
type BankStatement struct {
	Currency      string          `xml:"CURDEF"`
	Account       BankAccount     `xml:"BANKACCTFROM"`
	Transactions  TransactionList `xml:"BANKTRANLIST"`
	LedgerBalance Balance         `xml:"LEDGERBAL"`
	MarketingInfo string          `xml:"MKTGINFO,omitempty"`
}

// BankStatementResponse wraps a bank statement in its response envelope.
type BankStatementResponse struct {
	TrnUID    string         `xml:"TRNUID"`
	Status    Status         `xml:"STATUS"`
	Statement *BankStatement `xml:"STMTRS"`
}

// BankMessageSet is the cash-account branch of the document.
type BankMessageSet struct {
	Statements []BankStatementResponse `xml:"STMTTRNRS"`
}

// CardAccount identifies the source card account.
type CardAccount struct {
	AcctID string `xml:"ACCTID"`
}

// CardStatement is one credit-card statement.
type CardStatement struct {
	Currency      string          `xml:"CURDEF"`
	Account       CardAccount     `xml:"CCACCTFROM"`
	Transactions  TransactionList `xml:"BANKTRANLIST"`
	LedgerBalance Balance         `xml:"LEDGERBAL"`
	MarketingInfo string          `xml:"MKTGINFO,omitempty"`
}

// CardStatementResponse wraps a card statement in its response envelope.
type CardStatementResponse struct {
	TrnUID    string         `xml:"TRNUID"`
	Status    Status         `xml:"STATUS"`
	Statement *CardStatement `xml:"CCSTMTRS"`
}

// CardMessageSet is the credit-card branch of the document.
type CardMessageSet struct {
	Statements []CardStatementResponse `xml:"CCSTMTTRNRS"`
}

// InvAccount identifies the source brokerage account.
type InvAccount struct {
	BrokerID string `xml:"BROKERID"`
	AcctID   string `xml:"ACCTID"`
}

// InvTran carries the id and trade time of one investment transaction.
type InvTran struct {
	FITID string    `xml:"FITID"`
	Trade Timestamp `xml:"DTTRADE"`
}

// InvTrade is the shared detail of a buy or sell.
type InvTrade struct {
	InvTran     InvTran          `xml:"INVTRAN"`
	SecID       SecurityID       `xml:"SECID"`
	Units       int64            `xml:"UNITS"`
	UnitPrice   decimal.Decimal  `xml:"UNITPRICE"`
	Taxes       int64            `xml:"TAXES"`
	Fees        int64            `xml:"FEES"`
	Total       decimal.Decimal  `xml:"TOTAL"`
	SubAcctSec  string           `xml:"SUBACCTSEC,omitempty"`
	SubAcctFund string           `xml:"SUBACCTFUND,omitempty"`
}

// BuyStock, SellStock, BuyFund, SellFund, BuyDebt and SellDebt wrap
// InvTrade under the element the target schema expects per security type
// and trade side.
type BuyStock struct {
	InvBuy  InvTrade `xml:"INVBUY"`
	BuyType string   `xml:"BUYTYPE"`
}

type SellStock struct {
	InvSell  InvTrade `xml:"INVSELL"`
	SellType string   `xml:"SELLTYPE"`
}

type BuyFund struct {
	InvBuy  InvTrade `xml:"INVBUY"`
	BuyType string   `xml:"BUYTYPE"`
}

type SellFund struct {
	InvSell  InvTrade `xml:"INVSELL"`
	SellType string   `xml:"SELLTYPE"`
}

type BuyDebt struct {
	InvBuy InvTrade `xml:"INVBUY"`
}

type SellDebt struct {
	InvSell  InvTrade `xml:"INVSELL"`
	SellType string   `xml:"SELLTYPE"`
}

// Reinvestment is an income reinvestment transaction.
type Reinvestment struct {
	InvTran    InvTran         `xml:"INVTRAN"`
	SecID      SecurityID      `xml:"SECID"`
	IncomeType string          `xml:"INCOMETYPE"`
	Total      decimal.Decimal `xml:"TOTAL"`
	SubAcctSec string          `xml:"SUBACCTSEC,omitempty"`
	Units      int64           `xml:"UNITS"`
	UnitPrice  decimal.Decimal `xml:"UNITPRICE"`
}

// InvBankTransaction is a cash movement inside a brokerage account.
type InvBankTransaction struct {
	Transaction StatementTransaction `xml:"STMTTRN"`
	SubAcctFund string               `xml:"SUBACCTFUND"`
}

// InvTransactionList groups investment transactions by security type and
// trade side. Empty slices are omitted from serialization.
type InvTransactionList struct {
	BuyStocks        []BuyStock           `xml:"BUYSTOCK,omitempty"`
	SellStocks       []SellStock          `xml:"SELLSTOCK,omitempty"`
	BuyFunds         []BuyFund            `xml:"BUYMF,omitempty"`
	SellFunds        []SellFund           `xml:"SELLMF,omitempty"`
	BuyDebts         []BuyDebt            `xml:"BUYDEBT,omitempty"`
	SellDebts        []SellDebt           `xml:"SELLDEBT,omitempty"`
	Reinvestments    []Reinvestment       `xml:"REINVEST,omitempty"`
	CashTransactions []InvBankTransaction `xml:"INVBANKTRAN,omitempty"`
}

// IsEmpty reports whether the list holds no transactions at all.
func (l *InvTransactionList) IsEmpty() bool {
	return l == nil || (len(l.BuyStocks) == 0 && len(l.SellStocks) == 0 &&
		len(l.BuyFunds) == 0 && len(l.SellFunds) == 0 &&
		len(l.BuyDebts) == 0 && len(l.SellDebts) == 0 &&
		len(l.Reinvestments) == 0 && len(l.CashTransactions) == 0)
}

// Position is one held security with its valuation.
type Position struct {
	SecID       SecurityID      `xml:"SECID"`
	HeldInAcct  string          `xml:"HELDINACCT"`
	PosType     string          `xml:"POSTYPE"`
	Units       int64           `xml:"UNITS"`
	UnitPrice   decimal.Decimal `xml:"UNITPRICE"`
	MarketValue decimal.Decimal `xml:"MKTVAL"`
	PriceAsOf   *Timestamp      `xml:"DTPRICEASOF,omitempty"`
	Memo        string          `xml:"MEMO,omitempty"`
}

type StockPosition struct {
	Position Position `xml:"INVPOS"`
}

type FundPosition struct {
	Position Position `xml:"INVPOS"`
}

type DebtPosition struct {
	Position Position `xml:"INVPOS"`
}

// PositionList groups positions by security type.
type PositionList struct {
	Stocks []StockPosition `xml:"POSSTOCK,omitempty"`
	Funds  []FundPosition  `xml:"POSMF,omitempty"`
	Debts  []DebtPosition  `xml:"POSDEBT,omitempty"`
}

// IsEmpty reports whether the list holds no positions.
func (l *PositionList) IsEmpty() bool {
	return l == nil || (len(l.Stocks) == 0 && len(l.Funds) == 0 && len(l.Debts) == 0)
}

// InvBalance carries the brokerage cash balances. Computation of the three
// sub-balances is not implemented; they are emitted as zero.
type InvBalance struct {
	AvailCash     int64 `xml:"AVAILCASH"`
	MarginBalance int64 `xml:"MARGINBALANCE"`
	ShortBalance  int64 `xml:"SHORTBALANCE"`
}

// InvStatement is one investment statement.
type InvStatement struct {
	AsOf          Timestamp           `xml:"DTASOF"`
	Currency      string              `xml:"CURDEF"`
	Account       InvAccount          `xml:"INVACCTFROM"`
	Transactions  *InvTransactionList `xml:"INVTRANLIST"`
	Positions     *PositionList       `xml:"INVPOSLIST"`
	Balance       InvBalance          `xml:"INVBAL"`
	MarketingInfo string              `xml:"MKTGINFO,omitempty"`
}

// InvStatementResponse wraps an investment statement in its response
// envelope.
type InvStatementResponse struct {
	TrnUID    string        `xml:"TRNUID"`
	Status    Status        `xml:"STATUS"`
	Statement *InvStatement `xml:"INVSTMTRS"`
}

// InvMessageSet is the investment branch of the document.
type InvMessageSet struct {
	Statements []InvStatementResponse `xml:"INVSTMTTRNRS"`
}

// SecurityInfo names one security.
type SecurityInfo struct {
	SecID SecurityID `xml:"SECID"`
	Name  string     `xml:"SECNAME"`
}

type StockInfo struct {
	Info SecurityInfo `xml:"SECINFO"`
}

type FundInfo struct {
	Info SecurityInfo `xml:"SECINFO"`
}

// DebtInfo names a debt security; the bond-only fields are carried only
// when the source provided them.
type DebtInfo struct {
	Info       SecurityInfo     `xml:"SECINFO"`
	ParValue   *int64           `xml:"PARVALUE,omitempty"`
	DebtType   string           `xml:"DEBTTYPE,omitempty"`
	CouponRate *decimal.Decimal `xml:"COUPONRT,omitempty"`
	Maturity   *Timestamp       `xml:"DTMAT,omitempty"`
}

// SecurityList is the per-type reference list of securities.
type SecurityList struct {
	Stocks []StockInfo `xml:"STOCKINFO,omitempty"`
	Funds  []FundInfo  `xml:"MFINFO,omitempty"`
	Debts  []DebtInfo  `xml:"DEBTINFO,omitempty"`
}

// IsEmpty reports whether the list names no securities.
func (l *SecurityList) IsEmpty() bool {
	return l == nil || (len(l.Stocks) == 0 && len(l.Funds) == 0 && len(l.Debts) == 0)
}

// SecListTrnResponse acknowledges the security list request.
type SecListTrnResponse struct {
	TrnUID string `xml:"TRNUID"`
	Status Status `xml:"STATUS"`
}

// SecListMessageSet is the security-list branch of the document.
type SecListMessageSet struct {
	TrnResponse SecListTrnResponse `xml:"SECLISTTRNRS"`
	List        SecurityList       `xml:"SECLIST"`
}

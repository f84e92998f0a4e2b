package ofxgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"csvofx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

func sampleDocument() *models.Document {
	posted := time.Date(2022, 1, 19, 0, 0, 0, 0, jst)
	return &models.Document{
		Bank: &models.BankMessageSet{
			Statements: []models.BankStatementResponse{{
				TrnUID: "0",
				Status: models.StatusOK(),
				Statement: &models.BankStatement{
					Currency: "JPY",
					Account: models.BankAccount{
						BankID:   "0005",
						BranchID: "123",
						AcctID:   "4567890",
						AcctType: "SAVINGS",
					},
					Transactions: models.TransactionList{
						Start: models.NewTimestamp(posted),
						End:   models.NewTimestamp(posted),
						Transactions: []models.StatementTransaction{{
							TrnType: "DIRECTDEP",
							Posted:  models.NewTimestamp(posted),
							Amount:  1000,
							FITID:   "20220119-000-12345",
							Name:    "カ－ド",
						}},
					},
					LedgerBalance: models.Balance{
						Amount: 41019,
						AsOf:   models.NewTimestamp(posted),
					},
					MarketingInfo: "テスト銀行",
				},
			}},
		},
	}
}

func TestRender_Prolog(t *testing.T) {
	g := New(jst)
	now := time.Date(2022, 6, 1, 12, 30, 45, 0, jst)

	data, err := g.Render(sampleDocument(), now)
	require.NoError(t, err)

	out := string(data)
	lines := strings.SplitN(out, "\n", 3)
	require.Len(t, lines, 3)
	assert.Equal(t, `<?xml version="1.0" encoding="utf-8"?>`, lines[0])
	assert.Equal(t, `<?OFX OFXHEADER="200" VERSION="200" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"?>`, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "<OFX>"))
	assert.True(t, strings.HasSuffix(out, "</OFX>\n"))
}

func TestRender_SignOnAndBody(t *testing.T) {
	g := New(jst)
	now := time.Date(2022, 6, 1, 12, 30, 45, 0, jst)

	data, err := g.Render(sampleDocument(), now)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "<SIGNONMSGSRSV1>")
	assert.Contains(t, out, "<DTSERVER>20220601123045</DTSERVER>")
	assert.Contains(t, out, "<LANGUAGE>JPN</LANGUAGE>")
	assert.Contains(t, out, "<ORG>csvofx/1.0</ORG>")
	assert.Contains(t, out, "<CODE>0</CODE>")
	assert.Contains(t, out, "<SEVERITY>INFO</SEVERITY>")

	assert.Contains(t, out, "<BANKMSGSRSV1>")
	assert.Contains(t, out, "<CURDEF>JPY</CURDEF>")
	assert.Contains(t, out, "<BANKID>0005</BANKID>")
	assert.Contains(t, out, "<TRNAMT>1000</TRNAMT>")
	assert.Contains(t, out, "<DTPOSTED>20220119000000</DTPOSTED>")
	assert.Contains(t, out, "<BALAMT>41019</BALAMT>")
	assert.Contains(t, out, "<NAME>カ－ド</NAME>")
	assert.Contains(t, out, "<MKTGINFO>テスト銀行</MKTGINFO>")
}

func TestRender_OmitsAbsentBranches(t *testing.T) {
	g := New(jst)
	data, err := g.Render(sampleDocument(), time.Now())
	require.NoError(t, err)
	out := string(data)

	assert.NotContains(t, out, "CREDITCARDMSGSRSV1")
	assert.NotContains(t, out, "INVSTMTMSGSRSV1")
	assert.NotContains(t, out, "SECLISTMSGSRSV1")
}

func TestRender_OmitsEmptyMemo(t *testing.T) {
	g := New(jst)
	data, err := g.Render(sampleDocument(), time.Now())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<MEMO>")
}

func TestFileName(t *testing.T) {
	now := time.Date(2022, 6, 1, 12, 0, 0, 0, jst)
	assert.Equal(t, "OFX_口座１_20220601.ofx", FileName("口座１", now))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	g := New(jst)
	now := time.Date(2022, 6, 1, 12, 0, 0, 0, jst)

	path, err := g.Save(sampleDocument(), dir, "口座１", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "OFX_口座１_20220601.ofx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<BANKID>0005</BANKID>")
}

func TestNew_DefaultLocation(t *testing.T) {
	g := New(nil)
	require.NotNil(t, g.Location)
	_, offset := time.Date(2022, 1, 1, 0, 0, 0, 0, g.Location).Zone()
	assert.Equal(t, 9*60*60, offset)
}

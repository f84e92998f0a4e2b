package institutions

import (
	"testing"
	"time"

	"csvofx/internal/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAll(t *testing.T) {
	RegisterAll()

	for _, key := range []string{
		"mufj", "mufj-checking", "smbc", "smbc-checking", "sumishin-sbi",
		"jibun", "smartreceipt", "btmu-visa", "aeon", "au-card",
		"au-wallet", "au-card-usage", "stock-history",
	} {
		_, ok := filter.Lookup(key)
		assert.True(t, ok, "filter %s not registered", key)
	}

	f, ok := filter.LookupByName("三菱UFJ銀行")
	require.True(t, ok)
	assert.Equal(t, "mufj", f.Key)
}

func TestMUFJ_SwapsDescAndMemo(t *testing.T) {
	f := newMUFJBank()
	records, skipped, err := f.ParseRows([][]string{
		{"2022/1/19", "カ－ド", "振込　タロウ", "", "1000", "41019", "", "", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)

	classified := f.Classify(records)
	require.Len(t, classified, 1)
	assert.Equal(t, "振込　タロウ", classified[0].Desc)
	assert.Equal(t, "カ－ド", classified[0].Memo)
}

func TestJibun_ReversesNewestFirstExports(t *testing.T) {
	f := newJibunBank()
	rows := [][]string{
		{"入出金明細"},
		{"照会結果は新しい順に表示されます。"},
		{"年月日", "お取引内容", "出金", "入金", "残高", "メモ"},
		{"2022/1/19", "振込", "", "1000", "41019", ""},
		{"2022/1/11", "引落", "500", "", "40019", ""},
	}

	blocks, err := f.Analyze(rows)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0], 2)
	assert.Equal(t, "2022/1/11", blocks[0][0][0])
	assert.Equal(t, "2022/1/19", blocks[0][1][0])
}

func TestJibun_ReversalLeavesSharedRowsIntact(t *testing.T) {
	// One input file can concatenate several institutions' exports, and
	// every filter probes the same row matrix. The newest-first reversal
	// must not reorder rows that another filter's block will slice.
	jibun := newJibunBank()
	smbc := newSMBCBank()
	rows := [][]string{
		{"入出金明細"},
		{"照会結果は新しい順に表示されます。"},
		{"年月日", "お取引内容", "出金", "入金", "残高", "メモ"},
		{"2022/1/19", "振込", "", "1000", "41019", ""},
		{"2022/1/11", "引落", "500", "", "40019", ""},
		{"年月日", "お引出し", "お預入れ", "お取り扱い内容", "残高", "メモ", "ラベル"},
		{"2022/2/1", "", "2000", "給与", "43019", "", ""},
		{"2022/2/2", "300", "", "振込", "42719", "", ""},
	}

	jibunBlocks, err := jibun.Analyze(rows)
	require.NoError(t, err)
	require.Len(t, jibunBlocks, 1)

	// The shared matrix keeps its source order.
	assert.Equal(t, "2022/1/19", rows[3][0])
	assert.Equal(t, "2022/2/1", rows[6][0])

	smbcBlocks, err := smbc.Analyze(rows)
	require.NoError(t, err)
	require.Len(t, smbcBlocks, 1)
	require.Len(t, smbcBlocks[0], 2)
	assert.Equal(t, "2022/2/1", smbcBlocks[0][0][0])
	assert.Equal(t, "2022/2/2", smbcBlocks[0][1][0])
}

func TestJibun_KeepsOldestFirstExports(t *testing.T) {
	f := newJibunBank()
	rows := [][]string{
		{"入出金明細"},
		{"照会結果は古い順に表示されます。"},
		{"年月日", "お取引内容", "出金", "入金", "残高", "メモ"},
		{"2022/1/11", "引落", "500", "", "40019", ""},
		{"2022/1/19", "振込", "", "1000", "41019", ""},
	}

	blocks, err := f.Analyze(rows)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "2022/1/11", blocks[0][0][0])
}

func TestSmartreceipt_ItemLines(t *testing.T) {
	f := newSmartreceipt()
	records, skipped, err := f.ParseRows([][]string{
		{"2022/1/11", "トウホク", "ビッグハウス", "", "", "", "", "ね ぎ", "100", "2", ""},
		{"2022/1/11", "トウホク", "ビッグハウス", "", "", "", "", "割引", "-50", "0", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)

	classified := f.Classify(records)
	require.Len(t, classified, 2)

	item := classified[0]
	assert.Equal(t, "トウホク ビッグハウス", item.Desc)
	assert.Equal(t, "ねぎ @100円x2個", item.Memo)
	require.NotNil(t, item.Outgo)
	assert.Equal(t, int64(200), *item.Outgo)
	assert.Equal(t, int64(-200), item.Amount)
	assert.Equal(t, "CREDIT", item.TrnType)

	// A zero count marks a discount whose unit price is the full amount.
	discount := classified[1]
	require.NotNil(t, discount.Outgo)
	assert.Equal(t, int64(-50), *discount.Outgo)
	assert.Equal(t, int64(50), discount.Amount)
	assert.Equal(t, "割引", discount.Memo)
}

func TestAEON_ExpandsTwoDigitYear(t *testing.T) {
	f := newAEONCard()
	records, skipped, err := f.ParseRows([][]string{
		{"220111", "本人", "スーパー", "１回払い", "", "", "1,500", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, records, 1)

	assert.Equal(t, time.Date(2022, 1, 11, 0, 0, 0, 0, filter.JST).Unix(),
		records[0].Date.Unix())
	require.NotNil(t, records[0].Outgo)
	assert.Equal(t, int64(1500), *records[0].Outgo)
}

func TestAUWallet_DirectionMarker(t *testing.T) {
	f := newAUCardWallet()
	records, skipped, err := f.ParseRows([][]string{
		{"", "2022/1/11 18:30", "コンビニ", "支払", "1000", "", "", "", ""},
		{"", "2022/1/12 9:00", "オートチャージ", "チャージ", "5000", "", "", "", ""},
		{"", "2022/1/13 10:00", "ＡＴＭ", "払出", "2000", "", "", "", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)

	classified := f.Classify(records)
	require.Len(t, classified, 3)

	assert.Equal(t, int64(-1000), classified[0].Amount)
	assert.Equal(t, int64(5000), classified[1].Amount)
	assert.Equal(t, int64(-2000), classified[2].Amount)
}

func TestStockHistory_AltHeaders(t *testing.T) {
	f := newStockHistory()

	for _, header := range []string{"価格", "終値", "基準価額"} {
		blocks, err := f.Analyze([][]string{
			{"日付", header},
			{"2022-01-11", "2218"},
		})
		require.NoError(t, err)
		require.Len(t, blocks, 1, "header %s not recognized", header)
		assert.Len(t, blocks[0], 1)
	}
	assert.True(t, f.MergePriceHistory)
}

// Package institutions defines the concrete filter for every supported
// source institution and registers them with the filter registry.
package institutions

import (
	"strings"

	"csvofx/internal/descriptor"
	"csvofx/internal/filter"
	"csvofx/internal/models"
)

// RegisterAll registers every institution filter. Call once at startup.
func RegisterAll() {
	for _, f := range []*filter.Filter{
		newMUFJBank(),
		newMUFJBankChecking(),
		newSMBCBank(),
		newSMBCBankChecking(),
		newSumishinNetBank(),
		newJibunBank(),
		newSmartreceipt(),
		newBTMUVisa(),
		newAEONCard(),
		newAUCard(),
		newAUCardWallet(),
		newAUCardUsage(),
		newStockHistory(),
	} {
		filter.Register(f)
	}
}

// swapDescMemo exchanges description and memo on the finished records,
// matching the field layout downstream money managers expect from this
// bank's statements.
func swapDescMemo(_ *filter.Filter, recs []*models.Record) {
	for _, rec := range recs {
		rec.Desc, rec.Memo = rec.Memo, rec.Desc
	}
}

func newMUFJBank() *filter.Filter {
	f := filter.NewBank("mufj", "三菱UFJ銀行", "0005", descriptor.Format{
		{Label: "日付", Field: models.FieldDate},
		{Label: "摘要", Field: models.FieldDesc},
		{Label: "摘要内容", Field: models.FieldMemo},
		{Label: "支払い金額", Field: models.FieldOutgo},
		{Label: "預かり金額", Field: models.FieldIncome},
		{Label: "差引残高", Field: models.FieldBalance},
		{Label: "メモ", Field: models.FieldNone},
		{Label: "未資金化区分", Field: models.FieldNone},
		{Label: "入払区分", Field: models.FieldNone},
	})
	f.PostClassify = swapDescMemo
	return f
}

func newMUFJBankChecking() *filter.Filter {
	f := newMUFJBank()
	f.Key = "mufj-checking"
	f.Name = "三菱UFJ銀行（当座）"
	f.AcctType = "CHECKING"
	return f
}

func newSMBCBank() *filter.Filter {
	return filter.NewBank("smbc", "三井住友銀行", "0009", descriptor.Format{
		{Label: "年月日", Field: models.FieldDate},
		{Label: "お引出し", Field: models.FieldOutgo},
		{Label: "お預入れ", Field: models.FieldIncome},
		{Label: "お取り扱い内容", Field: models.FieldDesc},
		{Label: "残高", Field: models.FieldBalance},
		{Label: "メモ", Field: models.FieldMemo},
		{Label: "ラベル", Field: models.FieldNone},
	})
}

func newSMBCBankChecking() *filter.Filter {
	f := newSMBCBank()
	f.Key = "smbc-checking"
	f.Name = "三井住友銀行（当座）"
	f.AcctType = "CHECKING"
	return f
}

func newSumishinNetBank() *filter.Filter {
	return filter.NewBank("sumishin-sbi", "住信SBIネット銀行", "0038", descriptor.Format{
		{Label: "日付", Field: models.FieldDate},
		{Label: "内容", Field: models.FieldDesc},
		{Label: "出金金額(円)", Field: models.FieldOutgo},
		{Label: "入金金額(円)", Field: models.FieldIncome},
		{Label: "残高(円)", Field: models.FieldBalance},
		{Label: "メモ", Field: models.FieldMemo},
	})
}

func newJibunBank() *filter.Filter {
	f := filter.NewBank("jibun", "じぶん銀行", "0039", descriptor.Format{
		{Label: "年月日", Field: models.FieldDate},
		{Label: "お取引内容", Field: models.FieldDesc},
		{Label: "出金", Field: models.FieldOutgo},
		{Label: "入金", Field: models.FieldIncome},
		{Label: "残高", Field: models.FieldBalance},
		{Label: "メモ", Field: models.FieldMemo},
	})
	// The export's second line announces the sort order; newest-first
	// files are reversed so transactions come out oldest first. Blocks
	// alias the caller's row matrix, which other filters still probe, so
	// the reversal works on copies.
	f.AnalyzeHook = func(_ *filter.Filter, rows [][]string, blocks [][][]string) [][][]string {
		if blocks == nil {
			return nil
		}
		if len(rows) < 2 || len(rows[1]) < 1 || !strings.Contains(rows[1][0], "新しい順") {
			return blocks
		}
		reversed := make([][][]string, len(blocks))
		for b, block := range blocks {
			block = append([][]string(nil), block...)
			for i, j := 0, len(block)-1; i < j; i, j = i+1, j-1 {
				block[i], block[j] = block[j], block[i]
			}
			reversed[b] = block
		}
		return reversed
	}
	return f
}

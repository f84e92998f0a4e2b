package institutions

import (
	"fmt"
	"strings"

	"csvofx/internal/descriptor"
	"csvofx/internal/filter"
	"csvofx/internal/ledger"
	"csvofx/internal/models"
)

// newSmartreceipt handles the receipt-detail export: tab separated, one
// line per purchased item carrying unit price and count instead of an
// amount column.
func newSmartreceipt() *filter.Filter {
	f := filter.NewCredit("smartreceipt", "明細：スマートレシート", descriptor.Format{
		{Label: "日付", Field: models.FieldDate},
		{Label: "企業名", Field: models.FieldDesc1},
		{Label: "お店", Field: models.FieldDesc2},
		{Label: "電話番号", Field: models.FieldNone},
		{Label: "カテゴリー", Field: models.FieldNone},
		{Label: "出金", Field: models.FieldNone},
		{Label: "入金", Field: models.FieldNone},
		{Label: "品名", Field: models.FieldMemo},
		{Label: "単価", Field: models.FieldUnitPrice},
		{Label: "数量", Field: models.FieldItemCount},
		{Label: "メモ", Field: models.FieldMemo2},
	})
	f.Separator = '\t'
	f.ConvertField = smartreceiptConvert
	f.PreClassify = smartreceiptPreClassify
	return f
}

func smartreceiptConvert(_ *filter.Filter, rec *models.Record, field models.Field, value string) (bool, error) {
	switch field {
	case models.FieldUnitPrice:
		v, err := filter.ParseAmount(field, value)
		if err != nil {
			return true, err
		}
		rec.UnitPrice = models.Int64(v)
	case models.FieldItemCount:
		v, err := filter.ParseAmount(field, value)
		if err != nil {
			return true, err
		}
		rec.ItemCount = models.Int64(v)
	case models.FieldDesc1:
		rec.Desc1 = value
	case models.FieldDesc2:
		rec.Desc2 = value
	case models.FieldMemo:
		rec.Memo = strings.ReplaceAll(value, " ", "")
	case models.FieldMemo2:
		rec.Memo2 = strings.ReplaceAll(value, " ", "")
	default:
		return false, nil
	}
	return true, nil
}

// smartreceiptPreClassify turns item lines into charges: amount is
// unit×count, the price breakdown is appended to the memo, and company
// plus shop form the description. A zero count marks a discount line whose
// unit price is already the full (negative) amount.
func smartreceiptPreClassify(_ *filter.Filter, recs []*models.Record) []*models.Record {
	kept := recs[:0]
	for _, rec := range recs {
		if rec.UnitPrice == nil || rec.ItemCount == nil {
			continue
		}
		unit, count := *rec.UnitPrice, *rec.ItemCount
		if count == 0 {
			rec.Outgo = models.Int64(unit)
		} else {
			rec.Outgo = models.Int64(unit * count)
			memo := fmt.Sprintf(" @%d円x%d個", unit, count)
			if rec.Memo2 != "" {
				memo += rec.Memo2
			}
			rec.Memo += memo
		}
		rec.Desc = rec.Desc1 + " " + rec.Desc2
		kept = append(kept, rec)
	}
	return kept
}

func newBTMUVisa() *filter.Filter {
	f := filter.NewCredit("btmu-visa", "三菱東京UFJ-VISA", descriptor.Format{
		{Label: "利用日", Field: models.FieldDate},
		{Label: "利用者", Field: models.FieldNone},
		{Label: "利用区分", Field: models.FieldNone},
		{Label: "利用内容", Field: models.FieldDesc},
		{Label: "新規利用額", Field: models.FieldOutgo1},
		{Label: "今回請求額", Field: models.FieldOutgo2},
		{Label: "支払回数", Field: models.FieldNone},
		{Label: "現地通貨額", Field: models.FieldNone},
		{Label: "通貨", Field: models.FieldNone},
		{Label: "為替相場", Field: models.FieldNone},
		{Label: "備考", Field: models.FieldMemo},
	})
	f.BalanceMode = ledger.ModeHistory
	return f
}

// newAEONCard handles dates exported as six digits with the century
// dropped.
func newAEONCard() *filter.Filter {
	f := filter.NewCredit("aeon", "イオンカード", descriptor.Format{
		{Label: "ご利用日", Field: models.FieldDate},
		{Label: "利用者区分", Field: models.FieldNone},
		{Label: "ご利用先", Field: models.FieldDesc},
		{Label: "支払方法", Field: models.FieldNone},
		{Label: "", Field: models.FieldNone},
		{Label: "", Field: models.FieldNone},
		{Label: "ご利用金額", Field: models.FieldOutgo},
		{Label: "備考", Field: models.FieldMemo},
	})
	f.DateLayout = "20060102"
	f.ConvertField = func(f *filter.Filter, rec *models.Record, field models.Field, value string) (bool, error) {
		if field != models.FieldDate {
			return false, nil
		}
		t, err := f.ToTime("20" + value)
		if err != nil {
			return true, err
		}
		rec.Date = t
		return true, nil
	}
	return f
}

func newAUCard() *filter.Filter {
	f := filter.NewCredit("au-card", "au PAY カード", descriptor.Format{
		{Label: "", Field: models.FieldNone},
		{Label: "利用日", Field: models.FieldDate},
		{Label: "利用店舗", Field: models.FieldDesc},
		{Label: "利用額（円）", Field: models.FieldOutgo},
		{Label: "支払い区分", Field: models.FieldNone},
		{Label: "ご利用者", Field: models.FieldNone},
		{Label: "摘要", Field: models.FieldMemo},
	})
	f.DateLayout = "2006/1/2"
	return f
}

// newAUCardWallet handles the prepaid wallet export, whose rows carry a
// single usage amount plus a direction marker instead of separate income
// and outgo columns.
func newAUCardWallet() *filter.Filter {
	f := filter.NewCredit("au-wallet", "au PAY プリペイドカード", descriptor.Format{
		{Label: "", Field: models.FieldNone},
		{Label: "利用日時", Field: models.FieldDate},
		{Label: "利用店舗", Field: models.FieldDesc},
		{Label: "種別", Field: models.FieldType},
		{Label: "利用額（円）", Field: models.FieldUsage},
		{Label: "キャンペーン名:キャンペーン額（円）", Field: models.FieldNone},
		{Label: "外貨金額", Field: models.FieldNone},
		{Label: "交換レート", Field: models.FieldNone},
		{Label: "備考", Field: models.FieldMemo},
	})
	f.DateLayout = "2006/1/2 15:04"
	f.ConvertField = func(_ *filter.Filter, rec *models.Record, field models.Field, value string) (bool, error) {
		if field != models.FieldType {
			return false, nil
		}
		switch value {
		case "払出", "支払":
			rec.Marker = "out"
		default:
			rec.Marker = "in"
		}
		return true, nil
	}
	f.PreClassify = func(_ *filter.Filter, recs []*models.Record) []*models.Record {
		for _, rec := range recs {
			if rec.Usage == nil {
				continue
			}
			if rec.Marker == "out" {
				rec.Outgo = rec.Usage
			} else {
				rec.Income = rec.Usage
			}
		}
		return recs
	}
	return f
}

func newAUCardUsage() *filter.Filter {
	f := filter.NewCredit("au-card-usage", "au PAY カード （支払い請求）", descriptor.Format{
		{Label: "ご利用者", Field: models.FieldNone},
		{Label: "支払区分", Field: models.FieldNone},
		{Label: "利用日", Field: models.FieldDate},
		{Label: "利用店名", Field: models.FieldDesc},
		{Label: "利用金額", Field: models.FieldOutgo},
		{Label: "摘要", Field: models.FieldMemo},
	})
	f.DateLayout = "2006/1/2"
	return f
}

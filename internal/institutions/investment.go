package institutions

import (
	"csvofx/internal/descriptor"
	"csvofx/internal/filter"
	"csvofx/internal/models"
)

// newStockHistory handles downloaded price-series files. The files are
// named "code-name" so the batch group key identifies the security; all
// batches for an account merge into one position list.
func newStockHistory() *filter.Filter {
	f := filter.NewInvestment("stock-history", "価格OFX", "900000", descriptor.Format{
		{Label: "日付", Field: models.FieldDate},
		{Label: "価格", Field: models.FieldPrice},
	})
	f.AltFormats = []descriptor.Format{
		{
			{Label: "日付", Field: models.FieldDate},
			{Label: "終値", Field: models.FieldPrice},
		},
		{
			{Label: "日付", Field: models.FieldDate},
			{Label: "基準価額", Field: models.FieldPrice},
		},
	}
	f.MergePriceHistory = true
	return f
}

package filter

import (
	"fmt"
	"hash/crc32"
	"sort"
	"strconv"
	"strings"
	"time"

	"csvofx/internal/models"
)

// Classify turns parsed records into classified transactions: balance-only
// marker rows are dropped, the batch is stably sorted by the filter's sort
// key, deterministic ids are assigned, signed amounts are computed and a
// transaction type is resolved for every record. The result is nil when no
// transaction survives filtering.
func (f *Filter) Classify(records []*models.Record) []*models.Record {
	recs := records
	if f.PreClassify != nil {
		recs = f.PreClassify(f, recs)
	}

	if f.Kind == KindCredit {
		// Period-delta card exports report the charge in the first
		// sub-total column.
		for _, rec := range recs {
			if rec.Outgo == nil && rec.Outgo1 != nil {
				rec.Outgo = rec.Outgo1
			}
		}
	}

	kept := make([]*models.Record, 0, len(recs))
	for _, rec := range recs {
		if rec.HasAmount() {
			kept = append(kept, rec)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	f.sortRecords(kept)
	assignIDs(kept)

	for _, rec := range kept {
		rec.Amount = rec.IncomeValue() - rec.OutgoValue()
		rec.TrnType = f.classifyType(rec)
	}

	if f.PostClassify != nil {
		f.PostClassify(f, kept)
	}
	return kept
}

// ClassifyTrades sorts investment trade rows and assigns them ids. Trades
// carry units and prices rather than the amount columns Classify keys on,
// so they skip the amount filtering and type table.
func (f *Filter) ClassifyTrades(recs []*models.Record) []*models.Record {
	if len(recs) == 0 {
		return nil
	}
	f.sortRecords(recs)
	assignIDs(recs)
	return recs
}

func (f *Filter) sortRecords(recs []*models.Record) {
	key := f.SortKey
	if key == models.FieldNone {
		key = models.FieldDate
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if key == models.FieldDesc {
			return recs[i].Desc < recs[j].Desc
		}
		return recs[i].Date.Before(recs[j].Date)
	})
}

// assignIDs gives every record its unique id: posting day, a zero-padded
// sequence that resets on each new calendar day, and a CRC-32 content hash
// disambiguating otherwise identical same-day transactions. Re-running on
// the same sorted input reproduces the same ids.
func assignIDs(recs []*models.Record) {
	seq := 0
	for i, rec := range recs {
		if i > 0 && sameDay(recs[i-1].Date, rec.Date) {
			seq++
		} else {
			seq = 0
		}
		rec.FITID = fmt.Sprintf("%s-%03d-%d",
			rec.Date.Format("20060102"), seq, contentHash(rec))
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// contentHash checksums the record's description, memo and both amounts.
// Absent amounts contribute nothing, so a later export that fills a
// previously empty column changes the id, as it should.
func contentHash(rec *models.Record) uint32 {
	var b strings.Builder
	b.WriteString(rec.Desc)
	b.WriteString(rec.Memo)
	if rec.Income != nil {
		b.WriteString(strconv.FormatInt(*rec.Income, 10))
	}
	if rec.Outgo != nil {
		b.WriteString(strconv.FormatInt(*rec.Outgo, 10))
	}
	return crc32.ChecksumIEEE([]byte(b.String()))
}

// classifyType resolves the transaction type. An explicit type set
// upstream is kept; otherwise the ordered keyword table is scanned and the
// first rule whose pattern is contained in the description wins, with the
// wildcard matching unconditionally. When nothing matches, or the filter
// carries no table at all, the sign of the amount decides.
func (f *Filter) classifyType(rec *models.Record) string {
	if rec.SourceType != "" {
		return rec.SourceType
	}

	if f.TypeRules != nil {
		for _, rule := range f.TypeRules {
			if rule.Pattern == Wildcard || strings.Contains(rec.Desc, rule.Pattern) {
				return rule.TrnType
			}
		}
	}

	if rec.Amount > 0 {
		return "DEP"
	}
	return "DEBIT"
}

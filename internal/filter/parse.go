package filter

import (
	"time"

	"csvofx/internal/filtererror"
	"csvofx/internal/models"
)

// ParseRows converts the data rows of one or more blocks into transaction
// record candidates. Cells are zipped against the descriptor's fields
// positionally, so renamed headers on re-export keep working as long as
// the column order holds. A conversion failure drops only the offending
// row; the count of dropped rows is returned for diagnostics. Rows without
// a date carry no ordering key and are discarded. Source order is
// preserved; sorting happens during classification.
func (f *Filter) ParseRows(rows [][]string) ([]*models.Record, int, error) {
	if len(f.Format) == 0 {
		return nil, 0, &filtererror.FormatUndefinedError{Filter: f.Key}
	}

	fields := f.Format.Fields()
	var records []*models.Record
	skipped := 0

	for _, row := range rows {
		rec, err := f.parseRow(fields, row)
		if err != nil {
			skipped++
			log.WithFields(map[string]interface{}{
				"filter": f.Key,
				"error":  err,
			}).Debug("Skipping unparseable row")
			continue
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		log.WithFields(map[string]interface{}{
			"filter":  f.Key,
			"skipped": skipped,
		}).Info("Dropped rows with conversion failures")
	}

	// Undated rows cannot be ordered or classified.
	dated := records[:0]
	for _, rec := range records {
		if rec.HasDate() {
			dated = append(dated, rec)
		}
	}
	return dated, skipped, nil
}

func (f *Filter) parseRow(fields []models.Field, row []string) (*models.Record, error) {
	rec := &models.Record{}
	var year, month, day string

	n := len(fields)
	if len(row) < n {
		n = len(row)
	}

	for i := 0; i < n; i++ {
		value := row[i]
		if value == "" {
			continue
		}

		switch fields[i] {
		case models.FieldNone:
			// Skipped column.
		case models.FieldYear:
			year = value
		case models.FieldMonth:
			month = value
		case models.FieldDay:
			day = value
			// The date materializes once the day component is seen.
			t, err := f.splitDate(year, month, day)
			if err != nil {
				return nil, err
			}
			rec.Date = t
		default:
			if err := f.assign(rec, fields[i], value); err != nil {
				return nil, err
			}
		}
	}
	return rec, nil
}

// splitDate assembles a date spread over separate year/month/day columns.
func (f *Filter) splitDate(year, month, day string) (time.Time, error) {
	y, err := ParseAmount(models.FieldYear, year)
	if err != nil {
		return time.Time{}, err
	}
	m, err := ParseAmount(models.FieldMonth, month)
	if err != nil {
		return time.Time{}, err
	}
	d, err := ParseAmount(models.FieldDay, day)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(int(y), time.Month(m), int(d), 0, 0, 0, 0, f.location()), nil
}

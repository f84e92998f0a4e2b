// Package descriptor defines the column layout of one institution's CSV
// export and locates that layout inside a raw row matrix. A descriptor is an
// ordered list of (header label, semantic field) pairs; slicing finds every
// occurrence of the label sequence and splits the matrix into the data
// blocks that follow each occurrence.
package descriptor

import (
	"csvofx/internal/filtererror"
	"csvofx/internal/models"
)

// Column binds one source column label to the semantic field it carries.
// Field is models.FieldNone for columns the pipeline ignores.
type Column struct {
	Label string
	Field models.Field
}

// Format is an institution's ordered column layout. It is immutable once
// constructed and owned by exactly one filter.
type Format []Column

// Fields returns the semantic field for each column, in column order.
func (f Format) Fields() []models.Field {
	fields := make([]models.Field, len(f))
	for i, c := range f {
		fields[i] = c.Field
	}
	return fields
}

// labels returns the header label sequence of the format.
func (f Format) labels() []string {
	labels := make([]string, len(f))
	for i, c := range f {
		labels[i] = c.Label
	}
	return labels
}

// SliceTops returns the offsets of every row whose leading cells equal the
// format's label sequence, cell for cell and case-sensitive. Rows with fewer
// cells than the label sequence are skipped. A format without columns is a
// configuration error.
func SliceTops(rows [][]string, format Format) ([]int, error) {
	labels := format.labels()
	if len(labels) == 0 {
		return nil, filtererror.ErrNoColumns
	}

	var tops []int
	for i, row := range rows {
		if len(row) < len(labels) {
			continue
		}
		if equalPrefix(row, labels) {
			tops = append(tops, i)
		}
	}
	return tops, nil
}

// Slice splits rows into the contiguous data blocks following each header
// occurrence. Block i spans from one header to the next; the last block runs
// to the end of the input. A nil result with a nil error means the format
// was not recognized in the input, which is not an error: the caller simply
// tries the next filter.
func Slice(rows [][]string, format Format) ([][][]string, error) {
	tops, err := SliceTops(rows, format)
	if err != nil {
		return nil, err
	}
	if len(tops) == 0 {
		return nil, nil
	}

	blocks := make([][][]string, 0, len(tops))
	for i, top := range tops {
		end := len(rows)
		if i+1 < len(tops) {
			end = tops[i+1]
		}
		blocks = append(blocks, rows[top+1:end])
	}
	return blocks, nil
}

func equalPrefix(row, labels []string) bool {
	for i, label := range labels {
		if row[i] != label {
			return false
		}
	}
	return true
}

package descriptor

import (
	"testing"

	"csvofx/internal/filtererror"
	"csvofx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFormat() Format {
	return Format{
		{Label: "日付", Field: models.FieldDate},
		{Label: "摘要", Field: models.FieldDesc},
		{Label: "出金", Field: models.FieldOutgo},
	}
}

func TestSliceTops_SingleHeader(t *testing.T) {
	rows := [][]string{
		{"明細ダウンロード"},
		{"日付", "摘要", "出金"},
		{"2022/1/11", "振込", "500"},
		{"2022/1/12", "振込", "800"},
	}

	tops, err := SliceTops(rows, sampleFormat())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, tops)
}

func TestSliceTops_SkipsShortRows(t *testing.T) {
	rows := [][]string{
		{"日付", "摘要"}, // too short, must not match
		{"日付", "摘要", "出金", "メモ"},
	}

	tops, err := SliceTops(rows, sampleFormat())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, tops)
}

func TestSliceTops_EmptyFormat(t *testing.T) {
	_, err := SliceTops([][]string{{"a"}}, Format{})
	assert.ErrorIs(t, err, filtererror.ErrNoColumns)
}

func TestSlice_TwoHeaders(t *testing.T) {
	rows := [][]string{
		{"日付", "摘要", "出金"},
		{"2022/1/11", "振込", "500"},
		{"2022/1/12", "振込", "800"},
		{"日付", "摘要", "出金"},
		{"2022/2/10", "振込", "300"},
	}

	blocks, err := Slice(rows, sampleFormat())
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Len(t, blocks[0], 2)
	assert.Len(t, blocks[1], 1)
	assert.Equal(t, "2022/2/10", blocks[1][0][0])
}

func TestSlice_NotRecognized(t *testing.T) {
	rows := [][]string{
		{"年月日", "内容", "金額"},
		{"2022/1/11", "振込", "500"},
	}

	blocks, err := Slice(rows, sampleFormat())
	require.NoError(t, err)
	assert.Nil(t, blocks)
}

func TestFormat_Fields(t *testing.T) {
	fields := sampleFormat().Fields()
	assert.Equal(t, []models.Field{models.FieldDate, models.FieldDesc, models.FieldOutgo}, fields)
}

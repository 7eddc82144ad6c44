package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

func TestParseSortPolicy(t *testing.T) {
	cases := []struct {
		key, order string
		want       SortPolicy
	}{
		{"", "", SortPolicy{SortPrevalence, SortDesc}},
		{"incidence", "", SortPolicy{SortIncidence, SortDesc}},
		{"alphabetical", "", SortPolicy{SortAlphabetical, SortAsc}},
		{"Alphabetical", "DESC", SortPolicy{SortAlphabetical, SortDesc}},
		{"actionability", "asc", SortPolicy{SortActionability, SortAsc}},
	}
	for _, tc := range cases {
		got, err := ParseSortPolicy(tc.key, tc.order)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "key=%q order=%q", tc.key, tc.order)
	}

	_, err := ParseSortPolicy("popularity", "")
	assert.True(t, oncology.IsCode(err, oncology.CodeValidation))
	_, err = ParseSortPolicy("prevalence", "sideways")
	assert.True(t, oncology.IsCode(err, oncology.CodeValidation))
}

func indicationRow(id, name string, prev int64) IndicationRow {
	return IndicationRow{
		Indication: oncology.Indication{ID: id, Name: name},
		Totals:     Totals{TotalPrevalence: prev},
	}
}

func rowNames(rows []IndicationRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Indication.Name
	}
	return out
}

func TestSortRows_NumericTiesBreakByNameAscending(t *testing.T) {
	for _, order := range []SortOrder{SortDesc, SortAsc} {
		rows := []IndicationRow{
			indicationRow("3", "Zeta", 50),
			indicationRow("1", "Beta", 100),
			indicationRow("2", "Alpha", 100),
		}
		SortRows(rows, SortPolicy{Key: SortPrevalence, Order: order})
		if order == SortDesc {
			assert.Equal(t, []string{"Alpha", "Beta", "Zeta"}, rowNames(rows))
		} else {
			assert.Equal(t, []string{"Zeta", "Alpha", "Beta"}, rowNames(rows))
		}
	}
}

func TestSortRows_Alphabetical(t *testing.T) {
	rows := []IndicationRow{
		indicationRow("b", "melanoma", 0),
		indicationRow("a", "Melanoma", 0),
		indicationRow("c", "Breast Cancer", 0),
	}
	SortRows(rows, SortPolicy{Key: SortAlphabetical, Order: SortAsc})
	assert.Equal(t, "c", rows[0].Indication.ID)
	assert.Equal(t, "a", rows[1].Indication.ID)
	assert.Equal(t, "b", rows[2].Indication.ID)

	SortRows(rows, SortPolicy{Key: SortAlphabetical, Order: SortDesc})
	assert.Equal(t, []string{"a", "b", "c"}, []string{rows[0].Indication.ID, rows[1].Indication.ID, rows[2].Indication.ID})
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, clampLimit(0, 20, 500))
	assert.Equal(t, 20, clampLimit(-3, 20, 500))
	assert.Equal(t, 7, clampLimit(7, 20, 500))
	assert.Equal(t, 500, clampLimit(9000, 20, 500))
}

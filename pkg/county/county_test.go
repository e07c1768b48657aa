package county_test

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disfactory.tw/backoffice/pkg/county"
	ierr "disfactory.tw/backoffice/pkg/errors"
	"disfactory.tw/backoffice/pkg/store"
	"disfactory.tw/backoffice/pkg/store/storetest"
)

func TestAll(t *testing.T) {
	all := county.All()
	require.Len(t, all, 22)
	assert.Equal(t, county.County{Code: "Taipei", Name: "臺北市"}, all[0])
	assert.Equal(t, county.County{Code: "Kinmen", Name: "金門縣"}, all[21])

	codes := map[string]bool{}
	for _, c := range all {
		assert.False(t, codes[c.Code], "duplicate code %s", c.Code)
		codes[c.Code] = true
	}
}

func TestLookup(t *testing.T) {
	c, err := county.Lookup("Hsinchu_City")
	require.NoError(t, err)
	assert.Equal(t, "新竹市", c.Name)

	_, err = county.Lookup("Atlantis")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
	assert.NotEmpty(t, ierr.Hint(err))
}

func TestPattern(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		matches []string
		misses  []string
	}{
		{"臺北市", "(台|臺)北市", []string{"臺北市中正區", "台北市大安區"}, []string{"新北市板橋區"}},
		{"臺東縣", "(台|臺)東縣", []string{"台東縣台東市"}, []string{"臺南市東區"}},
		{"新北市", "新北市", []string{"新北市三重區"}, []string{"臺北市"}},
		{"嘉義市", "嘉義市", []string{"嘉義市東區"}, []string{"嘉義縣朴子市"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := county.Pattern(tt.name)
			assert.Equal(t, tt.want, got)

			re := regexp.MustCompile(got)
			for _, m := range tt.matches {
				assert.True(t, re.MatchString(m), m)
			}
			for _, m := range tt.misses {
				assert.False(t, re.MatchString(m), m)
			}
		})
	}
}

func TestFilterEveryCounty(t *testing.T) {
	db := storetest.NewDB(t)

	// one factory per county, using the informal 台 where the name has 臺
	want := map[string]uuid.UUID{}
	for _, c := range county.All() {
		town := []rune(c.Name)
		if town[0] == '臺' {
			town[0] = '台'
		}
		f := storetest.CreateFactory(t, db, storetest.InTown(string(town)+"某區"))
		want[c.Code] = f.ID
	}

	for _, c := range county.All() {
		t.Run(c.Code, func(t *testing.T) {
			q, err := county.Filter(store.LiveFactories(db), c.Code)
			require.NoError(t, err)

			var ids []uuid.UUID
			require.NoError(t, q.Pluck("id", &ids).Error)
			assert.Equal(t, []uuid.UUID{want[c.Code]}, ids)
		})
	}
}

func TestFilterBothGlyphs(t *testing.T) {
	db := storetest.NewDB(t)
	traditional := storetest.CreateFactory(t, db, storetest.InTown("臺中市西屯區"))
	informal := storetest.CreateFactory(t, db, storetest.InTown("台中市北屯區"))
	storetest.CreateFactory(t, db, storetest.InTown("彰化縣彰化市"))

	q, err := county.Filter(store.LiveFactories(db), "Taichung")
	require.NoError(t, err)

	var ids []uuid.UUID
	require.NoError(t, q.Pluck("id", &ids).Error)
	assert.ElementsMatch(t, []uuid.UUID{traditional.ID, informal.ID}, ids)
}

func TestFilterEmptyAndUnknown(t *testing.T) {
	db := storetest.NewDB(t)
	storetest.CreateFactory(t, db)
	storetest.CreateFactory(t, db, storetest.InTown("高雄市前鎮區"))

	q, err := county.Filter(store.LiveFactories(db), "")
	require.NoError(t, err)
	var count int64
	require.NoError(t, q.Count(&count).Error)
	assert.Equal(t, int64(2), count)

	_, err = county.Filter(store.LiveFactories(db), "Narnia")
	assert.True(t, ierr.IsValidation(err))
}

// Package county maps the administrative region codes used by the admin
// filter to their display names and narrows factory listings by town name.
package county

import (
	"regexp"
	"strings"

	"gorm.io/gorm"

	ierr "disfactory.tw/backoffice/pkg/errors"
	"disfactory.tw/backoffice/pkg/store"
)

// Parameter is the query parameter the county filter reads.
const Parameter = "county"

// County is one selectable filter value.
type County struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Presentation order of the filter choices.
var counties = []County{
	{"Taipei", "臺北市"},
	{"New_Taipei", "新北市"},
	{"Taoyuan", "桃園市"},
	{"Taichung", "臺中市"},
	{"Tainan", "臺南市"},
	{"Kaohsiung", "高雄市"},
	{"Yilan", "宜蘭縣"},
	{"Hsinchu_County", "新竹縣"},
	{"Hsinchu_City", "新竹市"},
	{"Miaoli", "苗栗縣"},
	{"Changhua", "彰化縣"},
	{"Nantou", "南投縣"},
	{"Yunlin", "雲林縣"},
	{"Chiayi_County", "嘉義縣"},
	{"Chiayi_City", "嘉義市"},
	{"Pingtung", "屏東縣"},
	{"Taitung", "臺東縣"},
	{"Hualien", "花蓮縣"},
	{"Penghu", "澎湖縣"},
	{"Keelung", "基隆市"},
	{"Lienchiang", "連江縣"},
	{"Kinmen", "金門縣"},
}

// Legacy records spell 臺 as 台; either is accepted at that position.
var glyphVariants = map[rune]string{
	'臺': "(台|臺)",
}

var byCode = func() map[string]County {
	m := make(map[string]County, len(counties))
	for _, c := range counties {
		m[c.Code] = c
	}
	return m
}()

// All returns the counties in presentation order.
func All() []County {
	out := make([]County, len(counties))
	copy(out, counties)
	return out
}

// Lookup resolves a code. Unknown codes are a validation error so a
// mistyped filter value never degrades into an unfiltered listing.
func Lookup(code string) (County, error) {
	c, ok := byCode[code]
	if !ok {
		return County{}, ierr.NewErrorf("unknown county code %q", code).
			WithHint("county must be one of the listed county codes").
			Mark(ierr.ErrValidation)
	}
	return c, nil
}

// Pattern builds the town-name match pattern for a display name.
func Pattern(name string) string {
	var b strings.Builder
	for _, r := range name {
		if alt, ok := glyphVariants[r]; ok {
			b.WriteString(alt)
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	return b.String()
}

// Filter narrows a factory query to the county's town names. An empty code
// leaves the query untouched.
func Filter(q *gorm.DB, code string) (*gorm.DB, error) {
	if code == "" {
		return q, nil
	}
	c, err := Lookup(code)
	if err != nil {
		return nil, err
	}
	return store.MatchRegex(q, "townname", Pattern(c.Name)), nil
}

package inline_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disfactory.tw/backoffice/pkg/inline"
	"disfactory.tw/backoffice/pkg/store/storetest"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		width int
		path  string
		want  string
	}{
		{"default width", 0, "https://i.imgur.com/abc.jpg",
			`<img src="https://i.imgur.com/abc.jpg" style="max-width:500px; height:auto"/>`},
		{"custom width", 320, "a.jpg",
			`<img src="a.jpg" style="max-width:320px; height:auto"/>`},
		{"escaped", 500, `x.jpg" onerror="alert(1)`,
			`<img src="x.jpg&#34; onerror=&#34;alert(1)" style="max-width:500px; height:auto"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inline.NewComposer(tt.width).Preview(tt.path))
		})
	}
}

func TestCompose(t *testing.T) {
	db := storetest.NewDB(t)
	now := storetest.Now

	f := storetest.CreateFactory(t, db)
	other := storetest.CreateFactory(t, db)
	report := storetest.CreateReport(t, db, f.ID, now.Add(-2*time.Hour), "Ming", "0912345678")
	storetest.CreateReport(t, db, other.ID, now, "other", "")

	withReport := storetest.CreateImage(t, db, f.ID, &report, "https://i.imgur.com/1.jpg", now.Add(-2*time.Hour))
	orphan := storetest.CreateImage(t, db, f.ID, nil, "https://i.imgur.com/2.jpg", now.Add(-time.Hour))
	storetest.CreateImage(t, db, other.ID, nil, "https://i.imgur.com/3.jpg", now)

	sections, err := inline.NewComposer(0).Compose(db, f.ID)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	images := sections[0]
	assert.Equal(t, "images", images.Name)
	assert.Equal(t, []string{"image_show", "created_at", "get_report_nickname", "get_report_contact", "id", "image_path", "report_record"}, images.Fields)
	assert.Zero(t, images.Extra)
	assert.False(t, images.CanAdd)
	require.Len(t, images.Rows, 2)

	assert.Equal(t, "Ming", images.Rows[0][2])
	assert.Equal(t, "0912345678", images.Rows[0][3])
	assert.Equal(t, withReport.ID.String(), images.Rows[0][4])

	// an image without a report record shows empty reporter fields
	assert.Equal(t, "", images.Rows[1][2])
	assert.Equal(t, "", images.Rows[1][3])
	assert.Equal(t, orphan.ID.String(), images.Rows[1][4])
	assert.Equal(t, "", images.Rows[1][6])

	records := sections[1]
	assert.Equal(t, "report_records", records.Name)
	assert.Zero(t, records.Extra)
	assert.False(t, records.CanAdd)
	require.Len(t, records.Rows, 1)
	assert.Equal(t, "Ming", records.Rows[0][1])
}

func TestComposeEmpty(t *testing.T) {
	db := storetest.NewDB(t)

	sections, err := inline.NewComposer(0).Compose(db, uuid.New())
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Empty(t, sections[0].Rows)
	assert.Empty(t, sections[1].Rows)
}

package ticker_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/tickerd/internal/models"
	"github.com/jonesrussell/tickerd/internal/ticker"
)

func TestRenderChannelNotFound(t *testing.T) {
	e := newTestEngine(newTreeBuilder())

	doc, err := e.Render(context.Background(), ticker.Request{Channel: "nope"})
	assert.ErrorIs(t, err, models.ErrChannelNotFound)
	assert.Nil(t, doc)
}

func TestRenderBasicDocument(t *testing.T) {
	b := newTreeBuilder()
	tmpl := b.template("lower_third", `{"components":[]}`)

	channel := b.channel("main")
	playlist := b.playlist(channel, "News")
	root := b.contentRoot("Top Stories Content")
	b.bucket(playlist, "Top Stories", root)
	item := b.item(root, "story-1",
		field("headline", "Local team wins"),
		field("_notes", "internal only"),
	)
	item.TemplateID = &tmpl.ID
	duration := 15
	item.Duration = &duration

	e := newTestEngine(b)
	doc, err := e.Render(context.Background(), ticker.Request{Channel: "main"})
	require.NoError(t, err)

	assert.Equal(t, "2.4", doc.Version)
	require.Len(t, doc.Playlists, 1)

	pl := doc.Playlists[0]
	assert.Equal(t, "News", pl.Name)
	assert.Equal(t, models.PlaylistTypeScrolling, pl.Type)
	assert.Equal(t, "News", pl.Target)
	require.Len(t, pl.Groups, 1)

	group := pl.Groups[0]
	assert.Equal(t, root.ID.String(), group.ContentID)
	assert.Equal(t, "Top Stories", group.Description)
	assert.NotEmpty(t, group.Color)
	require.Len(t, group.Elements, 1)

	el := group.Elements[0]
	assert.Equal(t, item.ID.String(), el.ID)
	assert.Equal(t, "lower_third", el.Template)
	assert.Equal(t, 15, el.Duration)
	require.Len(t, el.Fields, 1)
	assert.Equal(t, "headline", el.Fields[0].Name)
	assert.Equal(t, "Local team wins", el.Fields[0].Value)
}

func TestRenderPrunesEmptyBranches(t *testing.T) {
	b := newTreeBuilder()
	channel := b.channel("main")

	empty := b.playlist(channel, "Empty")
	b.bucket(empty, "Hollow", b.contentRoot("Hollow Content"))

	full := b.playlist(channel, "Full")
	fullRoot := b.contentRoot("Full Content")
	b.bucket(full, "Stories", fullRoot)
	b.item(fullRoot, "story", field("headline", "something happened"))

	// A bucket whose every item is gated out prunes along with its playlist.
	gated := b.playlist(channel, "Gated")
	gatedRoot := b.contentRoot("Gated Content")
	b.bucket(gated, "Expired", gatedRoot)
	expired := b.item(gatedRoot, "old", field("headline", "stale"))
	expired.ScheduleJSON = []byte(`{"endDate":"2020-01-01"}`)

	e := newTestEngine(b)
	doc, err := e.Render(context.Background(), ticker.Request{Channel: "main"})
	require.NoError(t, err)

	require.Len(t, doc.Playlists, 1)
	assert.Equal(t, "Full", doc.Playlists[0].Name)
}

func TestRenderScheduleGates(t *testing.T) {
	b := newTreeBuilder()
	channel := b.channel("main")

	future := b.playlist(channel, "Scheduled Later")
	future.ScheduleJSON = []byte(`{"startDate":"2030-01-01"}`)
	futureRoot := b.contentRoot("Later Content")
	b.bucket(future, "Later", futureRoot)
	b.item(futureRoot, "later", field("headline", "not yet"))

	current := b.playlist(channel, "Current")
	currentRoot := b.contentRoot("Current Content")
	b.bucket(current, "Now", currentRoot)
	b.item(currentRoot, "now", field("headline", "on air"))

	// An inactive folder hides its descendants even when the items
	// themselves carry no schedule.
	folder := b.folder(currentRoot, "Weekend Promos")
	folder.ScheduleJSON = []byte(`{"daysOfWeek":{"saturday":true,"sunday":true}}`)
	b.item(folder, "promo", field("headline", "weekend only"))

	e := newTestEngine(b)
	doc, err := e.Render(context.Background(), ticker.Request{Channel: "main"})
	require.NoError(t, err)

	require.Len(t, doc.Playlists, 1)
	assert.Equal(t, "Current", doc.Playlists[0].Name)
	require.Len(t, doc.Playlists[0].Groups, 1)

	// Only the direct item survives; the folder's item is hidden because the
	// render clock is a Monday.
	elements := doc.Playlists[0].Groups[0].Elements
	require.Len(t, elements, 1)
	assert.Equal(t, "headline", elements[0].Fields[0].Name)
	assert.Equal(t, "on air", elements[0].Fields[0].Value)
}

func TestRenderIncludeInactive(t *testing.T) {
	b := newTreeBuilder()
	channel := b.channel("main")
	playlist := b.playlist(channel, "News")
	root := b.contentRoot("Content")
	b.bucket(playlist, "Stories", root)
	b.item(root, "live", field("headline", "on air"))
	hidden := b.item(root, "draft", field("headline", "draft copy"))
	hidden.Active = false

	e := newTestEngine(b)

	doc, err := e.Render(context.Background(), ticker.Request{Channel: "main"})
	require.NoError(t, err)
	require.Len(t, doc.Playlists[0].Groups[0].Elements, 1)

	doc, err = e.Render(context.Background(), ticker.Request{Channel: "main", IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, doc.Playlists[0].Groups[0].Elements, 2)
}

func TestPlaylistClassification(t *testing.T) {
	tests := []struct {
		name     string
		playlist string
		config   string
		want     string
	}{
		{"default scrolls", "Sports", "", models.PlaylistTypeScrolling},
		{"breaking flips", "Breaking News", "", models.PlaylistTypeFlipping},
		{"urgent flips", "URGENT Weather", "", models.PlaylistTypeFlipping},
		{"config override wins", "Breaking News", `{"playlistType":"scrolling_carousel"}`, models.PlaylistTypeScrolling},
		{"config target", "Sports", `{"target":"zone_b"}`, models.PlaylistTypeScrolling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTreeBuilder()
			channel := b.channel("main")
			playlist := b.playlist(channel, tt.playlist)
			if tt.config != "" {
				playlist.ConfigJSON = []byte(tt.config)
			}
			root := b.contentRoot("Content")
			b.bucket(playlist, "Stories", root)
			b.item(root, "story", field("headline", "copy"))

			e := newTestEngine(b)
			doc, err := e.Render(context.Background(), ticker.Request{Channel: "main"})
			require.NoError(t, err)
			require.Len(t, doc.Playlists, 1)
			assert.Equal(t, tt.want, doc.Playlists[0].Type)
		})
	}
}

func TestRenderGeneratedElements(t *testing.T) {
	b := newTreeBuilder()
	header := b.template("section_header", `{"components":[]}`)

	// One content root shared by buckets in two playlists.
	root := b.contentRoot("Shared Content")
	root.ConfigJSON = []byte(fmt.Sprintf(
		`{"generateItem":{"enabled":true,"templateId":%q,"fieldName":"title","fieldValue":"SPORTS","duration":5}}`,
		header.ID,
	))
	b.item(root, "story", field("headline", "copy"))

	channel := b.channel("main")
	first := b.playlist(channel, "Morning")
	b.bucket(first, "Sports AM", root)
	second := b.playlist(channel, "Evening")
	b.bucket(second, "Sports PM", root)

	e := newTestEngine(b)
	doc, err := e.Render(context.Background(), ticker.Request{Channel: "main"})
	require.NoError(t, err)
	require.Len(t, doc.Playlists, 2)

	for i, wantID := range []string{
		fmt.Sprintf("%s_0", root.ID),
		fmt.Sprintf("%s_1", root.ID),
	} {
		elements := doc.Playlists[i].Groups[0].Elements
		require.Len(t, elements, 2)

		generated := elements[0]
		assert.Equal(t, wantID, generated.ID)
		assert.Equal(t, "section_header", generated.Template)
		assert.Equal(t, 5, generated.Duration)
		require.Len(t, generated.Fields, 1)
		assert.Equal(t, "title", generated.Fields[0].Name)
		assert.Equal(t, "SPORTS", generated.Fields[0].Value)
	}
}

func TestRenderGeneratedElementSkippedForEmptyBucket(t *testing.T) {
	b := newTreeBuilder()
	header := b.template("section_header", `{"components":[]}`)

	root := b.contentRoot("Empty Content")
	root.ConfigJSON = []byte(fmt.Sprintf(
		`{"generateItem":{"enabled":true,"templateId":%q}}`, header.ID,
	))

	channel := b.channel("main")
	playlist := b.playlist(channel, "News")
	b.bucket(playlist, "Empty", root)

	e := newTestEngine(b)
	doc, err := e.Render(context.Background(), ticker.Request{Channel: "main"})
	require.NoError(t, err)
	assert.Empty(t, doc.Playlists)
}

func TestRenderTimeSensitiveTTL(t *testing.T) {
	b := newTreeBuilder()
	channel := b.channel("main")
	playlist := b.playlist(channel, "News")
	root := b.contentRoot("Content")
	b.bucket(playlist, "Stories", root)
	b.item(root, "flash", field("headline", "BREAKING: levee failure"))
	b.item(root, "calm", field("headline", "garden show opens"))

	e := newTestEngine(b)
	doc, err := e.Render(context.Background(), ticker.Request{Channel: "main"})
	require.NoError(t, err)

	elements := doc.Playlists[0].Groups[0].Elements
	require.Len(t, elements, 2)

	require.NotNil(t, elements[0].TTL)
	assert.Equal(t, "remove", elements[0].TTL.Action)
	assert.Equal(t, "3600", elements[0].TTL.Value)
	assert.Nil(t, elements[1].TTL)
}

func TestCollectImages(t *testing.T) {
	b := newTreeBuilder()
	channel := b.channel("main")
	playlist := b.playlist(channel, "News")
	root := b.contentRoot("Content")
	b.bucket(playlist, "Stories", root)
	b.item(root, "one",
		field("photo", "https://cdn.example.com/a/storm.jpg"),
		field("attachment", "https://cdn.example.com/a/report.pdf"),
	)
	b.item(root, "two",
		field("photo", "https://cdn.example.com/a/storm.jpg"),
		field("map", "https://cdn.example.com/b/RADAR.PNG?ts=4"),
	)

	e := newTestEngine(b)
	urls, err := e.CollectImages(context.Background(), ticker.Request{Channel: "main"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cdn.example.com/a/storm.jpg",
		"https://cdn.example.com/b/RADAR.PNG?ts=4",
	}, urls)
}

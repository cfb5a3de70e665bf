package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/query"
)

type parsedFeed struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel struct {
		Title         string `xml:"title"`
		Link          string `xml:"link"`
		Description   string `xml:"description"`
		Language      string `xml:"language"`
		LastBuildDate string `xml:"lastBuildDate"`
		Items         []struct {
			Title string `xml:"title"`
			Link  string `xml:"link"`
			GUID  struct {
				IsPermaLink string `xml:"isPermaLink,attr"`
				Value       string `xml:",chardata"`
			} `xml:"guid"`
			Description string   `xml:"description"`
			PubDate     string   `xml:"pubDate"`
			Creator     string   `xml:"creator"`
			Categories  []string `xml:"category"`
			Encoded     string   `xml:"encoded"`
		} `xml:"item"`
	} `xml:"channel"`
}

func parse(t *testing.T, doc string) parsedFeed {
	t.Helper()
	var f parsedFeed
	require.NoError(t, xml.Unmarshal([]byte(doc), &f))
	return f
}

var testChannel = Channel{
	Title:       "Example Blog",
	Description: "News from the team",
	BaseURL:     "https://example.com/",
	Language:    "en-us",
}

func blogEntry(slug, title, date string, tags ...string) content.Entry {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return content.Entry{
		Slug:       slug,
		Collection: content.CollectionBlog,
		Title:      title,
		Date:       d,
		HasDate:    true,
		Tags:       tags,
	}
}

func TestRender_EmptyItems(t *testing.T) {
	out, err := Render(testChannel, nil)
	require.NoError(t, err)

	f := parse(t, out)
	assert.Equal(t, "2.0", f.Version)
	assert.Equal(t, "Example Blog", f.Channel.Title)
	assert.Equal(t, "News from the team", f.Channel.Description)
	assert.Equal(t, "en-us", f.Channel.Language)
	assert.Equal(t, "https://example.com/", f.Channel.Link)
	assert.Empty(t, f.Channel.Items)
	assert.Empty(t, f.Channel.LastBuildDate)
	assert.True(t, strings.HasPrefix(out, xml.Header))
}

func TestRender_Scenario_FourEntriesNewestFirst(t *testing.T) {
	loaded := []content.Entry{
		blogEntry("autumn-update", "Autumn update", "2025-11-12"),
		blogEntry("v2-launch", "v2 launch", "2026-02-08", "release"),
		blogEntry("year-in-review", "Year in review", "2025-12-17"),
		blogEntry("roadmap", "Roadmap", "2026-01-29", "planning", "release"),
	}
	sorted := query.SortByDateDescending(loaded)

	out, err := Render(testChannel, sorted)
	require.NoError(t, err)

	f := parse(t, out)
	require.Len(t, f.Channel.Items, 4)

	wantSlugs := []string{"v2-launch", "roadmap", "year-in-review", "autumn-update"}
	wantDates := []string{"2026-02-08", "2026-01-29", "2025-12-17", "2025-11-12"}
	for i, item := range f.Channel.Items {
		assert.Equal(t, "https://example.com/blog/"+wantSlugs[i]+"/", item.Link)

		pub, err := time.Parse(time.RFC1123Z, item.PubDate)
		require.NoError(t, err)
		assert.Equal(t, wantDates[i], pub.Format(time.DateOnly))

		assert.Equal(t, item.Link, item.GUID.Value)
		assert.Equal(t, "true", item.GUID.IsPermaLink)
	}
	assert.Equal(t, []string{"planning", "release"}, f.Channel.Items[1].Categories)
	assert.Empty(t, f.Channel.Items[2].Categories)
}

func TestRender_RoundTripPreservesTitleLinkPairs(t *testing.T) {
	items := []content.Entry{
		blogEntry("a", "Alpha", "2026-01-03"),
		blogEntry("b", "Beta & <Gamma>", "2026-01-02"),
		blogEntry("c", `"Quoted" 'title'`, "2026-01-01"),
	}

	out, err := Render(testChannel, items)
	require.NoError(t, err)

	f := parse(t, out)
	require.Len(t, f.Channel.Items, len(items))
	for i, e := range items {
		assert.Equal(t, e.Title, f.Channel.Items[i].Title)
		assert.Equal(t, EntryLink(testChannel.BaseURL, e), f.Channel.Items[i].Link)
	}
}

func TestRender_EscapesSpecialCharacters(t *testing.T) {
	e := blogEntry("x", "Fish & <Chips>", "2026-01-01", "a&b")
	e.Description = `He said "hi" & left </description>`
	ch := testChannel
	ch.Title = "Tom & Jerry's <Blog>"

	out, err := Render(ch, []content.Entry{e})
	require.NoError(t, err)

	assert.NotContains(t, out, "Fish & <Chips>")
	assert.Contains(t, out, "Fish &amp; &lt;Chips&gt;")
	assert.Contains(t, out, "Tom &amp; Jerry&#39;s &lt;Blog&gt;")

	f := parse(t, out)
	assert.Equal(t, "Tom & Jerry's <Blog>", f.Channel.Title)
	assert.Equal(t, e.Description, f.Channel.Items[0].Description)
	assert.Equal(t, []string{"a&b"}, f.Channel.Items[0].Categories)
}

func TestRender_MissingDescriptionIsEmptyElement(t *testing.T) {
	out, err := Render(testChannel, []content.Entry{blogEntry("x", "X", "2026-01-01")})
	require.NoError(t, err)

	assert.Contains(t, out, "<description></description>")
}

func TestRender_UIDBecomesNonPermalinkGUID(t *testing.T) {
	e := blogEntry("x", "X", "2026-01-01")
	e.UID = "6f9619ff-8b86-d011-b42d-00c04fc964ff"
	e.Author = "Sam"

	out, err := Render(testChannel, []content.Entry{e})
	require.NoError(t, err)

	item := parse(t, out).Channel.Items[0]
	assert.Equal(t, "urn:uuid:6f9619ff-8b86-d011-b42d-00c04fc964ff", item.GUID.Value)
	assert.Equal(t, "false", item.GUID.IsPermaLink)
	assert.Equal(t, "Sam", item.Creator)
}

func TestRender_UndatedEntryOmitsPubDate(t *testing.T) {
	e := content.Entry{Slug: "guides/install", Collection: content.CollectionDocs, Title: "Install"}

	out, err := Render(testChannel, []content.Entry{e})
	require.NoError(t, err)

	item := parse(t, out).Channel.Items[0]
	assert.Empty(t, item.PubDate)
	assert.Equal(t, "https://example.com/docs/guides/install/", item.Link)
}

func TestRender_IncludeContent(t *testing.T) {
	e := blogEntry("x", "X", "2026-01-01")
	e.Body = []byte("Hello **world** ]]> done\n")
	ch := testChannel
	ch.IncludeContent = true
	ch.LastBuildDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	out, err := Render(ch, []content.Entry{e})
	require.NoError(t, err)

	f := parse(t, out)
	assert.Contains(t, f.Channel.Items[0].Encoded, "<strong>world</strong>")
	assert.Contains(t, f.Channel.Items[0].Encoded, "]]&gt; done")
	assert.Equal(t, "Thu, 01 Jan 2026 00:00:00 +0000", f.Channel.LastBuildDate)
}

func TestRender_DefaultLanguage(t *testing.T) {
	ch := testChannel
	ch.Language = ""

	out, err := Render(ch, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, parse(t, out).Channel.Language)
}

func TestRender_IncludeContentWithControlCharactersIsWellFormed(t *testing.T) {
	e := blogEntry("x", "X", "2026-01-01")
	e.Body = []byte("body ]]> \x01 end\n")
	ch := testChannel
	ch.IncludeContent = true

	out, err := Render(ch, []content.Entry{e})
	require.NoError(t, err)

	dec := xml.NewDecoder(bytes.NewReader([]byte(out)))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}

	encoded := parse(t, out).Channel.Items[0].Encoded
	assert.Contains(t, encoded, "body ]]&gt;")
	assert.Contains(t, encoded, "end")
	assert.NotContains(t, encoded, "\x01")
}

func TestEntryLink_EscapesNonASCIISegments(t *testing.T) {
	e := content.Entry{Slug: "guides/café-ünï", Collection: content.CollectionDocs}

	assert.Equal(t, "https://example.com/docs/guides/caf%C3%A9-%C3%BCn%C3%AF/", EntryLink("https://example.com", e))
}

func TestEntryLink(t *testing.T) {
	e := content.Entry{Slug: "hello", Collection: content.CollectionBlog}

	assert.Equal(t, "https://example.com/blog/hello/", EntryLink("https://example.com", e))
	assert.Equal(t, "https://example.com/blog/hello/", EntryLink("https://example.com///", e))
}

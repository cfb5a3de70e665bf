// Package feed renders an RSS 2.0 document from ordered content entries.
package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

const (
	// DefaultLanguage is the channel language when none is configured.
	DefaultLanguage = "en-us"

	nsContent = "http://purl.org/rss/1.0/modules/content/"
	nsDC      = "http://purl.org/dc/elements/1.1/"
)

// Channel holds the feed-level metadata.
type Channel struct {
	Title       string
	Description string
	// BaseURL is the site origin, for example "https://example.com".
	BaseURL  string
	Language string
	// LastBuildDate is omitted from the document when zero.
	LastBuildDate time.Time
	Generator     string
	// IncludeContent adds each entry body, rendered to HTML, as content:encoded.
	IncludeContent bool
}

type rssDocument struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	DCNS      string     `xml:"xmlns:dc,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Generator     string    `xml:"generator,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string      `xml:"title"`
	Link        string      `xml:"link"`
	GUID        rssGUID     `xml:"guid"`
	Description string      `xml:"description"`
	PubDate     string      `xml:"pubDate,omitempty"`
	Creator     string      `xml:"dc:creator,omitempty"`
	Categories  []string    `xml:"category"`
	Content     *rssEncoded `xml:"content:encoded"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// rssEncoded holds rendered HTML as escaped character data. Characters XML
// does not allow are replaced by the encoder.
type rssEncoded struct {
	Value string `xml:",chardata"`
}

// EntryLink returns the absolute URL of an entry:
// baseURL + "/" + collection segment + "/" + slug + "/".
// Each slug segment is percent-encoded, so non-ASCII slugs yield valid URIs.
func EntryLink(baseURL string, e content.Entry) string {
	segments := strings.Split(e.Slug, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(baseURL, "/") + "/" + e.Collection.PathSegment() + "/" + strings.Join(segments, "/") + "/"
}

// FormatDate formats t per the RSS 2.0 date convention (RFC 822 with a
// four-digit year and numeric zone).
func FormatDate(t time.Time) string {
	return t.Format(time.RFC1123Z)
}

// Render produces the RSS document for ch with one item per entry, in the
// order given. Callers sort items beforehand. All text is XML-escaped.
func Render(ch Channel, items []content.Entry) (string, error) {
	language := ch.Language
	if language == "" {
		language = DefaultLanguage
	}

	doc := rssDocument{
		Version:   "2.0",
		ContentNS: nsContent,
		DCNS:      nsDC,
		Channel: rssChannel{
			Title:       ch.Title,
			Link:        strings.TrimRight(ch.BaseURL, "/") + "/",
			Description: ch.Description,
			Language:    language,
			Generator:   ch.Generator,
			Items:       make([]rssItem, 0, len(items)),
		},
	}
	if !ch.LastBuildDate.IsZero() {
		doc.Channel.LastBuildDate = FormatDate(ch.LastBuildDate)
	}

	var renderer *markdown.Renderer
	if ch.IncludeContent {
		renderer = markdown.NewRenderer()
	}

	for _, e := range items {
		item, err := newItem(ch.BaseURL, e, renderer)
		if err != nil {
			return "", fmt.Errorf("feed item %q: %w", e.Slug, err)
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode rss: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode rss: %w", err)
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

func newItem(baseURL string, e content.Entry, renderer *markdown.Renderer) (rssItem, error) {
	link := EntryLink(baseURL, e)
	item := rssItem{
		Title:       e.Title,
		Link:        link,
		GUID:        rssGUID{IsPermaLink: true, Value: link},
		Description: e.Description,
		Creator:     e.Author,
		Categories:  e.Tags,
	}
	if e.UID != "" {
		item.GUID = rssGUID{IsPermaLink: false, Value: "urn:uuid:" + e.UID}
	}
	if e.HasDate {
		item.PubDate = FormatDate(e.Date)
	}
	if renderer != nil {
		html, err := renderer.RenderHTML(e.Body)
		if err != nil {
			return rssItem{}, err
		}
		item.Content = &rssEncoded{Value: html}
	}
	return item, nil
}

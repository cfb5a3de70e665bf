// Package manifest records what a build loaded: every entry of every
// collection with its permalink and content fingerprint.
package manifest

import (
	"crypto/sha256"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"git.home.luguber.info/inful/docsite/internal/content"
)

// Manifest is the JSON document written next to the feed.
type Manifest struct {
	BuildID     string       `json:"build_id,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
	BaseURL     string       `json:"base_url"`
	Collections []Collection `json:"collections"`
	Feed        Feed         `json:"feed"`
}

// Collection lists the entries of one collection in load order.
type Collection struct {
	Name    content.CollectionType `json:"name"`
	Entries []Entry                `json:"entries"`
}

// Entry summarizes a loaded content entry.
type Entry struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Date        string   `json:"date,omitempty"` // YYYY-MM-DD
	Tags        []string `json:"tags,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
	Source      string   `json:"source"`
	Fingerprint string   `json:"fingerprint"`
}

// Feed describes the rendered feed.
type Feed struct {
	File       string                 `json:"file"`
	Collection content.CollectionType `json:"collection"`
	Items      int                    `json:"items"`
}

// LinkFunc maps an entry to its absolute URL.
type LinkFunc func(content.Entry) string

// AddCollection appends a collection built from entries.
func (m *Manifest) AddCollection(ct content.CollectionType, entries []content.Entry, link LinkFunc) {
	c := Collection{Name: ct, Entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		me := Entry{
			Slug:        e.Slug,
			Title:       e.Title,
			Link:        link(e),
			Tags:        e.Tags,
			Featured:    e.Featured,
			Source:      e.SourcePath,
			Fingerprint: e.Fingerprint,
		}
		if e.HasDate {
			me.Date = e.Date.Format(time.DateOnly)
		}
		c.Entries = append(c.Entries, me)
	}
	m.Collections = append(m.Collections, c)
}

// EntryCount returns the number of entries across all collections.
func (m *Manifest) EntryCount() int {
	n := 0
	for _, c := range m.Collections {
		n += len(c.Entries)
	}
	return n
}

// ToJSON serializes the manifest to JSON.
func (m *Manifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the loaded content and feed settings.
// BuildID and GeneratedAt are excluded, so two builds of unchanged content
// hash equal.
func (m *Manifest) Hash() (string, error) {
	hashInput := struct {
		BaseURL     string       `json:"base_url"`
		Collections []Collection `json:"collections"`
		Feed        Feed         `json:"feed"`
	}{
		BaseURL:     m.BaseURL,
		Collections: m.Collections,
		Feed:        m.Feed,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

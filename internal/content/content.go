// Package content defines the validated content entry shared by the loader,
// query and feed packages.
package content

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// CollectionType names a content collection. Each collection has one schema.
type CollectionType string

const (
	CollectionBlog CollectionType = "blog"
	CollectionDocs CollectionType = "docs"
)

// Collections lists every known collection type in a stable order.
func Collections() []CollectionType {
	return []CollectionType{CollectionBlog, CollectionDocs}
}

// ParseCollectionType converts a raw name into a CollectionType.
func ParseCollectionType(raw string) (CollectionType, error) {
	ct := CollectionType(strings.ToLower(strings.TrimSpace(raw)))
	if !ct.Valid() {
		return "", fmt.Errorf("unknown collection %q", raw)
	}
	return ct, nil
}

// Valid reports whether ct is a known collection.
func (ct CollectionType) Valid() bool {
	return slices.Contains(Collections(), ct)
}

// PathSegment is the URL path segment entries of this collection live under.
func (ct CollectionType) PathSegment() string {
	return string(ct)
}

func (ct CollectionType) String() string { return string(ct) }

// Entry is a content entry that has passed schema validation.
//
// Entries are passed and returned by value. Tags is the only reference field;
// callers that need to change it must copy it first (see Clone).
type Entry struct {
	Slug       string
	Collection CollectionType
	SourcePath string

	Title       string
	Description string
	// Date is zero when HasDate is false (docs entries may omit it).
	Date     time.Time
	HasDate  bool
	Tags     []string
	Featured bool
	Author   string
	Role     string
	Image    string
	UID      string

	Body        []byte
	Fingerprint string
}

// HasTag reports whether tag is one of the entry's tags.
func (e Entry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// Clone returns a copy of e that shares no slices with it.
func (e Entry) Clone() Entry {
	e.Tags = slices.Clone(e.Tags)
	e.Body = slices.Clone(e.Body)
	return e
}

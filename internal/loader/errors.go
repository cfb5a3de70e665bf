package loader

import (
	"errors"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/schema"
)

// ErrEmptySlug is the cause of an EntryError whose path yields no slug
// characters, for example "blog/!!!.md".
var ErrEmptySlug = errors.New("empty slug")

// EntryError reports an entry that could not be turned into a validated
// content.Entry. Err is either schema.FieldErrors or a frontmatter parse error.
type EntryError struct {
	Collection content.CollectionType
	Path       string
	Slug       string
	Err        error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("collection %q: entry %q (%s): %v", e.Collection, e.Slug, e.Path, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// FieldErrors returns the schema errors of the entry, or nil when the entry
// failed before validation (for example on malformed YAML).
func (e *EntryError) FieldErrors() schema.FieldErrors {
	var fe schema.FieldErrors
	if errors.As(e.Err, &fe) {
		return fe
	}
	return nil
}

// DuplicateSlugError reports two source files in one collection that resolve
// to the same slug.
type DuplicateSlugError struct {
	Collection content.CollectionType
	Slug       string
	Paths      []string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("collection %q: duplicate slug %q (%s)", e.Collection, e.Slug, strings.Join(e.Paths, ", "))
}

package pipeline

import (
	"context"
	"errors"

	"git.home.luguber.info/inful/docsite/internal/content"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/loader"
)

// classifyLoadError maps loader failures onto error categories. Invalid entries
// and duplicate slugs are content errors; anything else is filesystem.
func classifyLoadError(ct content.CollectionType, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var dupErr *loader.DuplicateSlugError
	if errors.As(err, &dupErr) {
		return derrors.ContentError("duplicate slug").
			WithCause(err).
			WithContext("collection", string(ct)).
			WithContext("slug", dupErr.Slug).
			Build()
	}

	var entryErr *loader.EntryError
	if errors.As(err, &entryErr) {
		return derrors.ContentError("invalid content entry").
			WithCause(err).
			WithContext("collection", string(ct)).
			WithContext("slug", entryErr.Slug).
			WithContext("path", entryErr.Path).
			Build()
	}

	return derrors.FileSystemError("failed to load collection").
		WithCause(err).
		WithContext("collection", string(ct)).
		Build()
}

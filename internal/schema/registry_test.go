package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/content"
)

func TestValidate_BlogEntry_AllFields(t *testing.T) {
	r := DefaultRegistry()
	raw := map[string]any{
		"title":       "Release 2.0",
		"description": "What's new",
		"date":        "2026-02-08",
		"tags":        []any{"release", "go"},
		"author":      "Sam",
		"role":        "Maintainer",
		"image":       "/img/release.png",
		"featured":    true,
		"uid":         "6F9619FF-8B86-D011-B42D-00C04FC964FF",
		"unknown":     "ignored",
	}

	e, err := r.Validate(content.CollectionBlog, raw)
	require.NoError(t, err)

	assert.Equal(t, content.CollectionBlog, e.Collection)
	assert.Equal(t, "Release 2.0", e.Title)
	assert.Equal(t, "What's new", e.Description)
	assert.True(t, e.HasDate)
	assert.Equal(t, time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC), e.Date)
	assert.Equal(t, []string{"release", "go"}, e.Tags)
	assert.Equal(t, "Sam", e.Author)
	assert.Equal(t, "Maintainer", e.Role)
	assert.Equal(t, "/img/release.png", e.Image)
	assert.True(t, e.Featured)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", e.UID)
}

func TestValidate_AccumulatesAllErrors(t *testing.T) {
	r := DefaultRegistry()
	raw := map[string]any{
		"date":     "not-a-date",
		"tags":     []any{"ok", 3},
		"featured": "yes",
	}

	_, err := r.Validate(content.CollectionBlog, raw)
	require.Error(t, err)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Len(t, fe, 4)
	assert.Equal(t, MissingField("title"), fe[0])
	assert.True(t, fe.Has(KindInvalidFieldType, "date"))
	assert.True(t, fe.Has(KindInvalidFieldType, "tags"))
	assert.True(t, fe.Has(KindInvalidFieldType, "featured"))
	assert.Contains(t, fe[1].Reason, `"not-a-date"`)
}

func TestValidate_MissingAndEmptyRequiredFields(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name string
		raw  map[string]any
		want []string
	}{
		{name: "absent", raw: map[string]any{}, want: []string{"title", "date"}},
		{name: "empty strings", raw: map[string]any{"title": "  ", "date": ""}, want: []string{"title", "date"}},
		{name: "null values", raw: map[string]any{"title": nil, "date": nil}, want: []string{"title", "date"}},
		{name: "date only missing", raw: map[string]any{"title": "x"}, want: []string{"date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Validate(content.CollectionBlog, tt.raw)
			var fe FieldErrors
			require.True(t, errors.As(err, &fe))
			require.Len(t, fe, len(tt.want))
			for i, name := range tt.want {
				assert.Equal(t, MissingField(name), fe[i])
			}
		})
	}
}

func TestValidate_DocsDateOptional(t *testing.T) {
	r := DefaultRegistry()

	e, err := r.Validate(content.CollectionDocs, map[string]any{"title": "Getting started"})
	require.NoError(t, err)
	assert.False(t, e.HasDate)
	assert.True(t, e.Date.IsZero())

	_, err = r.Validate(content.CollectionDocs, map[string]any{"title": "x", "date": "soon"})
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.True(t, fe.Has(KindInvalidFieldType, "date"))
}

func TestValidate_WrongTitleType(t *testing.T) {
	_, err := DefaultRegistry().Validate(content.CollectionDocs, map[string]any{"title": 42})

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Len(t, fe, 1)
	assert.Equal(t, InvalidFieldType("title", "expected string, got integer"), fe[0])
}

func TestValidate_UnknownCollection(t *testing.T) {
	_, err := DefaultRegistry().Validate(content.CollectionType("news"), map[string]any{})
	require.ErrorIs(t, err, ErrUnknownCollection)
}

func TestValidate_InvalidUUID(t *testing.T) {
	_, err := DefaultRegistry().Validate(content.CollectionDocs, map[string]any{"title": "x", "uid": "abc"})

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.True(t, fe.Has(KindInvalidFieldType, "uid"))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   any
		want time.Time
	}{
		{in: "2025-12-17", want: time.Date(2025, 12, 17, 0, 0, 0, 0, time.UTC)},
		{in: "2025-11-12T08:30:00Z", want: time.Date(2025, 11, 12, 8, 30, 0, 0, time.UTC)},
		{in: "2025-11-12T08:30:00", want: time.Date(2025, 11, 12, 8, 30, 0, 0, time.UTC)},
		{in: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		require.NoError(t, err)
		assert.True(t, tt.want.Equal(got.(time.Time)), "got %v want %v", got, tt.want)
	}

	_, err := ParseDate("2025-13-45")
	assert.Error(t, err)
}

func TestNewRegistry_RejectsDuplicatesAndUnmappedFields(t *testing.T) {
	_, err := NewRegistry(BlogSchema(), BlogSchema())
	require.Error(t, err)

	_, err = NewRegistry(CollectionSchema{
		Collection: content.CollectionDocs,
		Fields:     []FieldDescriptor{{Name: "weight", Type: TypeString}},
	})
	require.Error(t, err)
}

func TestRegistry_SchemaIsACopy(t *testing.T) {
	r := DefaultRegistry()
	s, ok := r.Schema(content.CollectionBlog)
	require.True(t, ok)
	s.Fields[0].Required = false

	again, _ := r.Schema(content.CollectionBlog)
	title, ok := again.Field("title")
	require.True(t, ok)
	assert.True(t, title.Required)
	assert.Equal(t, []content.CollectionType{content.CollectionBlog, content.CollectionDocs}, r.Collections())
}

func TestFieldErrors_Error(t *testing.T) {
	fe := FieldErrors{MissingField("title"), InvalidFieldType("date", "bad")}
	assert.Equal(t, `missing required field "title"; invalid field "date": bad`, fe.Error())
}

func TestValidate_TagsAreDeduplicated(t *testing.T) {
	r := DefaultRegistry()
	raw := map[string]any{
		"title": "Tags",
		"date":  "2026-02-08",
		"tags":  []any{"go", "release", "go", "release", "rss"},
	}

	e, err := r.Validate(content.CollectionBlog, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "release", "rss"}, e.Tags)
}

// Package schema declares the frontmatter shape of each content collection
// and validates raw frontmatter against it.
package schema

import (
	"fmt"
	"slices"
	"time"

	"git.home.luguber.info/inful/docsite/internal/content"
)

// CollectionSchema is the ordered list of fields recognized for one collection.
// Keys not listed are ignored.
type CollectionSchema struct {
	Collection content.CollectionType
	Fields     []FieldDescriptor
}

// Field returns the descriptor for name.
func (s CollectionSchema) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Registry maps collection types to their schemas. It is built once and never
// modified afterwards, so it is safe to share.
type Registry struct {
	schemas map[content.CollectionType]CollectionSchema
}

// NewRegistry builds a registry from the given schemas. Each collection may be
// declared once.
func NewRegistry(schemas ...CollectionSchema) (*Registry, error) {
	r := &Registry{schemas: make(map[content.CollectionType]CollectionSchema, len(schemas))}
	for _, s := range schemas {
		if _, dup := r.schemas[s.Collection]; dup {
			return nil, fmt.Errorf("schema for collection %q declared twice", s.Collection)
		}
		for _, f := range s.Fields {
			if _, ok := setters[f.Name]; !ok {
				return nil, fmt.Errorf("collection %q: field %q has no entry mapping", s.Collection, f.Name)
			}
		}
		r.schemas[s.Collection] = CollectionSchema{
			Collection: s.Collection,
			Fields:     slices.Clone(s.Fields),
		}
	}
	return r, nil
}

// DefaultRegistry returns the registry with the blog and docs schemas.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BlogSchema(), DocsSchema())
	if err != nil {
		panic(err)
	}
	return r
}

// BlogSchema is the schema for the blog collection.
func BlogSchema() CollectionSchema {
	return CollectionSchema{
		Collection: content.CollectionBlog,
		Fields: []FieldDescriptor{
			{Name: "title", Required: true, Type: TypeString},
			{Name: "description", Type: TypeString},
			{Name: "date", Required: true, Type: TypeDate, Transform: ParseDate},
			{Name: "tags", Type: TypeStringList},
			{Name: "author", Type: TypeString},
			{Name: "role", Type: TypeString},
			{Name: "image", Type: TypeString},
			{Name: "featured", Type: TypeBool},
			{Name: "uid", Type: TypeUUID, Transform: ParseUUID},
		},
	}
}

// DocsSchema is the schema for the docs collection. Blog fields are accepted
// but optional so a page can be cross-listed.
func DocsSchema() CollectionSchema {
	return CollectionSchema{
		Collection: content.CollectionDocs,
		Fields: []FieldDescriptor{
			{Name: "title", Required: true, Type: TypeString},
			{Name: "description", Type: TypeString},
			{Name: "date", Type: TypeDate, Transform: ParseDate},
			{Name: "tags", Type: TypeStringList},
			{Name: "author", Type: TypeString},
			{Name: "role", Type: TypeString},
			{Name: "image", Type: TypeString},
			{Name: "featured", Type: TypeBool},
			{Name: "uid", Type: TypeUUID, Transform: ParseUUID},
		},
	}
}

// Schema returns a copy of the schema registered for ct.
func (r *Registry) Schema(ct content.CollectionType) (CollectionSchema, bool) {
	s, ok := r.schemas[ct]
	if !ok {
		return CollectionSchema{}, false
	}
	s.Fields = slices.Clone(s.Fields)
	return s, true
}

// Collections returns the registered collection types in stable order.
func (r *Registry) Collections() []content.CollectionType {
	out := make([]content.CollectionType, 0, len(r.schemas))
	for ct := range r.schemas {
		out = append(out, ct)
	}
	slices.Sort(out)
	return out
}

// Validate checks raw frontmatter against the schema for ct and returns the
// entry's metadata fields. Slug, body and source path are left for the caller.
//
// Every field is checked; on failure the returned error is a FieldErrors value
// holding all problems found. An unregistered ct yields ErrUnknownCollection.
func (r *Registry) Validate(ct content.CollectionType, raw map[string]any) (content.Entry, error) {
	s, ok := r.schemas[ct]
	if !ok {
		return content.Entry{}, fmt.Errorf("%w: %q", ErrUnknownCollection, ct)
	}

	entry := content.Entry{Collection: ct}
	var errs FieldErrors
	for _, f := range s.Fields {
		value, present := raw[f.Name]
		if !present || isEmpty(value) {
			if f.Required {
				errs = append(errs, MissingField(f.Name))
			}
			continue
		}

		v, err := coerce(f.Type, value)
		if transform := f.transform(); err == nil && transform != nil {
			v, err = transform(v)
		}
		if err != nil {
			errs = append(errs, InvalidFieldType(f.Name, err.Error()))
			continue
		}
		setters[f.Name](&entry, v)
	}

	if len(errs) > 0 {
		return content.Entry{}, errs
	}
	return entry, nil
}

// setters copy a coerced value into the matching Entry field.
var setters = map[string]func(*content.Entry, any){
	"title":       func(e *content.Entry, v any) { e.Title = v.(string) },
	"description": func(e *content.Entry, v any) { e.Description = v.(string) },
	"date": func(e *content.Entry, v any) {
		e.Date = v.(time.Time)
		e.HasDate = true
	},
	"tags":     func(e *content.Entry, v any) { e.Tags = v.([]string) },
	"author":   func(e *content.Entry, v any) { e.Author = v.(string) },
	"role":     func(e *content.Entry, v any) { e.Role = v.(string) },
	"image":    func(e *content.Entry, v any) { e.Image = v.(string) },
	"featured": func(e *content.Entry, v any) { e.Featured = v.(bool) },
	"uid":      func(e *content.Entry, v any) { e.UID = v.(string) },
}

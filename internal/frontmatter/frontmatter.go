// Package frontmatter separates a YAML metadata block from a Markdown body.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is a source file split into its metadata block and body.
type Document struct {
	// Frontmatter is the raw YAML between the `---` delimiters, without them.
	Frontmatter []byte
	Body        []byte
	// HasFrontmatter is false when the file does not open with `---`.
	HasFrontmatter bool
	Newline        string
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// A leading UTF-8 byte order mark is ignored. If the document does not start
// with a delimiter line, HasFrontmatter is false and Body is the full input.
func Split(content []byte) (Document, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	nl := detectNewline(content)
	doc := Document{Newline: nl}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		doc.Body = content
		return doc, nil
	}
	doc.HasFrontmatter = true

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) || bytes.Equal(rest, []byte("---")) {
		doc.Frontmatter = []byte{}
		doc.Body = rest[min(len(open), len(rest)):]
		return doc, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		doc.Frontmatter = rest[:idx+len(nl)]
		doc.Body = rest[idx+len(closeSeq):]
		return doc, nil
	}

	// Closing delimiter on the last line with no trailing newline.
	closeAtEOF := []byte(nl + "---")
	if bytes.HasSuffix(rest, closeAtEOF) {
		doc.Frontmatter = rest[:len(rest)-len(closeAtEOF)+len(nl)]
		doc.Body = []byte{}
		return doc, nil
	}

	return Document{}, ErrMissingClosingDelimiter
}

// Fields parses the frontmatter block into a map. A document without
// frontmatter yields an empty map.
func (d Document) Fields() (map[string]any, error) {
	return ParseYAML(d.Frontmatter)
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, fmt.Errorf("parse frontmatter yaml: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

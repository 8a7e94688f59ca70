// Package document models a markdown page as a metadata map plus a content
// string, and implements the merge applied when two documentation packages
// contribute a page at the same destination.
package document

import (
	"bytes"
	"os"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/frontmatter"
)

// Document is a parsed markdown page. Meta keys are case-sensitive.
type Document struct {
	Meta    map[string]any
	Content string

	block frontmatter.Block
	// encodedMeta is Meta as encoded at parse time. While Meta still encodes
	// to the same bytes the original block is written back verbatim.
	encodedMeta []byte
}

// New returns a document with the given content and an empty metadata map.
func New(content string) *Document {
	return &Document{Meta: map[string]any{}, Content: content}
}

// Parse splits data into metadata and content.
func Parse(data []byte) (*Document, error) {
	block, body, err := frontmatter.Split(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryParse, errors.SeverityFatal, "malformed front matter")
	}

	meta, err := frontmatter.Decode(block.Raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryParse, errors.SeverityFatal, "malformed front matter")
	}

	doc := &Document{Meta: meta, Content: string(body), block: block}
	if block.Present {
		doc.block.Raw = append([]byte(nil), block.Raw...)
		if encoded, err := frontmatter.Encode(meta, "\n"); err == nil {
			doc.encodedMeta = encoded
		}
	}
	return doc, nil
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (*Document, error) {
	// #nosec G304 -- path comes from walking a configured package source directory.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO("read document", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		if e, ok := errors.As(err); ok {
			return nil, e.WithContext("path", path)
		}
		return nil, errors.Parse(path, err)
	}
	return doc, nil
}

// Serialize renders the document back to bytes.
//
// A document whose metadata is unchanged since Parse is reproduced byte for
// byte. Otherwise the metadata block is re-encoded with sorted keys.
func Serialize(d *Document) ([]byte, error) {
	if d.block.Present && d.encodedMeta != nil {
		current, err := frontmatter.Encode(d.Meta, "\n")
		if err != nil {
			return nil, errors.InternalError("encode front matter", err)
		}
		if bytes.Equal(current, d.encodedMeta) {
			return d.block.Join([]byte(d.Content)), nil
		}
	}

	content := []byte(d.Content)
	if len(d.Meta) == 0 && !d.block.Present {
		if !frontmatter.StartsWithDelimiter(content) {
			return content, nil
		}
		// Content that looks like a metadata block must be preceded by an
		// empty one to be read back as content.
		return frontmatter.Block{Present: true, Newline: "\n", Raw: []byte{}}.Join(content), nil
	}

	nl := d.block.Newline
	if nl == "" {
		nl = "\n"
	}
	raw, err := frontmatter.Encode(d.Meta, nl)
	if err != nil {
		return nil, errors.InternalError("encode front matter", err)
	}
	return frontmatter.Block{Present: true, Newline: nl, Raw: raw}.Join(content), nil
}

// HasMetadataBlock reports whether the document carries a metadata block,
// either from its source or because metadata was set on it.
func (d *Document) HasMetadataBlock() bool {
	return d.block.Present || len(d.Meta) > 0
}

// Clone returns a copy whose top-level metadata map can be changed without
// affecting d.
func (d *Document) Clone() *Document {
	out := *d
	out.Meta = make(map[string]any, len(d.Meta))
	for k, v := range d.Meta {
		out.Meta[k] = v
	}
	return &out
}

// String returns the metadata value for key when it is a string.
func (d *Document) String(key string) (string, bool) {
	s, ok := d.Meta[key].(string)
	return s, ok
}

// Bool returns the metadata value for key when it is a boolean.
func (d *Document) Bool(key string) (bool, bool) {
	b, ok := d.Meta[key].(bool)
	return b, ok
}

// Strings returns the metadata value for key as a string slice. A single
// string is returned as a one-element slice.
func (d *Document) Strings(key string) []string {
	switch v := d.Meta[key].(type) {
	case string:
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

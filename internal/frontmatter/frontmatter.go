// Package frontmatter splits, decodes and encodes the YAML metadata block at
// the head of a markdown document.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrUnterminated indicates the document opened a metadata block but never
// closed it.
var ErrUnterminated = errors.New("front matter start delimiter found but closing delimiter is missing")

// Block is the raw metadata block of a document, without its delimiters.
type Block struct {
	Raw     []byte
	Present bool
	// Newline is the line ending of the opening delimiter, "\n" or "\r\n".
	Newline string

	// closing is the closing delimiter exactly as found in the source.
	closing []byte
}

// Split separates the metadata block from the markdown body.
//
// A document without a leading delimiter line has no block and its whole
// input is the body. The closing delimiter may be the last line of the input
// with or without a trailing newline.
func Split(content []byte) (Block, []byte, error) {
	nl := detectNewline(content)
	block := Block{Newline: nl}

	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return block, content, nil
	}
	rest := content[len(open):]

	// Empty block: the closing delimiter immediately follows the opening one.
	if bytes.HasPrefix(rest, open) {
		block.Present = true
		block.Raw = []byte{}
		block.closing = open
		return block, rest[len(open):], nil
	}
	if bytes.Equal(rest, []byte(delimiter)) {
		block.Present = true
		block.Raw = []byte{}
		block.closing = []byte(delimiter)
		return block, []byte{}, nil
	}

	closeSeq := []byte(nl + delimiter + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		end := idx + len(nl)
		block.Present = true
		block.Raw = rest[:end]
		block.closing = open
		return block, rest[end+len(open):], nil
	}

	eofClose := []byte(nl + delimiter)
	if bytes.HasSuffix(rest, eofClose) {
		end := len(rest) - len(delimiter)
		block.Present = true
		block.Raw = rest[:end]
		block.closing = []byte(delimiter)
		return block, []byte{}, nil
	}

	return Block{}, nil, ErrUnterminated
}

// Join reassembles a document from the block and body. A block that is not
// present yields the body unchanged.
func (b Block) Join(body []byte) []byte {
	if !b.Present {
		return body
	}
	nl := b.Newline
	if nl == "" {
		nl = "\n"
	}
	closing := b.closing
	if closing == nil {
		closing = []byte(delimiter + nl)
	}

	out := make([]byte, 0, len(delimiter)+len(nl)+len(b.Raw)+len(closing)+len(body))
	out = append(out, delimiter...)
	out = append(out, nl...)
	out = append(out, b.Raw...)
	out = append(out, closing...)
	out = append(out, body...)
	return out
}

// StartsWithDelimiter reports whether content would be read as opening a
// metadata block.
func StartsWithDelimiter(content []byte) bool {
	return bytes.HasPrefix(content, []byte(delimiter+"\n")) ||
		bytes.HasPrefix(content, []byte(delimiter+"\r\n"))
}

// Decode parses a raw YAML block into a map. An empty block yields an empty map.
func Decode(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
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

package markdown

import (
	"bytes"

	gmast "github.com/yuin/goldmark/ast"
)

// Heading is a top-level ATX heading found in a body.
type Heading struct {
	// Offset is the byte offset of the heading's "#" marker.
	Offset int
	Text   string
}

// TopLevelHeadings returns the document-level ATX headings whose line starts
// with exactly one "#". Headings inside code blocks, block quotes and lists
// are not reported, nor are setext headings.
func TopLevelHeadings(body []byte) []Heading {
	root, _ := Parse(body)

	var out []Heading
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*gmast.Heading)
		if !ok || h.Level != 1 {
			continue
		}
		offset, ok := atxMarker(body, h)
		if !ok {
			continue
		}
		out = append(out, Heading{Offset: offset, Text: headingText(body, h)})
	}
	return out
}

// DemoteTopLevelHeadings turns every top-level "# " heading into "## ".
func DemoteTopLevelHeadings(body []byte) []byte {
	headings := TopLevelHeadings(body)
	if len(headings) == 0 {
		return body
	}

	edits := make([]Edit, 0, len(headings))
	for _, h := range headings {
		edits = append(edits, Edit{Start: h.Offset, End: h.Offset, Replacement: []byte("#")})
	}
	out, err := ApplyEdits(body, edits)
	if err != nil {
		// Insertions at distinct offsets never overlap.
		return body
	}
	return out
}

// atxMarker locates the "#" that opens heading h. Setext headings and empty
// headings without content lines have no usable marker.
func atxMarker(body []byte, h *gmast.Heading) (int, bool) {
	lines := h.Lines()
	if lines.Len() == 0 {
		return 0, false
	}
	start := lines.At(0).Start

	lineStart := bytes.LastIndexByte(body[:start], '\n') + 1
	i := lineStart
	for i < len(body) && i-lineStart < 3 && body[i] == ' ' {
		i++
	}
	if i >= len(body) || body[i] != '#' {
		return 0, false
	}
	if i+1 < len(body) && body[i+1] != ' ' && body[i+1] != '\t' && body[i+1] != '\n' && body[i+1] != '\r' {
		return 0, false
	}
	return i, true
}

func headingText(body []byte, h *gmast.Heading) string {
	var buf bytes.Buffer
	lines := h.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(body))
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}

package markdown

import (
	"bytes"
	"sort"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// ExtractLinks returns the link destinations of body in document order,
// followed by reference definitions sorted by label. Links inside code spans
// and code blocks are not links and are not reported.
func ExtractLinks(body []byte) []Link {
	root, ctx := Parse(body)

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return links
}

// RewriteFunc maps a link destination to its replacement. ok is false when
// the destination should stay as it is.
type RewriteFunc func(dest string) (replacement string, ok bool, err error)

// RewriteLinks rewrites every link destination for which fn reports a
// replacement. Occurrences inside code are left alone.
func RewriteLinks(body []byte, fn RewriteFunc) ([]byte, error) {
	replacements := make(map[string]string)
	for _, l := range ExtractLinks(body) {
		if _, seen := replacements[l.Destination]; seen || l.Destination == "" {
			continue
		}
		repl, ok, err := fn(l.Destination)
		if err != nil {
			return nil, err
		}
		if ok {
			replacements[l.Destination] = repl
		}
	}
	if len(replacements) == 0 {
		return body, nil
	}

	code := codeRanges(body)
	var edits []Edit
	taken := make(map[int]bool)
	for dest, repl := range replacements {
		for _, off := range destinationOffsets(body, dest) {
			if taken[off] || inRanges(code, off) {
				continue
			}
			taken[off] = true
			edits = append(edits, Edit{Start: off, End: off + len(dest), Replacement: []byte(repl)})
		}
	}
	return ApplyEdits(body, edits)
}

// destinationOffsets finds dest where it stands alone as a link destination:
// after "(", "<" or whitespace and before a closing delimiter or whitespace.
func destinationOffsets(body []byte, dest string) []int {
	var out []int
	needle := []byte(dest)
	from := 0
	for {
		idx := bytes.Index(body[from:], needle)
		if idx < 0 {
			return out
		}
		off := from + idx
		end := off + len(needle)
		if off > 0 && strings.IndexByte("(< \t", body[off-1]) >= 0 &&
			(end == len(body) || strings.IndexByte(")> \t\r\n\"'", body[end]) >= 0) {
			out = append(out, off)
		}
		from = off + 1
	}
}

type byteRange struct{ start, end int }

func codeRanges(body []byte) []byteRange {
	root, _ := Parse(body)

	var out []byteRange
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.FencedCodeBlock, *gmast.CodeBlock, *gmast.HTMLBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				out = append(out, byteRange{seg.Start, seg.Stop})
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*gmast.Text); ok {
					out = append(out, byteRange{t.Segment.Start, t.Segment.Stop})
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return out
}

func inRanges(ranges []byteRange, off int) bool {
	for _, r := range ranges {
		if off >= r.start && off < r.end {
			return true
		}
	}
	return false
}

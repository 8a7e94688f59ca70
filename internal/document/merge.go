package document

import (
	"git.home.luguber.info/inful/partialdocs/internal/markdown"
)

// Metadata keys written by the overlay.
const (
	KeyTitle       = "title"
	KeyPartial     = "partial"
	KeyDocsPackage = "docs_package"
	KeyRedirects   = "redirects"
)

// contentSeparator separates the contributions of two packages on a merged page.
const contentSeparator = "\n\n"

// Merge combines two documents that landed on the same destination.
//
// The incoming content is appended after a blank line. When the result holds
// more than one top-level heading, all of them are demoted one level so the
// page keeps a single title. Metadata is merged shallowly with incoming
// values winning, and the page is stamped as contributed by pkg.
func Merge(existing, incoming *Document, pkg string) *Document {
	content := existing.Content + contentSeparator + incoming.Content
	if len(markdown.TopLevelHeadings([]byte(content))) > 1 {
		content = string(markdown.DemoteTopLevelHeadings([]byte(content)))
	}

	meta := make(map[string]any, len(existing.Meta)+len(incoming.Meta)+2)
	for k, v := range existing.Meta {
		meta[k] = v
	}
	for k, v := range incoming.Meta {
		meta[k] = v
	}

	merged := &Document{Meta: meta, Content: content}
	merged.block.Newline = existing.block.Newline
	merged.block.Present = existing.HasMetadataBlock() || incoming.HasMetadataBlock()
	StampProvenance(merged, pkg)
	return merged
}

// StampTitle sets the page title.
func StampTitle(d *Document, title string) {
	d.Meta[KeyTitle] = title
}

// StampProvenance marks d as a partial page last contributed by pkg.
func StampProvenance(d *Document, pkg string) {
	if d.Meta == nil {
		d.Meta = map[string]any{}
	}
	d.Meta[KeyPartial] = true
	d.Meta[KeyDocsPackage] = pkg
}

// Package returns the id of the package that last contributed to d.
func Package(d *Document) string {
	s, _ := d.String(KeyDocsPackage)
	return s
}

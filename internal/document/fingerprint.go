package document

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/partialdocs/internal/frontmatter"
)

// Fingerprint returns a content fingerprint of d. Two documents with equal
// metadata and content have equal fingerprints regardless of how their
// metadata block was formatted.
func Fingerprint(d *Document) (string, error) {
	fields := make(map[string]any, len(d.Meta))
	for k, v := range d.Meta {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	fm := ""
	if len(fields) > 0 {
		raw, err := frontmatter.Encode(fields, "\n")
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(raw), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, d.Content), nil
}

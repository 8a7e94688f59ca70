// Package manifest implements the integrity record written into packaged
// documentation archives: one "path,sha256=<hex>,<size>" line per file.
package manifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
)

// FileName is the base name of the manifest inside the dist-info directory.
const FileName = "RECORD"

const digestPrefix = "sha256="

// Record describes one file written into an archive.
type Record struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// NewRecord digests data stored at path.
func NewRecord(path string, data []byte) Record {
	sum := sha256.Sum256(data)
	return Record{Path: path, SHA256: hex.EncodeToString(sum[:]), Size: int64(len(data))}
}

// String renders the record as a manifest line without the newline.
func (r Record) String() string {
	return fmt.Sprintf("%s,%s%s,%d", r.Path, digestPrefix, r.SHA256, r.Size)
}

// ParseRecord parses a single manifest line. Paths may contain commas; the
// digest and size are taken from the end of the line.
func ParseRecord(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	sizeAt := strings.LastIndex(line, ",")
	if sizeAt < 0 {
		return Record{}, errors.Validation("record", "missing size").WithContext("line", line)
	}
	digestAt := strings.LastIndex(line[:sizeAt], ",")
	if digestAt <= 0 {
		return Record{}, errors.Validation("record", "missing digest").WithContext("line", line)
	}

	size, err := strconv.ParseInt(line[sizeAt+1:], 10, 64)
	if err != nil || size < 0 {
		return Record{}, errors.Validation("record", "invalid size").WithContext("line", line)
	}
	digest, ok := strings.CutPrefix(line[digestAt+1:sizeAt], digestPrefix)
	if !ok || len(digest) != sha256.Size*2 {
		return Record{}, errors.Validation("record", "invalid sha256 digest").WithContext("line", line)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return Record{}, errors.Validation("record", "invalid sha256 digest").WithContext("line", line)
	}
	return Record{Path: line[:digestAt], SHA256: digest, Size: size}, nil
}

// Manifest accumulates records in write order.
type Manifest struct {
	records []Record
}

// Add records data written at path and returns the record.
func (m *Manifest) Add(path string, data []byte) Record {
	r := NewRecord(path, data)
	m.records = append(m.records, r)
	return r
}

// Records returns a copy of the records in write order.
func (m *Manifest) Records() []Record {
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

func (m *Manifest) Len() int { return len(m.records) }

// Bytes renders the manifest: every record on its own line, newline terminated.
func (m *Manifest) Bytes() []byte {
	var buf bytes.Buffer
	for i, r := range m.records {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(r.String())
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Parse reads a rendered manifest. Blank lines are ignored.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	for i, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := ParseRecord(line)
		if err != nil {
			if e, ok := errors.As(err); ok {
				return nil, e.WithContext("line_number", i+1)
			}
			return nil, err
		}
		m.records = append(m.records, r)
	}
	return m, nil
}

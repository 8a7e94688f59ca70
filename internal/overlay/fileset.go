// Package overlay merges the files of several documentation packages into a
// single virtual file set.
package overlay

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/partialdocs/internal/document"
	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

// Kind distinguishes parsed documents from files copied verbatim.
type Kind string

const (
	KindDocument Kind = "document"
	KindMedia    Kind = "media"
)

// Entry is one file of the merged site.
type Entry struct {
	// Path is the destination path, relative to the site root.
	Path string
	Kind Kind
	// Doc is set for documents.
	Doc *document.Document
	// Data is set for media files.
	Data []byte
	// Origin is the id of the package that contributed the entry last.
	// Host files have no origin.
	Origin string
	// Source is the file the entry was read from.
	Source string
}

// Bytes returns the file content as it would be written to disk.
func (e *Entry) Bytes() ([]byte, error) {
	if e.Kind == KindDocument {
		return document.Serialize(e.Doc)
	}
	return e.Data, nil
}

// FileSet holds at most one entry per destination path. It is owned by a
// single build pass and is not safe for concurrent mutation.
type FileSet struct {
	entries map[string]*Entry
}

func NewFileSet() *FileSet {
	return &FileSet{entries: make(map[string]*Entry)}
}

// Put stores e under its normalised path, replacing any previous entry.
func (fs *FileSet) Put(e *Entry) {
	e.Path = key(e.Path)
	fs.entries[e.Path] = e
}

func (fs *FileSet) Get(p string) (*Entry, bool) {
	e, ok := fs.entries[key(p)]
	return e, ok
}

func (fs *FileSet) Has(p string) bool {
	_, ok := fs.entries[key(p)]
	return ok
}

// Remove deletes the entry at p and reports whether one existed.
func (fs *FileSet) Remove(p string) bool {
	k := key(p)
	if _, ok := fs.entries[k]; !ok {
		return false
	}
	delete(fs.entries, k)
	return true
}

func (fs *FileSet) Len() int { return len(fs.entries) }

// Paths returns all destination paths sorted lexically.
func (fs *FileSet) Paths() []string {
	out := make([]string, 0, len(fs.entries))
	for p := range fs.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Entries returns all entries sorted by path.
func (fs *FileSet) Entries() []*Entry {
	out := make([]*Entry, 0, len(fs.entries))
	for _, p := range fs.Paths() {
		out = append(out, fs.entries[p])
	}
	return out
}

// OriginOf returns the package that contributed the entry at p. Host files
// and unknown paths report false.
func (fs *FileSet) OriginOf(p string) (string, bool) {
	e, ok := fs.Get(p)
	if !ok || e.Origin == "" {
		return "", false
	}
	return e.Origin, true
}

// Data returns the bytes of the entry at p.
func (fs *FileSet) Data(p string) ([]byte, bool) {
	e, ok := fs.Get(p)
	if !ok {
		return nil, false
	}
	data, err := e.Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// WriteTo materialises every entry below dir.
func (fs *FileSet) WriteTo(dir string) error {
	for _, e := range fs.Entries() {
		data, err := e.Bytes()
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(e.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return errors.IO("create directory", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, data, 0o600); err != nil {
			return errors.IO("write file", target, err)
		}
	}
	return nil
}

// Changes lists the paths that differ between two file sets.
type Changes struct {
	Added    []string
	Removed  []string
	Modified []string
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Modified) == 0
}

// Diff compares fs against prev by content fingerprint. A nil prev reports
// every path as added.
func (fs *FileSet) Diff(prev *FileSet) (Changes, error) {
	var c Changes
	if prev == nil {
		prev = NewFileSet()
	}
	for _, p := range fs.Paths() {
		old, ok := prev.entries[p]
		if !ok {
			c.Added = append(c.Added, p)
			continue
		}
		a, err := fingerprint(old)
		if err != nil {
			return Changes{}, err
		}
		b, err := fingerprint(fs.entries[p])
		if err != nil {
			return Changes{}, err
		}
		if a != b {
			c.Modified = append(c.Modified, p)
		}
	}
	for _, p := range prev.Paths() {
		if _, ok := fs.entries[p]; !ok {
			c.Removed = append(c.Removed, p)
		}
	}
	return c, nil
}

func fingerprint(e *Entry) (string, error) {
	if e.Kind == KindDocument {
		return document.Fingerprint(e.Doc)
	}
	sum := sha256.Sum256(e.Data)
	return hex.EncodeToString(sum[:]), nil
}

func key(p string) string {
	return paths.Join("", p)
}

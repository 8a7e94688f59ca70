package manifest

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
)

// Problem kinds reported by Verify.
const (
	ProblemMissing    = "missing"
	ProblemDigest     = "digest_mismatch"
	ProblemSize       = "size_mismatch"
	ProblemUnrecorded = "unrecorded"
)

// Problem is one discrepancy between an archive and its manifest.
type Problem struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// Report summarises an archive verification.
type Report struct {
	Archive  string    `json:"archive"`
	Manifest string    `json:"manifest"`
	Checked  int       `json:"checked"`
	Problems []Problem `json:"problems,omitempty"`
}

// OK reports whether the archive matches its manifest.
func (r *Report) OK() bool { return len(r.Problems) == 0 }

// ToJSON serializes the report to JSON.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Verify re-reads the archive at archivePath and checks every manifest line
// against the stored file. Files outside the dist-info directory that are
// missing from the manifest are reported as unrecorded.
func Verify(archivePath string) (*Report, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, errors.IO("open archive", archivePath, err)
	}
	defer func() { _ = zr.Close() }()

	files := make(map[string]*zip.File, len(zr.File))
	var recordFile *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files[f.Name] = f
		if isDistInfo(f.Name) && path.Base(f.Name) == FileName {
			recordFile = f
		}
	}
	if recordFile == nil {
		return nil, errors.NotFound("manifest", archivePath)
	}

	data, err := readZipFile(recordFile)
	if err != nil {
		return nil, errors.IO("read manifest", recordFile.Name, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}

	report := &Report{Archive: archivePath, Manifest: recordFile.Name}
	recorded := make(map[string]bool, m.Len())
	for _, r := range m.Records() {
		recorded[r.Path] = true
		report.Checked++

		f, ok := files[r.Path]
		if !ok {
			report.Problems = append(report.Problems, Problem{Path: r.Path, Kind: ProblemMissing})
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, errors.IO("read archive entry", f.Name, err)
		}
		actual := NewRecord(r.Path, content)
		switch {
		case actual.Size != r.Size:
			report.Problems = append(report.Problems, Problem{Path: r.Path, Kind: ProblemSize})
		case actual.SHA256 != r.SHA256:
			report.Problems = append(report.Problems, Problem{Path: r.Path, Kind: ProblemDigest})
		}
	}

	var unrecorded []string
	for name := range files {
		if !recorded[name] && !isDistInfo(name) {
			unrecorded = append(unrecorded, name)
		}
	}
	sort.Strings(unrecorded)
	for _, name := range unrecorded {
		report.Problems = append(report.Problems, Problem{Path: name, Kind: ProblemUnrecorded})
	}
	return report, nil
}

// Err converts a failed report into a validation error.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	first := r.Problems[0]
	return errors.Validation("archive", fmt.Sprintf("%d manifest problem(s), first: %s %s",
		len(r.Problems), first.Kind, first.Path)).WithContext("archive", r.Archive)
}

func isDistInfo(name string) bool {
	top, _, _ := strings.Cut(name, "/")
	return strings.HasSuffix(top, ".dist-info")
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

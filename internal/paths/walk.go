package paths

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
)

// File is a regular file found by ListFiles.
type File struct {
	// Rel is the normalised slash path below the listed root.
	Rel string
	// Path is where the file is read from on disk.
	Path string
}

// ListFiles returns the regular files below root, sorted by Rel. Hidden
// files and directories are skipped. Symbolic links are followed; dangling
// links and links back into a directory being listed are skipped.
func ListFiles(root string) ([]File, error) {
	real, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, errors.IO("resolve directory", root, err)
	}
	var out []File
	if err := listDir(root, "", map[string]bool{real: true}, &out); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out, nil
}

// listDir appends the files of dir. active holds the resolved directories
// on the current descent path.
func listDir(dir, prefix string, active map[string]bool, out *[]File) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.IO("read directory", dir, err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		full := filepath.Join(dir, e.Name())
		rel := Join(prefix, e.Name())

		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(full)
			if err != nil {
				continue
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			real, err := filepath.EvalSymlinks(full)
			if err != nil {
				return errors.IO("resolve directory", full, err)
			}
			if active[real] {
				continue
			}
			active[real] = true
			err = listDir(full, rel, active, out)
			delete(active, real)
			if err != nil {
				return err
			}
		case mode.IsRegular():
			*out = append(*out, File{Rel: rel, Path: full})
		}
	}
	return nil
}

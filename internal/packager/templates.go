package packager

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"text/template"
)

//go:embed all:templates
var embeddedTemplates embed.FS

const (
	templateRoot   = "templates"
	distInfoSubdir = "dist-info"
	packageSubdir  = "package"
	templateSuffix = ".tmpl"
)

// renderedFile is a template rendered to its path inside the archive.
type renderedFile struct {
	name string
	data []byte
}

var templateFuncs = template.FuncMap{
	// Go's quoting is a valid Python string literal for the values we emit.
	"quote": strconv.Quote,
}

// renderTemplates renders every template under subdir, in lexical order, into
// paths below archiveDir.
func renderTemplates(subdir, archiveDir string, vars map[string]any) ([]renderedFile, error) {
	root := path.Join(templateRoot, subdir)
	var out []renderedFile
	err := fs.WalkDir(embeddedTemplates, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		body, err := embeddedTemplates.ReadFile(p)
		if err != nil {
			return err
		}
		tpl, err := template.New(p).Funcs(templateFuncs).Option("missingkey=error").Parse(string(body))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", p, err)
		}
		var buf bytes.Buffer
		if err := tpl.Execute(&buf, vars); err != nil {
			return fmt.Errorf("render template %s: %w", p, err)
		}
		rel := strings.TrimPrefix(p, root+"/")
		rel = strings.TrimSuffix(rel, templateSuffix)
		out = append(out, renderedFile{
			name: path.Join(archiveDir, rel),
			data: bytes.ReplaceAll(buf.Bytes(), []byte("\r\n"), []byte("\n")),
		})
		return nil
	})
	return out, err
}

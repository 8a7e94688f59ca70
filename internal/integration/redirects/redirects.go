// Package redirects collects the redirect sources pages declare in their
// "redirects" metadata and renders redirect stubs for the built site.
package redirects

import (
	"bytes"
	"html/template"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/partialdocs/internal/integration"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

// Name is the integration name.
const Name = "redirects"

// Redirect sends readers of From to the page To. Both are site paths.
type Redirect struct {
	From string
	To   string
}

// Collector implements integration.SupportsRedirects.
type Collector struct {
	mu     sync.Mutex
	byFrom map[string]string
	logger *slog.Logger
}

var _ integration.SupportsRedirects = (*Collector)(nil)

func New(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{byFrom: make(map[string]string), logger: logger}
}

func (c *Collector) Name() string { return Name }

// AddRedirects registers sources as old locations of page. A source already
// pointing elsewhere is taken over by the later page.
func (c *Collector) AddRedirects(page string, sources []string) {
	page = paths.Join("", page)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range sources {
		from := paths.Join("", s)
		if from == page {
			continue
		}
		if prev, ok := c.byFrom[from]; ok && prev != page {
			c.logger.Warn("Redirect source claimed by several pages",
				logfields.Path(from), logfields.Destination(page), slog.String("previous", prev))
		}
		c.byFrom[from] = page
	}
}

// Reset forgets every redirect. Called before each rebuild.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byFrom = make(map[string]string)
}

// Redirects returns the collected redirects sorted by source.
func (c *Collector) Redirects() []Redirect {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Redirect, 0, len(c.byFrom))
	for from, to := range c.byFrom {
		out = append(out, Redirect{From: from, To: to})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

var stubTemplate = template.Must(template.New("redirect").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Redirecting...</title>
<link rel="canonical" href="{{.URL}}">
<meta http-equiv="refresh" content="0; url={{.URL}}">
</head>
<body>
<p>Redirecting to <a href="{{.URL}}">{{.URL}}</a>...</p>
</body>
</html>
`))

// Stubs renders one HTML redirect page per redirect, keyed by the path the
// stub is written to.
func (c *Collector) Stubs() (map[string][]byte, error) {
	out := make(map[string][]byte)
	for _, r := range c.Redirects() {
		var buf bytes.Buffer
		if err := stubTemplate.Execute(&buf, struct{ URL string }{URL: PageURL(r.To)}); err != nil {
			return nil, err
		}
		out[StubPath(r.From)] = buf.Bytes()
	}
	return out, nil
}

// PageURL is the directory-style URL of a Markdown page.
func PageURL(page string) string {
	page = paths.Join("", page)
	trimmed := strings.TrimSuffix(page, path.Ext(page))
	if trimmed == "index" || trimmed == "." {
		return "/"
	}
	trimmed = strings.TrimSuffix(trimmed, "/index")
	return "/" + trimmed + "/"
}

// StubPath is where the redirect stub for from is written.
func StubPath(from string) string {
	u := strings.Trim(PageURL(from), "/")
	if u == "" {
		return "index.html"
	}
	return u + "/index.html"
}

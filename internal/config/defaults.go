package config

const (
	DefaultDocsDir       = "docs"
	DefaultOutput        = "site"
	DefaultBlogDir       = "blog"
	DefaultPostDir       = "{blog}/posts"
	DefaultMetricsListen = ":9109"
	DefaultMinWordLength = 2
)

// ApplyDefaults fills unset fields.
func ApplyDefaults(c *Config) {
	if c.Site.DocsDir == "" {
		c.Site.DocsDir = DefaultDocsDir
	}
	if c.Site.Output == "" {
		c.Site.Output = DefaultOutput
	}
	if c.Blog.BlogDir == "" {
		c.Blog.BlogDir = DefaultBlogDir
	}
	if c.Blog.PostDir == "" {
		c.Blog.PostDir = DefaultPostDir
	}
	if c.Spellcheck.MinLength <= 0 {
		c.Spellcheck.MinLength = DefaultMinWordLength
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = DefaultMetricsListen
	}
}

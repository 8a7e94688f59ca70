package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/manifest"
	"git.home.luguber.info/inful/partialdocs/internal/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	var out bytes.Buffer
	g := &Global{Out: &out}
	parser, err := kong.New(cli,
		kong.Name("partialdocs"),
		kong.Vars{"version": "test"},
		kong.Bind(g),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	if err != nil {
		return out.String(), err
	}
	err = ctx.Run(cli)
	return out.String(), err
}

// siteFixture lays out a host site with one package and returns the config path.
func siteFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "docs", "index.md"), "# Host\n")
	testutil.WriteFile(t, filepath.Join(root, "pkg-a", "index.md"), "# A\n")
	testutil.WriteFile(t, filepath.Join(root, "pkg-a", "guide.md"), "# Guide\n")
	testutil.WriteFile(t, filepath.Join(root, "local-a", "index.md"), "# Local A\n")
	cfg := filepath.Join(root, "partialdocs.yaml")
	testutil.WriteFile(t, cfg, `version: "1"
site:
  docs_dir: docs
  output: site
packages:
  - id: a
    source: pkg-a
    directory: a
    title: Package A
    edit_url_template: https://example.com/a/edit/{path}
`)
	return cfg
}

func TestInit(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "partialdocs.yaml")

	out, err := run(t, "--config", cfg, "init")
	require.NoError(t, err)
	assert.Contains(t, out, cfg)
	assert.FileExists(t, cfg)

	_, err = run(t, "--config", cfg, "init")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	_, err = run(t, "--config", cfg, "init", "--force")
	require.NoError(t, err)
}

func TestBuild(t *testing.T) {
	cfg := siteFixture(t)
	root := filepath.Dir(cfg)

	out, err := run(t, "--config", cfg, "build")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "site"))
	testutil.NewFileAssertions(t, filepath.Join(root, "site")).
		Exists("index.md").
		Exists("a/guide.md").
		Contains("a/index.md", "title: Package A")
}

func TestBuild_LocalDocsOverride(t *testing.T) {
	cfg := siteFixture(t)
	root := filepath.Dir(cfg)
	out := filepath.Join(t.TempDir(), "out")

	_, err := run(t, "--config", cfg, "--local-docs", "a="+filepath.Join(root, "local-a"), "build", "-o", out)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(out, "a", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Local A")
	assert.NoFileExists(t, filepath.Join(out, "a", "guide.md"))
}

func TestBuild_Errors(t *testing.T) {
	cfg := siteFixture(t)

	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "build")
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))

	_, err = run(t, "--config", cfg, "--local-docs", "nope", "build")
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	_, err = run(t, "--config", cfg, "--local-docs", "b=/tmp", "build")
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestEditURL(t *testing.T) {
	cfg := siteFixture(t)

	out, err := run(t, "--config", cfg, "edit-url", "a/guide.md", "index.md")
	require.NoError(t, err)
	assert.Equal(t, "a/guide.md\thttps://example.com/a/edit/guide.md\nindex.md\t-\n", out)

	_, err = run(t, "--config", cfg, "edit-url", "index.md")
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestPackageAndVerify(t *testing.T) {
	docs := filepath.Join(t.TempDir(), "user docs")
	testutil.WriteFile(t, filepath.Join(docs, "index.md"), "# Docs\n")
	testutil.WriteFile(t, filepath.Join(docs, "draft.md"), "# Draft\n")
	outDir := t.TempDir()

	out, err := run(t, "package",
		"--docs-dir", docs,
		"--output-dir", outDir,
		"--package-version", "1.2.0",
		"--exclude", "draft.md",
		"--no-self-dependency")
	require.NoError(t, err)
	archive := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(outDir, "user_docs-1.2.0-py3-none-any.whl"), archive)
	assert.FileExists(t, archive)

	out, err = run(t, "verify", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "files OK")

	out, err = run(t, "verify", "--format", "json", archive)
	require.NoError(t, err)
	assert.Contains(t, out, `"checked"`)
}

func TestPackage_Options(t *testing.T) {
	cmd := PackageCmd{
		DocsDir:        "/srv/my docs",
		PackageVersion: "1.0",
		ResourceDir:    "docs",
		Var:            map[string]string{"team": "core"},
	}
	opts, err := cmd.Options()
	require.NoError(t, err)
	assert.Equal(t, "my docs", opts.Directory)
	assert.Equal(t, "my-docs", opts.Name)
	assert.True(t, opts.AddSelfDependency)
	assert.Equal(t, map[string]any{"team": "core"}, opts.ExtraVars)

	cmd.SiteDir = "guides/ops"
	cmd.PackageName = "ops"
	opts, err = cmd.Options()
	require.NoError(t, err)
	assert.Equal(t, "guides/ops", opts.Directory)
	assert.Equal(t, "ops", opts.Name)
}

// packFixture packages a one page docs folder under the site dir
// guides/ops-docs and returns the archive path.
func packFixture(t *testing.T) string {
	t.Helper()
	docs := filepath.Join(t.TempDir(), "docs")
	testutil.WriteFile(t, filepath.Join(docs, "index.md"), "# Ops\n")
	outDir := t.TempDir()
	out, err := run(t, "package",
		"--docs-dir", docs,
		"--output-dir", outDir,
		"--site-dir", "guides/ops-docs",
		"--package-version", "1.0",
		"--no-self-dependency")
	require.NoError(t, err)
	return strings.TrimSpace(out)
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) (args []string, check func(t *testing.T, out string))
		category errors.ErrorCategory
	}{
		{
			name: "package derives name from site dir",
			setup: func(t *testing.T) ([]string, func(*testing.T, string)) {
				docs := t.TempDir()
				testutil.WriteFile(t, filepath.Join(docs, "index.md"), "# Ops\n")
				outDir := t.TempDir()
				args := []string{"package", "--docs-dir", docs, "--output-dir", outDir,
					"--site-dir", "guides/ops-docs", "--package-version", "1.0", "--no-self-dependency"}
				return args, func(t *testing.T, out string) {
					archive := filepath.Join(outDir, "ops_docs-1.0-py3-none-any.whl")
					assert.Equal(t, archive+"\n", out)
					assert.FileExists(t, archive)
				}
			},
		},
		{
			name: "verify reports json",
			setup: func(t *testing.T) ([]string, func(*testing.T, string)) {
				archive := packFixture(t)
				return []string{"verify", "--format", "json", archive}, func(t *testing.T, out string) {
					var report manifest.Report
					require.NoError(t, json.Unmarshal([]byte(out), &report))
					assert.Equal(t, manifest.Report{
						Archive:  archive,
						Manifest: "ops_docs-1.0.dist-info/RECORD",
						Checked:  2,
					}, report)
				}
			},
		},
		{
			name: "verify reports text",
			setup: func(t *testing.T) ([]string, func(*testing.T, string)) {
				archive := packFixture(t)
				return []string{"verify", archive}, func(t *testing.T, out string) {
					assert.Equal(t, archive+": 2 files OK\n", out)
				}
			},
		},
		{
			name: "edit-url resolves a package page",
			setup: func(t *testing.T) ([]string, func(*testing.T, string)) {
				cfg := siteFixture(t)
				return []string{"--config", cfg, "edit-url", "a/index.md"}, func(t *testing.T, out string) {
					assert.Equal(t, "a/index.md\thttps://example.com/a/edit/index.md\n", out)
				}
			},
		},
		{
			name: "edit-url with no package page",
			setup: func(t *testing.T) ([]string, func(*testing.T, string)) {
				return []string{"--config", siteFixture(t), "edit-url", "missing.md"}, nil
			},
			category: errors.CategoryNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, check := tt.setup(t)
			out, err := run(t, args...)
			if tt.category != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCategory(err, tt.category), err)
				return
			}
			require.NoError(t, err)
			check(t, out)
		})
	}
}

func TestPackage_InvalidName(t *testing.T) {
	docs := t.TempDir()
	_, err := run(t, "package", "--docs-dir", docs, "--output-dir", t.TempDir(),
		"--package-version", "1.0", "--package-name", "bad name")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestVerify_NotAnArchive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.whl")
	testutil.WriteFile(t, p, "not a zip")
	_, err := run(t, "verify", p)
	assert.True(t, errors.IsCategory(err, errors.CategoryIO))
}

func TestLevel(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	assert.Equal(t, slog.LevelInfo, (&CLI{}).level(""))
	assert.Equal(t, slog.LevelWarn, (&CLI{}).level("warn"))
	assert.Equal(t, slog.LevelDebug, (&CLI{Verbose: true}).level("error"))

	t.Setenv(LogLevelEnv, "error")
	assert.Equal(t, slog.LevelError, (&CLI{}).level("debug"))
}

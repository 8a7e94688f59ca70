package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_InlineLink(t *testing.T) {
	links := ExtractLinks([]byte("See [API](api.md) for details."))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
}

func TestExtractLinks_ImageLink(t *testing.T) {
	links := ExtractLinks([]byte("![Diagram](diagram.png)"))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "diagram.png", links[0].Destination)
}

func TestExtractLinks_AutoLink(t *testing.T) {
	links := ExtractLinks([]byte("<https://example.com/path>"))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://example.com/path", links[0].Destination)
}

func TestExtractLinks_ReferenceLinkUsageAndDefinition(t *testing.T) {
	links := ExtractLinks([]byte("See [API][ref].\n\n[ref]: api.md\n"))
	require.Len(t, links, 2)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
	require.Equal(t, "api.md", links[1].Destination)
}

func TestExtractLinks_SkipsInlineCodeAndCodeBlocks(t *testing.T) {
	src := []byte("" +
		"Inline code: `[Link](./ignored-inline.md)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored-fence.md)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.md)\n")

	links := ExtractLinks(src)
	require.Len(t, links, 1)
	require.Equal(t, "./real.md", links[0].Destination)
}

func pkgRewrite(dest string) (string, bool, error) {
	rest, ok := strings.CutPrefix(dest, "pkg://")
	if !ok {
		return "", false, nil
	}
	if strings.HasPrefix(rest, "missing/") {
		return "", false, errors.New("unknown package")
	}
	return "/docs-" + rest, true, nil
}

func TestRewriteLinks(t *testing.T) {
	src := []byte("" +
		"See [B](pkg://b/guide.md) and ![img](pkg://b/img.png).\n" +
		"\n" +
		"Keep [local](local.md) and `pkg://b/guide.md` in code.\n" +
		"\n" +
		"```\n" +
		"[x](pkg://b/guide.md)\n" +
		"```\n" +
		"\n" +
		"[ref]: pkg://b/ref.md \"Ref\"\n")

	out, err := RewriteLinks(src, pkgRewrite)
	require.NoError(t, err)
	require.Equal(t, ""+
		"See [B](/docs-b/guide.md) and ![img](/docs-b/img.png).\n"+
		"\n"+
		"Keep [local](local.md) and `pkg://b/guide.md` in code.\n"+
		"\n"+
		"```\n"+
		"[x](pkg://b/guide.md)\n"+
		"```\n"+
		"\n"+
		"[ref]: /docs-b/ref.md \"Ref\"\n", string(out))
}

func TestRewriteLinks_NoMatchesReturnsInput(t *testing.T) {
	src := []byte("[a](a.md)\n")
	out, err := RewriteLinks(src, pkgRewrite)
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestRewriteLinks_PropagatesError(t *testing.T) {
	_, err := RewriteLinks([]byte("[x](pkg://missing/a.md)\n"), pkgRewrite)
	require.Error(t, err)
}

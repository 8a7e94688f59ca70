package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	block, body, err := Split(input)
	require.NoError(t, err)
	require.False(t, block.Present)
	require.Empty(t, block.Raw)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsBlockAndBody(t *testing.T) {
	block, body, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, block.Present)
	require.Equal(t, "key: value\n", string(block.Raw))
	require.Equal(t, "# Title\n", string(body))
}

func TestSplit_CRLF(t *testing.T) {
	block, body, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, block.Present)
	require.Equal(t, "\r\n", block.Newline)
	require.Equal(t, "key: value\r\n", string(block.Raw))
	require.Equal(t, "# Title\r\n", string(body))
}

func TestSplit_EmptyBlock(t *testing.T) {
	block, body, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, block.Present)
	require.Empty(t, block.Raw)
	require.Equal(t, "# Title\n", string(body))
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	block, body, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, block.Present)
	require.Equal(t, "title: x\n", string(block.Raw))
	require.Empty(t, body)
}

func TestSplit_Unterminated(t *testing.T) {
	_, _, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnterminated))
}

func TestSplit_DelimiterMustBeFirstLine(t *testing.T) {
	input := []byte("\n---\nkey: value\n---\n")
	block, body, err := Split(input)
	require.NoError(t, err)
	require.False(t, block.Present)
	require.Equal(t, input, body)
}

func TestJoin_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	cases := []string{
		"# Title\n\nHello\n",
		"---\nkey: value\n---\n# Title\n",
		"---\n---\n# Title\n",
		"---\r\nkey: value\r\n---\r\n# Title\r\n",
		"---\ntitle: x\n---",
		"---\n---",
		"",
	}

	for _, input := range cases {
		block, body, err := Split([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, input, string(block.Join(body)))
	}
}

func TestStartsWithDelimiter(t *testing.T) {
	assert.True(t, StartsWithDelimiter([]byte("---\nfoo")))
	assert.True(t, StartsWithDelimiter([]byte("---\r\nfoo")))
	assert.False(t, StartsWithDelimiter([]byte("----\nfoo")))
	assert.False(t, StartsWithDelimiter([]byte("# ---\n")))
}

func TestDecode(t *testing.T) {
	fields, err := Decode([]byte("uid: abc\ntags:\n  - one\n"))
	require.NoError(t, err)
	require.Equal(t, "abc", fields["uid"])
	require.Equal(t, []any{"one"}, fields["tags"])
}

func TestDecode_Empty(t *testing.T) {
	fields, err := Decode(nil)
	require.NoError(t, err)
	require.Empty(t, fields)

	fields, err = Decode([]byte("\n"))
	require.NoError(t, err)
	require.NotNil(t, fields)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(": not yaml"))
	require.Error(t, err)

	_, err = Decode([]byte("- a\n- b\n"))
	require.Error(t, err, "a sequence is not a metadata mapping")
}

package editurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
)

func TestTemplate_Expand(t *testing.T) {
	tpl, err := ParseTemplate("https://github.com/org/a/edit/main/docs/{path}")
	require.NoError(t, err)

	url, err := tpl.Expand("guide/setup.md")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/org/a/edit/main/docs/guide/setup.md", url)
}

func TestTemplate_MissingPlaceholder(t *testing.T) {
	_, err := ParseTemplate("https://github.com/org/a/edit/main/docs/")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	_, err = Template("no placeholder").Expand("x.md")
	require.Error(t, err)
}

package packager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"a", "My_Docs-2", "c++"} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"", "has space", "dotted.name", "slash/name"} {
		assert.Error(t, ValidateName(bad), bad)
	}
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "my_docs_2", ModuleName("My-Docs-2"))
	assert.Equal(t, "c__", ModuleName("c++"))
	assert.Equal(t, "plain", ModuleName("plain"))
}

func TestDistributionName(t *testing.T) {
	assert.Equal(t, "my-docs-v2", DistributionName("my docs.v2"))
	assert.Equal(t, "Keep+This_one", DistributionName("Keep+This_one"))
	assert.NoError(t, ValidateName(DistributionName("any thing/at all")))
}

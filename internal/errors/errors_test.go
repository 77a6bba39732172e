package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderPreservesChain(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("year not found")
	wrapped := New(fmt.Errorf("resolving row: %w", sentinel)).
		Category(CategoryImport).
		Component("importer").
		Context("year", 1899).
		Build()

	require.Error(t, wrapped)
	assert.True(t, Is(wrapped, sentinel))

	var ee *EnhancedError
	require.True(t, As(wrapped, &ee))
	assert.Equal(t, string(CategoryImport), ee.GetCategory())
	assert.Equal(t, "importer", ee.GetComponent())
	assert.Equal(t, 1899, ee.GetContext()["year"])
}

func TestBuildNilError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, New(nil).Category(CategoryDatabase).Build())
}

func TestHasCategory(t *testing.T) {
	t.Parallel()

	err := Newf("open failed").Category(CategoryFileParsing).Build()
	assert.True(t, HasCategory(err, CategoryFileParsing))
	assert.False(t, HasCategory(err, CategoryDatabase))
	assert.False(t, HasCategory(NewStd("plain"), CategoryFileParsing))
}

func TestContextIsCopied(t *testing.T) {
	t.Parallel()

	err := Newf("boom").Context("rows", 3).Build()
	var ee *EnhancedError
	require.True(t, As(err, &ee))

	ctx := ee.GetContext()
	ctx["rows"] = 99
	assert.Equal(t, 3, ee.GetContext()["rows"])
}

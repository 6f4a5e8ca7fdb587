package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlug(t *testing.T) {
	for _, slug := range []string{"shirts", "sport-wear", "item_2", "a1-b2_c3"} {
		got, err := ParseSlug(slug)
		require.NoError(t, err, slug)
		assert.Equal(t, slug, got)
	}

	for _, slug := range []string{"", "Shirts", "sport wear", "café", "a/b", "UPPER"} {
		_, err := ParseSlug(slug)

		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr, slug)
		assert.Equal(t, "slug", fieldErr.Field)
	}
}

func TestParseTitle(t *testing.T) {
	got, err := ParseTitle("Oxford Shirt")
	require.NoError(t, err)
	assert.Equal(t, "Oxford Shirt", got)

	_, err = ParseTitle("")
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)

	_, err = ParseTitle(strings.Repeat("x", 101))
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "title", fieldErr.Field)

	// Exactly at the limit is fine.
	_, err = ParseTitle(strings.Repeat("x", 100))
	require.NoError(t, err)

	// The limit counts characters, not bytes.
	_, err = ParseTitle(strings.Repeat("é", 100))
	require.NoError(t, err)

	_, err = ParseTitle(strings.Repeat("é", 101))
	require.ErrorAs(t, err, &fieldErr)
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("c1", "Shirts", "shirts", "desc", "/img.jpg")
	require.NoError(t, err)
	assert.True(t, c.IsActive)

	_, err = NewCategory("c1", "Shirts", "Bad Slug", "", "")
	require.Error(t, err)
}

func TestListParamsNormalize(t *testing.T) {
	p := ListParams{Page: 0, PerPage: 0}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)

	p = ListParams{Page: -3, PerPage: 25}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.PerPage)
}

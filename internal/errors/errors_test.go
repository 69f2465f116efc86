package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	base := stderrors.New("connection refused")

	err := New(base).
		Component("datastore").
		Category(CategoryDatabase).
		Context("operation", "count_accesses").
		Build()

	require.Error(t, err)
	assert.Equal(t, "connection refused", err.Error())

	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, "datastore", ee.Component)
	assert.Equal(t, CategoryDatabase, ee.Category)
	assert.Equal(t, "count_accesses", ee.GetContext()["operation"])
	assert.False(t, ee.Timestamp.IsZero())
}

func TestUnwrapPreservesChain(t *testing.T) {
	base := stderrors.New("row not found")
	err := New(base).Category(CategoryNotFound).Build()

	assert.True(t, Is(err, base))
}

func TestIsMatchesOnCategory(t *testing.T) {
	a := New(stderrors.New("missing store")).Category(CategoryNotFound).Build()
	b := New(stderrors.New("missing device")).Category(CategoryNotFound).Build()
	c := New(stderrors.New("bad input")).Category(CategoryValidation).Build()

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestCategoryHelper(t *testing.T) {
	err := Newf("invalid status %q", "SLEEPING").Category(CategoryValidation).Build()
	assert.Equal(t, CategoryValidation, Category(err))

	assert.Equal(t, CategoryGeneric, Category(stderrors.New("plain")))
}

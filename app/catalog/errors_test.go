package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/app/catalog"
)

func TestNotFoundWraps(t *testing.T) {
	err := catalog.NotFound("product", 7)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Equal(t, "product 7: not found", err.Error())
}

func TestUnexpectedKeepsTaxonomy(t *testing.T) {
	assert.Nil(t, catalog.Unexpected("op", nil))

	nf := catalog.NotFound("product", 1)
	assert.Same(t, nf, catalog.Unexpected("op", nf))

	ve := &catalog.ValidationError{Fields: map[string]string{"name": "x"}}
	assert.Same(t, ve, catalog.Unexpected("op", ve))

	boom := errors.New("disk on fire")
	err := catalog.Unexpected("store.create", boom)

	var ue *catalog.UnexpectedError
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, "store.create", ue.Op)
	assert.ErrorIs(t, err, boom)
	assert.Same(t, err, catalog.Unexpected("outer", err), "already wrapped errors are not double wrapped")
}

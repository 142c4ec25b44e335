package id_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kgview/internal/platform/id"
)

func TestUUIDIsUniqueAndValid(t *testing.T) {
	t.Parallel()
	gen := id.UUID{}
	a, b := gen.New(), gen.New()
	assert.NotEqual(t, a, b)
	assert.True(t, id.Valid(a))
	assert.False(t, id.Valid("not-an-id"))
}

package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	err := NotFound("missing")
	e := From(err)
	require.NotNil(t, e)
	assert.Equal(t, 404, e.Status)
	assert.Equal(t, "missing", e.Message)

	// обёртка не теряет тип
	wrapped := fmt.Errorf("outer: %w", Conflict("dup"))
	e = From(wrapped)
	require.NotNil(t, e)
	assert.Equal(t, 409, e.Status)

	assert.Nil(t, From(errors.New("plain")))
	assert.Nil(t, From(nil))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x")))
	assert.False(t, IsNotFound(Conflict("x")))
	assert.True(t, IsConflict(Conflict("x")))
	assert.False(t, IsConflict(errors.New("x")))
}

func TestMapUnique(t *testing.T) {
	uniq := &pq.Error{Code: "23505"}
	err := MapUnique(uniq, "already exists")
	assert.True(t, IsConflict(err))
	assert.Equal(t, "already exists", err.Error())

	// другие коды проходят насквозь
	other := &pq.Error{Code: "23503"}
	assert.Equal(t, error(other), MapUnique(other, "nope"))

	plain := errors.New("boom")
	assert.Equal(t, plain, MapUnique(plain, "nope"))
	assert.Nil(t, MapUnique(nil, "nope"))
}

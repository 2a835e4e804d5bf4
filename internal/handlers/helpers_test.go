package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableString(t *testing.T) {
	// поле отсутствует
	v, clear, err := nullableString(nil)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.False(t, clear)

	// явный null — сброс
	v, clear, err = nullableString(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.True(t, clear)

	v, clear, err = nullableString(json.RawMessage(`"hello"`))
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "hello", *v)
	assert.False(t, clear)

	_, _, err = nullableString(json.RawMessage(`42`))
	require.Error(t, err)
}

func TestNullableInt64(t *testing.T) {
	v, clear, err := nullableInt64(json.RawMessage(`42`))
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(42), *v)
	assert.False(t, clear)

	v, clear, err = nullableInt64(json.RawMessage(` null `))
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.True(t, clear)

	_, _, err = nullableInt64(json.RawMessage(`"42"`))
	require.Error(t, err)
}

func TestNullableTime(t *testing.T) {
	v, clear, err := nullableTime(json.RawMessage(`"2026-03-01T10:00:00Z"`))
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), v.UTC())
	assert.False(t, clear)

	v, clear, err = nullableTime(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.True(t, clear)

	_, _, err = nullableTime(json.RawMessage(`"tomorrow"`))
	require.Error(t, err)
}

package mock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceScript(t *testing.T) {

	src := NewSource(1, 2, 3)

	vals, err := src.GetValues(5)
	require.Nil(t, err)

	// The last scripted value repeats once the script is exhausted
	assert.Equal(t, []int32{1, 2, 3, 3, 3}, vals)
}

func TestSourceEmpty(t *testing.T) {

	src := NewSource()

	vals, err := src.GetValues(2)
	require.Nil(t, err)
	assert.Equal(t, []int32{0, 0}, vals)
}

func TestSourceError(t *testing.T) {

	readErr := errors.New("unavailable")
	src := NewSource(1)
	src.SetError(readErr)

	_, err := src.GetValues(1)
	assert.ErrorIs(t, err, readErr)
}

func TestSourceDelay(t *testing.T) {

	src := NewSource(42)
	src.SetDelay(10 * time.Millisecond)

	start := time.Now()
	vals, err := src.GetValues(3)
	require.Nil(t, err)

	assert.Equal(t, []int32{42, 42, 42}, vals)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

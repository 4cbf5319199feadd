package postgres

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutOfRange(t *testing.T) {
	assert.True(t, outOfRange(0))
	assert.True(t, outOfRange(-1))
	assert.True(t, outOfRange(math.MaxInt32+1))
	assert.True(t, outOfRange(99999999999))
	assert.False(t, outOfRange(1))
	assert.False(t, outOfRange(math.MaxInt32))
}

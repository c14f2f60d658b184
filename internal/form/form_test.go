package form

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	for _, ok := range []string{"a@b.co", " ana.k@example.com "} {
		assert.NoError(t, Email("email", ok), ok)
	}
	for _, bad := range []string{"", "ana", "ana@", "ana@example", "a b@c.d"} {
		assert.Error(t, Email("email", bad), bad)
	}
}

func TestFirstAndIsError(t *testing.T) {
	err := First(nil, Required("name", "  "), MaxLen("message", "toolong", 3))
	assert.True(t, IsError(err))
	assert.Equal(t, "name is required", err.Error())

	assert.True(t, IsError(fmt.Errorf("create: %w", err)))
	assert.False(t, IsError(fmt.Errorf("plain")))
	assert.NoError(t, First(nil, nil))
}

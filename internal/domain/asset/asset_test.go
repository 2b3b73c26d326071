package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	for _, ok := range []string{"banner.png", " logo.svg ", "eye-kun_01.webp"} {
		_, err := CleanName(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", ".", "..", "../secret", "a/b.png", `a\b.png`, ".env"} {
		_, err := CleanName(bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
}

package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/recordkit/pkg/sanitizer"
)

func TestTransforms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{sanitizer.NameTrim, "  ISS001\t", "ISS001"},
		{sanitizer.NameLower, "Radio", "radio"},
		{sanitizer.NameUpper, "ac2024", "AC2024"},
		{sanitizer.NameCollapseWhitespace, "  Mars   Base \n One ", "Mars Base One"},
		{sanitizer.NameStripControl, "a\x00b\nc", "ab\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := sanitizer.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fn(tt.in))
		})
	}

	assert.Len(t, sanitizer.Names(), len(tests))
	assert.IsIncreasing(t, sanitizer.Names())
}

func TestChain(t *testing.T) {
	t.Parallel()

	clean, err := sanitizer.Chain(sanitizer.NameCollapseWhitespace, sanitizer.NameLower)
	require.NoError(t, err)
	assert.Equal(t, "mars base", clean("  MARS   BASE "))

	identity, err := sanitizer.Chain()
	require.NoError(t, err)
	assert.Equal(t, " as is ", identity(" as is "))

	_, err = sanitizer.Chain(sanitizer.NameTrim, "shout")
	assert.ErrorIs(t, err, sanitizer.ErrUnknownTransform)

	stripped := sanitizer.Compose(sanitizer.StripControl, sanitizer.CollapseWhitespace)
	assert.Equal(t, "a b", stripped("a\x07 \t b"))
}

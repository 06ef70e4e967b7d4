package pagemap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/pagemap"
)

func TestEncodeDecode(t *testing.T) {
	blob, err := pagemap.Encode(map[int]string{2: "second", 1: "first"})
	require.NoError(t, err)
	assert.Equal(t, `{"1":"first","2":"second"}`, blob)

	pages, err := pagemap.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "first", 2: "second"}, pages)
}

func TestDecode_Empty(t *testing.T) {
	pages, err := pagemap.Decode("")
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestDecode_Corrupt(t *testing.T) {
	for _, blob := range []string{"{not json", `["a"]`, `{"one":"x"}`, `{"0":"x"}`} {
		_, err := pagemap.Decode(blob)
		assert.True(t, errors.Is(err, pagemap.ErrCorrupt), blob)
	}
}

func TestPageNumbers(t *testing.T) {
	assert.Equal(t, []int{1, 3, 10}, pagemap.PageNumbers(map[int]string{10: "", 1: "", 3: ""}))
}

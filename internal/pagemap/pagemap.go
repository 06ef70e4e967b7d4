// Package pagemap encodes per-page text as a single JSON object keyed by
// decimal page number, e.g. {"1": "...", "2": "..."}. It exists for stores
// that keep one blob per document and for importing data in that shape.
package pagemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrCorrupt is returned when a blob cannot be decoded.
var ErrCorrupt = errors.New("pagemap: corrupt page map")

// Encode serialises pages. Keys are written in ascending page order.
func Encode(pages map[int]string) (string, error) {
	if pages == nil {
		pages = map[int]string{}
	}
	keyed := make(map[string]string, len(pages))
	for n, text := range pages {
		keyed[strconv.Itoa(n)] = text
	}
	b, err := json.Marshal(keyed)
	if err != nil {
		return "", fmt.Errorf("pagemap.Encode: %w", err)
	}
	return string(b), nil
}

// Decode parses a blob produced by Encode. An empty blob decodes to an empty
// map. Non-numeric or non-positive keys make the blob corrupt.
func Decode(blob string) (map[int]string, error) {
	if blob == "" {
		return map[int]string{}, nil
	}
	var keyed map[string]string
	if err := json.Unmarshal([]byte(blob), &keyed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	pages := make(map[int]string, len(keyed))
	for k, text := range keyed {
		n, err := strconv.Atoi(k)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: invalid page key %q", ErrCorrupt, k)
		}
		pages[n] = text
	}
	return pages, nil
}

// PageNumbers returns the keys of pages in ascending order.
func PageNumbers(pages map[int]string) []int {
	nums := make([]int, 0, len(pages))
	for n := range pages {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

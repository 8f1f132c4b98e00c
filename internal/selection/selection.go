// Package selection resolves free-form device selection expressions such as
// "all", "1,3,5", "1-4" or "1-3, 5, 7-8" into a normalized index set.
package selection

import (
	"sort"
	"strconv"
	"strings"
)

// Parse resolves input against the valid index range [1, maxIndex] and
// returns the chosen indices, deduplicated and sorted ascending.
//
// The grammar is permissive: parsing never fails, it degrades to fewer
// selected indices. "all" (whole input or any comma token) expands to the
// full range. Semicolons act as commas, "A - B" collapses to "A-B", range
// bounds are swapped when given in reverse order, and malformed or
// out-of-range tokens are dropped silently.
func Parse(input string, maxIndex int) []int {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" || maxIndex <= 0 {
		return nil
	}

	if s == "all" {
		return fullRange(maxIndex)
	}

	norm := strings.ReplaceAll(s, ";", ",")
	norm = strings.ReplaceAll(norm, " - ", "-")

	chosen := make(map[int]struct{})

	for _, token := range strings.Split(norm, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if token == "all" {
			return fullRange(maxIndex)
		}

		if strings.Contains(token, "-") {
			lo, hi, ok := parseRange(token)
			if !ok {
				continue
			}

			for i := lo; i <= hi; i++ {
				if i >= 1 && i <= maxIndex {
					chosen[i] = struct{}{}
				}
			}

			continue
		}

		if i, ok := parseIndex(token); ok && i >= 1 && i <= maxIndex {
			chosen[i] = struct{}{}
		}
	}

	if len(chosen) == 0 {
		return nil
	}

	out := make([]int, 0, len(chosen))
	for i := range chosen {
		out = append(out, i)
	}

	sort.Ints(out)

	return out
}

// fullRange returns [1, maxIndex].
func fullRange(maxIndex int) []int {
	out := make([]int, maxIndex)
	for i := range out {
		out[i] = i + 1
	}

	return out
}

// parseRange parses a token like "1-4" into its inclusive bounds, swapping
// them when given high-to-low. Tokens that are not exactly two non-negative
// integers around a dash are rejected.
func parseRange(token string) (lo, hi int, ok bool) {
	parts := make([]string, 0, 2)

	for _, p := range strings.Split(token, "-") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) != 2 {
		return 0, 0, false
	}

	lo, okLo := parseIndex(parts[0])
	hi, okHi := parseIndex(parts[1])

	if !okLo || !okHi {
		return 0, 0, false
	}

	if lo > hi {
		lo, hi = hi, lo
	}

	return lo, hi, true
}

// parseIndex parses a token consisting solely of ASCII digits.
func parseIndex(token string) (int, bool) {
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	i, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}

	return i, true
}

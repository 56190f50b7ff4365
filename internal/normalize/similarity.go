package normalize

import "strings"

// Similarity computes a case-insensitive textual similarity ratio in [0,1]
// using the longest-matching-block method: find the longest common substring,
// recurse on the pieces to its left and right, and return
// 2*matched/(len(a)+len(b)). Symmetric, and 1.0 only for equal strings
// (ignoring case). Empty input always scores 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	ua := strings.ToUpper(a)
	ub := strings.ToUpper(b)
	if ua == ub {
		return 1
	}

	matched := matchingBlocks(ua, ub)
	return 2 * float64(matched) / float64(len(ua)+len(ub))
}

// matchingBlocks returns the total length of matching blocks between a and b
func matchingBlocks(a, b string) int {
	ai, bi, size := longestBlock(a, b)
	if size == 0 {
		return 0
	}

	total := size
	total += matchingBlocks(a[:ai], b[:bi])
	total += matchingBlocks(a[ai+size:], b[bi+size:])
	return total
}

// longestBlock finds the longest common substring of a and b, preferring the
// earliest start in a, then in b, so results are deterministic.
func longestBlock(a, b string) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] = length of the common suffix ending at a[i], b[j]
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] == b[j] {
				cur[j+1] = prev[j] + 1
				if cur[j+1] > size {
					size = cur[j+1]
					ai = i - size + 1
					bi = j - size + 1
				}
			} else {
				cur[j+1] = 0
			}
		}
		prev, cur = cur, prev
	}

	return ai, bi, size
}

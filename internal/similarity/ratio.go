// Package similarity provides the sequence-alignment name similarity used by
// candidate selection and feature extraction.
package similarity

import (
	"strings"
)

// Normalize converts a raw field value into a comparable form by trimming
// surrounding whitespace and lowercasing. All string comparisons in the
// matcher go through this so that casing and padding differences never
// affect the outcome.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Ratio computes a normalized similarity between two strings based on their
// longest common subsequence: 2*LCS(a,b) / (len(a)+len(b)), over normalized
// (trimmed, lowercased) inputs. The result is in [0,1], where 1.0 means the
// normalized strings are identical and 0.0 means they share no subsequence
// structure. The measure is symmetric: Ratio(a, b) == Ratio(b, a).
// This implementation properly handles Unicode characters by working with runes.
func Ratio(a, b string) float64 {
	runesA := []rune(Normalize(a))
	runesB := []rune(Normalize(b))

	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 && lenB == 0 {
		return 1.0
	}
	if lenA == 0 || lenB == 0 {
		return 0.0
	}

	common := lcsLength(runesA, runesB)
	return 2.0 * float64(common) / float64(lenA+lenB)
}

// lcsLength computes the length of the longest common subsequence of two
// rune slices using the classic dynamic-programming recurrence. Only two
// rows of the matrix are kept at a time.
func lcsLength(runesA, runesB []rune) int {
	lenB := len(runesB)

	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)

	for i := 1; i <= len(runesA); i++ {
		for j := 1; j <= lenB; j++ {
			if runesA[i-1] == runesB[j-1] {
				currRow[j] = prevRow[j-1] + 1
			} else if prevRow[j] >= currRow[j-1] {
				currRow[j] = prevRow[j]
			} else {
				currRow[j] = currRow[j-1]
			}
		}

		// Rotate rows: prevRow <- currRow
		prevRow, currRow = currRow, prevRow
		for j := range currRow {
			currRow[j] = 0
		}
	}

	return prevRow[lenB]
}

// RatioUpperBound returns a cheap upper bound on Ratio(a, b) computed from
// the normalized lengths alone: the LCS can never exceed the shorter string.
// The exhaustive candidate scan uses it to skip full alignments that cannot
// beat the best similarity found so far.
func RatioUpperBound(a, b string) float64 {
	lenA := len([]rune(Normalize(a)))
	lenB := len([]rune(Normalize(b)))

	if lenA == 0 && lenB == 0 {
		return 1.0
	}
	if lenA == 0 || lenB == 0 {
		return 0.0
	}

	shorter := lenA
	if lenB < shorter {
		shorter = lenB
	}
	return 2.0 * float64(shorter) / float64(lenA+lenB)
}

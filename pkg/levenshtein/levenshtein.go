// Package levenshtein computes byte-exact edit distances between words.
//
// Distances count single-byte insertions, deletions and substitutions, each
// at cost 1. No case folding or locale handling is applied: callers that want
// case-insensitive scores fold both inputs first.
package levenshtein

// Absent is returned by DistanceBytes when either input is nil.
const Absent = -1

// Distance returns the Levenshtein distance between s1 and s2.
func Distance(s1, s2 string) int {
	return distance(s1, s2)
}

// DistanceBytes is Distance over byte slices. A nil slice means the input is
// absent and yields Absent; an empty non-nil slice is a word of length zero.
func DistanceBytes(a, b []byte) int {
	if a == nil || b == nil {
		return Absent
	}
	return distance(string(a), string(b))
}

// distance keeps a single column of len(s1)+1 cells and sweeps it once per
// byte of s2, carrying the previous diagonal in lastDiag.
func distance(s1, s2 string) int {
	column := make([]int, len(s1)+1)
	for y := range column {
		column[y] = y
	}
	for x := 1; x <= len(s2); x++ {
		column[0] = x
		lastDiag := x - 1
		for y := 1; y <= len(s1); y++ {
			oldDiag := column[y]
			cost := 1
			if s1[y-1] == s2[x-1] {
				cost = 0
			}
			column[y] = min(column[y]+1, column[y-1]+1, lastDiag+cost)
			lastDiag = oldDiag
		}
	}
	return column[len(s1)]
}

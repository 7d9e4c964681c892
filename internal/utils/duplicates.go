package utils

// SeenFilter drops words already seen, comparing them ASCII case-folded.
// It is not safe for concurrent use.
type SeenFilter struct {
	seenWords map[string]struct{}
}

// NewSeenFilter creates a filter that already rejects the exclude words.
func NewSeenFilter(exclude ...string) *SeenFilter {
	f := &SeenFilter{seenWords: make(map[string]struct{}, len(exclude))}
	for _, w := range exclude {
		f.seenWords[FoldASCII(w)] = struct{}{}
	}
	return f
}

// ShouldInclude reports whether word is new, and records it.
func (f *SeenFilter) ShouldInclude(word string) bool {
	key := FoldASCII(word)
	if _, ok := f.seenWords[key]; ok {
		return false
	}
	f.seenWords[key] = struct{}{}
	return true
}

// Len returns how many distinct words were recorded.
func (f *SeenFilter) Len() int {
	return len(f.seenWords)
}

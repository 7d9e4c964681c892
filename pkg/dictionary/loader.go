// Package dictionary feeds word lists into a tree.
//
// Two sources are understood: plain text with one word per line, and
// directories of binary dict_NNNN.bin chunks. Words are cleaned up, optionally
// accent-folded and de-duplicated, then inserted in the requested order. The
// order matters because the tree never rebalances: a sorted list inserted as
// is degenerates into a list, while OrderBalanced inserts medians first.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/tst"
	"github.com/charmbracelet/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxLineSize bounds a single dictionary line; longer lines are skipped.
const maxLineSize = 1 << 20

// Sink receives words; *tst.Tree and *suggest.Completer both satisfy it.
type Sink interface {
	Insert(word string) (tst.NodeID, error)
}

// Order controls the sequence words are inserted in.
type Order string

const (
	OrderInput    Order = "input"
	OrderShuffle  Order = "shuffle"
	OrderBalanced Order = "balanced"
)

// ParseOrder maps a config or flag value to an Order.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "", OrderInput:
		return OrderInput, nil
	case OrderShuffle, OrderBalanced:
		return o, nil
	}
	return OrderInput, fmt.Errorf("unknown insertion order %q (want input, shuffle or balanced)", s)
}

type Options struct {
	Order Order
	// Seed drives OrderShuffle.
	Seed uint64
	// MaxWords stops loading after that many new words; 0 loads everything.
	MaxWords int
	// FoldAccents strips combining marks, so "café" is stored as "cafe".
	FoldAccents bool
}

// Stats describes one load.
type Stats struct {
	Lines      int
	Inserted   int
	Duplicates int
	Skipped    int
	// Truncated is set when MaxWords cut the load short.
	Truncated bool
	Elapsed   time.Duration
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Lines += other.Lines
	s.Inserted += other.Inserted
	s.Duplicates += other.Duplicates
	s.Skipped += other.Skipped
	s.Truncated = s.Truncated || other.Truncated
	s.Elapsed += other.Elapsed
}

// LoadFile opens a word list and loads it with LoadText.
func LoadFile(path string, sink Sink, opts Options) (Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer file.Close()

	stats, err := LoadText(file, sink, opts)
	if err != nil {
		return stats, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return stats, nil
}

// LoadText reads one word per line from r into sink. Surrounding whitespace
// (including a trailing \r) is trimmed; blank lines, lines starting with '#'
// and lines longer than maxLineSize are skipped. Words read before a read
// error are still inserted. Loading stops at the first insert error, leaving
// every word inserted so far in place.
func LoadText(r io.Reader, sink Sink, opts Options) (Stats, error) {
	start := time.Now()
	var stats Stats
	filter := utils.NewSeenFilter()

	reader := bufio.NewReader(r)
	var words []string
	var readErr error
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			stats.Lines++
			word, ok := "", false
			if len(line) > maxLineSize {
				log.Warnf("Skipping line %d: %d bytes exceeds %d", stats.Lines, len(line), maxLineSize)
			} else {
				word, ok = cleanWord(line, opts)
			}
			switch {
			case !ok:
				stats.Skipped++
			case !filter.ShouldInclude(word):
				stats.Duplicates++
			case opts.MaxWords > 0 && len(words) >= opts.MaxWords:
				stats.Truncated = true
			default:
				words = append(words, word)
			}
		}
		if stats.Truncated {
			break
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = fmt.Errorf("failed to read word list: %w", err)
			}
			break
		}
	}

	err := insertWords(orderWords(words, opts), sink, &stats)
	stats.Elapsed = time.Since(start)
	log.Debugf("Loaded %d words from %d lines (%d duplicates, %d skipped) in %s",
		stats.Inserted, stats.Lines, stats.Duplicates, stats.Skipped, stats.Elapsed)
	if err != nil {
		return stats, err
	}
	return stats, readErr
}

// cleanWord turns a raw line into a dictionary word.
func cleanWord(line string, opts Options) (string, bool) {
	word := strings.TrimSpace(line)
	if word == "" || utils.IsCommentLine(word) {
		return "", false
	}
	if opts.FoldAccents && !utils.IsASCII(word) {
		word = FoldAccents(word)
	}
	return word, word != ""
}

func insertWords(words []string, sink Sink, stats *Stats) error {
	for _, w := range words {
		if _, err := sink.Insert(w); err != nil {
			if errors.Is(err, tst.ErrPoolExhausted) {
				log.Warnf("Node pool exhausted after %d words", stats.Inserted)
			}
			return err
		}
		stats.Inserted++
	}
	return nil
}

// FoldAccents decomposes s and drops the combining marks.
func FoldAccents(s string) string {
	transformer := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(transformer, s)
	if err != nil {
		log.Debugf("Could not fold accents in %q: %v", s, err)
		return s
	}
	return folded
}

// orderWords returns words in insertion order for opts.Order. The input
// slice may be reordered.
func orderWords(words []string, opts Options) []string {
	switch opts.Order {
	case OrderShuffle:
		rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
		rng.Shuffle(len(words), func(i, j int) {
			words[i], words[j] = words[j], words[i]
		})
		return words
	case OrderBalanced:
		sort.Slice(words, func(i, j int) bool {
			return utils.FoldASCII(words[i]) < utils.FoldASCII(words[j])
		})
		return medianFirst(words)
	default:
		return words
	}
}

// medianFirst lists a sorted slice so that every range's median comes
// before the rest of that range.
func medianFirst(sorted []string) []string {
	out := make([]string, 0, len(sorted))
	type span struct{ lo, hi int }
	queue := []span{{0, len(sorted)}}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if s.lo >= s.hi {
			continue
		}
		mid := int(uint(s.lo+s.hi) >> 1)
		out = append(out, sorted[mid])
		queue = append(queue, span{s.lo, mid}, span{mid + 1, s.hi})
	}
	return out
}

// Open loads the dictionary at path into sink. FormatUnknown detects the
// format first. For chunk directories the returned loader can grow the
// dictionary later; it is nil for word lists.
func Open(path string, format FileFormat, sink Sink, opts Options) (Stats, *ChunkLoader, error) {
	if format == FormatUnknown {
		detected, err := DetectFileFormat(path)
		if err != nil {
			return Stats{}, nil, err
		}
		format = detected
	} else if err := ValidateFileFormat(path, format); err != nil {
		return Stats{}, nil, err
	}

	log.Debugf("Loading %s dictionary from %s", format, path)
	switch format {
	case FormatChunks:
		loader := NewChunkLoader(path, sink, opts)
		stats, err := loader.Load()
		return stats, loader, err
	default:
		stats, err := LoadFile(path, sink, opts)
		return stats, nil, err
	}
}

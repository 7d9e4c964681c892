package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/charmbracelet/log"
)

// ChunkLoader loads a directory of dict_NNNN.bin chunks into a sink, lowest
// chunk ID first. Each chunk holds a little-endian int32 entry count followed
// by entries of uint16 length, the word bytes and a uint16 frequency rank.
//
// Words can only be added: a tree has no delete, so a ChunkLoader grows the
// dictionary with LoadMore but never shrinks it.
type ChunkLoader struct {
	dirPath      string
	sink         Sink
	opts         Options
	filter       *utils.SeenFilter
	loadedChunks map[int]bool
	// pending holds words of the last chunk that did not fit the word budget.
	pending []string
	stats   Stats
	mu      sync.Mutex
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// ChunkEntry is one word of a chunk.
type ChunkEntry struct {
	Word string
	Rank uint16
}

// NewChunkLoader creates a loader for the chunks in dirPath.
func NewChunkLoader(dirPath string, sink Sink, opts Options) *ChunkLoader {
	return &ChunkLoader{
		dirPath:      dirPath,
		sink:         sink,
		opts:         opts,
		filter:       utils.NewSeenFilter(),
		loadedChunks: make(map[int]bool),
	}
}

// GetAvailableChunks scans the directory for chunk files, sorted by ID.
func (cl *ChunkLoader) GetAvailableChunks() ([]ChunkInfo, error) {
	return availableChunks(cl.dirPath)
}

func availableChunks(dirPath string) ([]ChunkInfo, error) {
	if _, err := os.Stat(dirPath); err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range utils.ListChunkFiles(dirPath) {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			log.Debugf("Skipping %s: not a numbered chunk", file)
			continue
		}
		wordCount, err := getChunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{
			ChunkID:   chunkID,
			Filename:  file,
			WordCount: wordCount,
		})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// getChunkWordCount reads the word count from a chunk file's header
func getChunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// Load inserts chunks in ID order until Options.MaxWords new words are in, or
// every chunk is loaded when MaxWords is 0.
func (cl *ChunkLoader) Load() (Stats, error) {
	chunks, err := cl.GetAvailableChunks()
	if err != nil {
		return Stats{}, err
	}
	if len(chunks) == 0 {
		return Stats{}, fmt.Errorf("no chunk files found in %s", cl.dirPath)
	}
	log.Debugf("Found %d chunk files", len(chunks))

	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.loadBudget(chunks, cl.opts.MaxWords)
}

// LoadMore inserts up to additionalWords further words from chunks not yet
// loaded. 0 loads everything left.
func (cl *ChunkLoader) LoadMore(additionalWords int) (Stats, error) {
	chunks, err := cl.GetAvailableChunks()
	if err != nil {
		return Stats{}, err
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.loadBudget(chunks, additionalWords)
}

// LoadChunk inserts a whole chunk regardless of any word budget. Words an
// insert error stopped at are queued for LoadMore.
func (cl *ChunkLoader) LoadChunk(chunkID int) (Stats, error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.loadedChunks[chunkID] {
		return Stats{}, nil
	}
	filename := filepath.Join(cl.dirPath, fmt.Sprintf("dict_%04d.bin", chunkID))
	stats, words, err := cl.readChunkWords(filename)
	if err != nil {
		return stats, err
	}
	cl.loadedChunks[chunkID] = true
	start := time.Now()
	before := stats.Inserted
	if err = insertWords(words, cl.sink, &stats); err != nil {
		cl.pending = append(cl.pending, words[stats.Inserted-before:]...)
	}
	stats.Elapsed += time.Since(start)
	cl.stats.Add(stats)
	return stats, err
}

// loadBudget consumes pending words, then unloaded chunks, until budget new
// words were inserted. A budget of 0 is unlimited. Callers hold cl.mu.
func (cl *ChunkLoader) loadBudget(chunks []ChunkInfo, budget int) (stats Stats, err error) {
	start := time.Now()
	defer func() {
		stats.Elapsed = time.Since(start)
		cl.stats.Add(stats)
	}()

	// take inserts words within the budget and returns what is left over,
	// including any word an insert error stopped at.
	take := func(words []string) ([]string, error) {
		var rest []string
		if budget > 0 {
			room := budget - stats.Inserted
			if room <= 0 {
				stats.Truncated = true
				return words, nil
			}
			if len(words) > room {
				words, rest = words[:room], words[room:]
			}
		}
		before := stats.Inserted
		if err := insertWords(words, cl.sink, &stats); err != nil {
			left := append(slices.Clone(words[stats.Inserted-before:]), rest...)
			return left, err
		}
		if len(rest) > 0 {
			stats.Truncated = true
		}
		return rest, nil
	}

	if cl.pending, err = take(cl.pending); err != nil || len(cl.pending) > 0 {
		return stats, err
	}

	for _, chunk := range chunks {
		if cl.loadedChunks[chunk.ChunkID] {
			continue
		}
		if budget > 0 && stats.Inserted >= budget {
			stats.Truncated = true
			break
		}

		chunkStats, words, err := cl.readChunkWords(chunk.Filename)
		stats.Add(chunkStats)
		if err != nil {
			return stats, err
		}
		cl.loadedChunks[chunk.ChunkID] = true
		log.Debugf("Loading chunk %d with %d words", chunk.ChunkID, len(words))

		if cl.pending, err = take(words); err != nil || len(cl.pending) > 0 {
			return stats, err
		}
	}
	return stats, nil
}

// readChunkWords reads a chunk and runs its words through cleaning,
// de-duplication and ordering.
func (cl *ChunkLoader) readChunkWords(filename string) (Stats, []string, error) {
	var stats Stats
	entries, err := ReadChunk(filename)
	if err != nil {
		return stats, nil, err
	}

	words := make([]string, 0, len(entries))
	for _, e := range entries {
		stats.Lines++
		word, ok := cleanWord(e.Word, cl.opts)
		if !ok {
			stats.Skipped++
			continue
		}
		if !cl.filter.ShouldInclude(word) {
			stats.Duplicates++
			continue
		}
		words = append(words, word)
	}
	return stats, orderWords(words, cl.opts), nil
}

// ReadChunk decodes every entry of a chunk file, in file order.
func ReadChunk(filename string) ([]ChunkEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()

	entries, err := DecodeChunk(bufio.NewReader(file))
	if err != nil {
		return entries, fmt.Errorf("chunk %s: %w", filename, err)
	}
	return entries, nil
}

// DecodeChunk reads the chunk encoding from r.
func DecodeChunk(r io.Reader) ([]ChunkEntry, error) {
	var totalEntries int32
	if err := binary.Read(r, binary.LittleEndian, &totalEntries); err != nil {
		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 {
		return nil, fmt.Errorf("invalid word count %d", totalEntries)
	}

	entries := make([]ChunkEntry, 0, min(int(totalEntries), 1<<16))
	for len(entries) < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				log.Warnf("Chunk ended after %d of %d words", len(entries), totalEntries)
				break
			}
			return entries, fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(r, wordBytes); err != nil {
			return entries, fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return entries, fmt.Errorf("failed to read rank: %w", err)
		}
		entries = append(entries, ChunkEntry{Word: string(wordBytes), Rank: rank})
	}
	return entries, nil
}

// EncodeChunk writes entries in the chunk encoding.
func EncodeChunk(w io.Writer, entries []ChunkEntry) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if len(e.Word) > 0xFFFF {
			return fmt.Errorf("word of %d bytes does not fit a chunk entry", len(e.Word))
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(e.Word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.Word); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, e.Rank); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// GetLoadedChunkIDs returns the IDs of chunks read so far, sorted.
func (cl *ChunkLoader) GetLoadedChunkIDs() []int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	loadedIDs := make([]int, 0, len(cl.loadedChunks))
	for chunkID := range cl.loadedChunks {
		loadedIDs = append(loadedIDs, chunkID)
	}
	sort.Ints(loadedIDs)
	return loadedIDs
}

// Pending returns how many words of a partly loaded chunk are still queued.
func (cl *ChunkLoader) Pending() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.pending)
}

// Stats returns the totals over every load so far.
func (cl *ChunkLoader) Stats() Stats {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.stats
}

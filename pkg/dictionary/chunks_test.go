package dictionary

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordtree/pkg/tst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChunk(t *testing.T, dir string, id int, words ...string) string {
	t.Helper()
	entries := make([]ChunkEntry, len(words))
	for i, w := range words {
		entries[i] = ChunkEntry{Word: w, Rank: uint16(i + 1)}
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeChunk(&buf, entries))

	path := filepath.Join(dir, fmt.Sprintf("dict_%04d.bin", id))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func chunkDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeChunk(t, dir, 1, "the", "of", "and")
	writeChunk(t, dir, 2, "piano", "pizza", "the")
	writeChunk(t, dir, 3, "zebra", "zero")
	return dir
}

func TestChunkRoundTrip(t *testing.T) {
	entries := []ChunkEntry{{"alpha", 1}, {"beta", 2}, {"", 3}}
	var buf bytes.Buffer
	require.NoError(t, EncodeChunk(&buf, entries))

	got, err := DecodeChunk(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestDecodeChunkTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeChunk(&buf, []ChunkEntry{{"alpha", 1}, {"beta", 2}}))
	data := buf.Bytes()

	// Cut inside the second word.
	_, err := DecodeChunk(bytes.NewReader(data[:len(data)-3]))
	assert.Error(t, err)

	_, err = DecodeChunk(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestGetAvailableChunks(t *testing.T) {
	dir := chunkDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dict_extra.bin"), []byte{0, 0, 0, 0}, 0644))

	chunks, err := NewChunkLoader(dir, tst.New(), Options{}).GetAvailableChunks()
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{chunks[0].ChunkID, chunks[1].ChunkID, chunks[2].ChunkID})
	assert.Equal(t, 3, chunks[0].WordCount)
	assert.Equal(t, 2, chunks[2].WordCount)
}

func TestChunkLoaderLoadAll(t *testing.T) {
	tree := tst.New()
	loader := NewChunkLoader(chunkDir(t), tree, Options{})

	stats, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Lines)
	assert.Equal(t, 7, stats.Inserted)
	assert.Equal(t, 1, stats.Duplicates)
	assert.False(t, stats.Truncated)

	assert.Equal(t, []int{1, 2, 3}, loader.GetLoadedChunkIDs())
	for _, w := range []string{"the", "of", "and", "piano", "pizza", "zebra", "zero"} {
		assert.True(t, tree.Find(w), w)
	}
}

func TestChunkLoaderBudgetAndLoadMore(t *testing.T) {
	sink := newRecorder()
	loader := NewChunkLoader(chunkDir(t), sink, Options{MaxWords: 4})

	stats, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Inserted)
	assert.True(t, stats.Truncated)
	assert.Equal(t, []string{"the", "of", "and", "piano"}, sink.order)
	assert.Equal(t, []int{1, 2}, loader.GetLoadedChunkIDs())
	assert.Equal(t, 1, loader.Pending(), "pizza is queued")

	more, err := loader.LoadMore(2)
	require.NoError(t, err)
	assert.Equal(t, 2, more.Inserted)
	assert.Equal(t, []string{"the", "of", "and", "piano", "pizza", "zebra"}, sink.order)

	rest, err := loader.LoadMore(0)
	require.NoError(t, err)
	assert.Equal(t, 1, rest.Inserted)
	assert.False(t, rest.Truncated)
	assert.Equal(t, 0, loader.Pending())

	none, err := loader.LoadMore(10)
	require.NoError(t, err)
	assert.Equal(t, 0, none.Inserted)

	assert.Equal(t, 7, loader.Stats().Inserted)
}

// flakySink fails the first insert of one word, then behaves like a recorder.
type flakySink struct {
	*recorder
	failOn string
	failed bool
}

func (f *flakySink) Insert(word string) (tst.NodeID, error) {
	if word == f.failOn && !f.failed {
		f.failed = true
		return tst.Nil, fmt.Errorf("insert %q: %w", word, tst.ErrPoolExhausted)
	}
	return f.recorder.Insert(word)
}

func TestChunkLoaderKeepsWordsAfterInsertError(t *testing.T) {
	testCases := []struct {
		description string
		maxWords    int
		failOn      string
		pending     int
	}{
		{"whole chunk", 0, "and", 1},
		{"chunk split by the budget", 4, "piano", 2},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			sink := &flakySink{recorder: newRecorder(), failOn: tc.failOn}
			loader := NewChunkLoader(chunkDir(t), sink, Options{MaxWords: tc.maxWords})

			_, err := loader.Load()
			require.ErrorIs(t, err, tst.ErrPoolExhausted)
			assert.Equal(t, tc.pending, loader.Pending())

			_, err = loader.LoadMore(0)
			require.NoError(t, err)
			assert.Equal(t, 0, loader.Pending())
			for _, w := range []string{"the", "of", "and", "piano", "pizza", "zebra", "zero"} {
				assert.True(t, sink.tree.Find(w), w)
			}
		})
	}
}

func TestChunkLoaderLoadChunk(t *testing.T) {
	tree := tst.New()
	loader := NewChunkLoader(chunkDir(t), tree, Options{})

	stats, err := loader.LoadChunk(3)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Inserted)
	assert.True(t, tree.Find("zero"))
	assert.False(t, tree.Find("the"))

	again, err := loader.LoadChunk(3)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Inserted)

	_, err = loader.LoadChunk(9)
	assert.Error(t, err)
}

func TestChunkLoaderEmptyDir(t *testing.T) {
	_, err := NewChunkLoader(t.TempDir(), tst.New(), Options{}).Load()
	assert.Error(t, err)
}

func TestOpenChunks(t *testing.T) {
	tree := tst.New()
	stats, loader, err := Open(chunkDir(t), FormatUnknown, tree, Options{MaxWords: 3})
	require.NoError(t, err)
	require.NotNil(t, loader)
	assert.Equal(t, 3, stats.Inserted)
	assert.True(t, tree.Find("and"))
}

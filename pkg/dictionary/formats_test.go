package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()

	words := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(words, []byte("cat\n"), 0644))
	bare := filepath.Join(dir, "words")
	require.NoError(t, os.WriteFile(bare, []byte("cat\n"), 0644))
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	odd := filepath.Join(dir, "words.csv")
	require.NoError(t, os.WriteFile(odd, []byte("cat\n"), 0644))

	chunks := chunkDir(t)

	testCases := []struct {
		path     string
		expected FileFormat
		wantErr  bool
	}{
		{words, FormatText, false},
		{bare, FormatText, false},
		{chunks, FormatChunks, false},
		{filepath.Join(chunks, "dict_0001.bin"), FormatUnknown, true},
		{empty, FormatUnknown, true},
		{odd, FormatUnknown, true},
		{t.TempDir(), FormatUnknown, true},
		{filepath.Join(dir, "missing.txt"), FormatUnknown, true},
	}

	for _, tc := range testCases {
		t.Run(filepath.Base(tc.path), func(t *testing.T) {
			got, err := DetectFileFormat(tc.path)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestValidateFileFormatMismatch(t *testing.T) {
	assert.Error(t, ValidateFileFormat(chunkDir(t), FormatText))

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\n"), 0644))
	assert.Error(t, ValidateFileFormat(path, FormatChunks))
	assert.Error(t, ValidateFileFormat(path, FormatUnknown))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]FileFormat{"": FormatUnknown, "auto": FormatUnknown, "text": FormatText, "CHUNKS": FormatChunks} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("trie")
	assert.Error(t, err)

	assert.Equal(t, "text", FormatText.String())
	assert.Equal(t, "auto", FormatUnknown.String())
}

package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // One word per line
	FormatChunks             // Directory of dict_NNNN.bin chunks
)

// FormatInfo contains metadata about a dictionary format
type FormatInfo struct {
	Format      FileFormat
	Name        string
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Name:        "text",
		Description: "Plain Text Word List",
		Extensions:  []string{".txt", ".dic", ""},
		MinSize:     1,
	},
	FormatChunks: {
		Format:      FormatChunks,
		Name:        "chunks",
		Description: "Chunked Binary Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4, // word count header
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Name
	}
	return "auto"
}

// ParseFormat maps a config or flag value to a format. "auto" and the empty
// string give FormatUnknown, which Open detects.
func ParseFormat(s string) (FileFormat, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "auto" {
		return FormatUnknown, nil
	}
	for format, info := range supportedFormats {
		if info.Name == name {
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown dictionary format %q (want auto, text or chunks)", s)
}

// ValidateFileFormat checks that path holds a dictionary of the expected format
func ValidateFileFormat(path string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	switch expectedFormat {
	case FormatChunks:
		if !fileInfo.IsDir() {
			return fmt.Errorf("%s is not a directory; chunked dictionaries are loaded per directory", path)
		}
		return validateChunkDir(path, formatInfo)
	case FormatText:
		if fileInfo.IsDir() {
			return fmt.Errorf("%s is a directory, not a word list", path)
		}
		if fileInfo.Size() < formatInfo.MinSize {
			return fmt.Errorf("file %s is too small (%d bytes) for format %s",
				path, fileInfo.Size(), formatInfo.Description)
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, valid := range formatInfo.Extensions {
			if ext == valid {
				log.Debugf("Text file %s validated", path)
				return nil
			}
		}
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			path, ext, formatInfo.Description, formatInfo.Extensions)
	}
	return nil
}

// validateChunkDir checks every chunk header in dir.
func validateChunkDir(dir string, info FormatInfo) error {
	chunks, err := availableChunks(dir)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunk files found in %s", dir)
	}

	for _, chunk := range chunks {
		stat, err := os.Stat(chunk.Filename)
		if err != nil {
			return fmt.Errorf("failed to stat chunk %s: %w", chunk.Filename, err)
		}
		if stat.Size() < info.MinSize {
			return fmt.Errorf("chunk %s is too small (%d bytes)", chunk.Filename, stat.Size())
		}
		if chunk.WordCount < 0 {
			return fmt.Errorf("invalid word count in %s: %d (negative)", chunk.Filename, chunk.WordCount)
		}
		if chunk.WordCount > 1000000 {
			return fmt.Errorf("suspicious word count in %s: %d (too large)", chunk.Filename, chunk.WordCount)
		}
	}
	log.Debugf("Chunk directory %s validated: %d chunks", dir, len(chunks))
	return nil
}

// DetectFileFormat works out whether path is a word list or a chunk directory
func DetectFileFormat(path string) (FileFormat, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if stat.IsDir() {
		if err := ValidateFileFormat(path, FormatChunks); err != nil {
			return FormatUnknown, fmt.Errorf("unable to detect format for %s: %w", path, err)
		}
		return FormatChunks, nil
	}

	if len(utils.ListChunkFiles(filepath.Dir(path))) > 0 && strings.HasSuffix(strings.ToLower(path), ".bin") {
		return FormatUnknown, fmt.Errorf("%s is a single chunk; point at its directory instead", path)
	}

	if err := ValidateFileFormat(path, FormatText); err != nil {
		return FormatUnknown, fmt.Errorf("unable to detect format for %s: %w", path, err)
	}
	return FormatText, nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

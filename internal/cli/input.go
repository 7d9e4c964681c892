// Package cli runs the interactive prompt: every line is either a word to
// suggest for or a ':' command.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/dictionary"
	"github.com/bastiangx/wordtree/pkg/suggest"
	"github.com/bastiangx/wordtree/pkg/tst"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Options control prompt behaviour.
type Options struct {
	Prompt   string
	MinLen   int
	MaxLen   int
	Limit    int
	NoFilter bool
}

// treeViewer is implemented by completers that expose their tree.
type treeViewer interface {
	View(fn func(t *tst.Tree) error) error
}

// InputHandler reads prompt lines and prints suggestions for them.
type InputHandler struct {
	completer    suggest.ICompleter
	loader       *dictionary.ChunkLoader
	opts         Options
	requestCount int

	out        io.Writer
	scoreStyle lipgloss.Style
	sepStyle   lipgloss.Style
	errStyle   lipgloss.Style
	dimStyle   lipgloss.Style
}

// NewInputHandler handles initialization of the InputHandler
func NewInputHandler(completer suggest.ICompleter, opts Options) *InputHandler {
	if opts.Prompt == "" {
		opts.Prompt = ">"
	}
	if opts.MinLen < 1 {
		opts.MinLen = 1
	}
	if opts.MaxLen < opts.MinLen {
		opts.MaxLen = 128
	}
	return &InputHandler{completer: completer, opts: opts}
}

// SetChunkLoader enables the :more command.
func (h *InputHandler) SetChunkLoader(loader *dictionary.ChunkLoader) {
	h.loader = loader
}

// Start runs the prompt on stdin and stdout.
func (h *InputHandler) Start() error {
	return h.Run(os.Stdin, os.Stdout)
}

// Run reads lines from in until EOF or :quit, writing to out.
func (h *InputHandler) Run(in io.Reader, out io.Writer) error {
	h.setOutput(out)
	fmt.Fprintln(out, h.dimStyle.Render("type a word and press Enter for suggestions, :help for commands"))

	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s ", h.opts.Prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		line = strings.TrimSpace(line)
		if line != "" {
			if quit := h.handleLine(line); quit {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
	}
}

func (h *InputHandler) setOutput(out io.Writer) {
	r := lipgloss.NewRenderer(out)
	h.out = out
	h.scoreStyle = r.NewStyle().Foreground(lipgloss.Color("75"))
	h.sepStyle = r.NewStyle().Faint(true)
	h.errStyle = r.NewStyle().Foreground(lipgloss.Color("203"))
	h.dimStyle = r.NewStyle().Faint(true)
}

// handleLine dispatches one trimmed line and reports whether to quit.
func (h *InputHandler) handleLine(line string) bool {
	if !strings.HasPrefix(line, ":") {
		h.handleWord(line)
		return false
	}

	cmd, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "q", "quit", "exit":
		return true
	case "find":
		h.handleFind(arg)
	case "add":
		h.handleAdd(arg)
	case "tree":
		h.handleTree(arg)
	case "dump":
		h.withTree(func(t *tst.Tree) error { return tst.Dump(h.out, t) })
	case "stats":
		h.handleStats()
	case "more":
		h.handleMore(arg)
	case "help", "h":
		h.printHelp()
	default:
		h.printError("unknown command :%s (try :help)", cmd)
	}
	return false
}

// handleWord validates a word and prints its suggestions.
func (h *InputHandler) handleWord(word string) {
	h.requestCount++

	if len(word) < h.opts.MinLen {
		h.printError("too short: %q (min %d)", word, h.opts.MinLen)
		return
	}
	if len(word) > h.opts.MaxLen {
		h.printError("too long: %d bytes (max %d)", len(word), h.opts.MaxLen)
		return
	}

	// input filtering by default (unless -no-filter flag is used)
	if !h.opts.NoFilter && !utils.IsValidInput(word) {
		log.Debugf("Filtered out input '%s'", word)
		fmt.Fprintln(h.out, "no suggestion...")
		return
	}

	start := time.Now()
	suggestions := h.completer.Suggest(word, h.opts.Limit)
	log.Debugf("Took [ %v ] for '%s'", time.Since(start), word)

	if len(suggestions) == 0 {
		fmt.Fprintln(h.out, "no suggestion...")
		return
	}
	for _, s := range suggestions {
		fmt.Fprintf(h.out, "%s %s\n", h.scoreStyle.Render(fmt.Sprintf("(%d)", s.Distance)), h.renderSuggestion(s))
	}
}

func (h *InputHandler) renderSuggestion(s suggest.Suggestion) string {
	if s.Exact || s.Suffix == "" {
		return s.Rendered
	}
	sep := strings.TrimSuffix(strings.TrimPrefix(s.Rendered, s.Stem), s.Suffix)
	return s.Stem + h.sepStyle.Render(sep) + s.Suffix
}

func (h *InputHandler) handleFind(word string) {
	if word == "" {
		h.printError("usage: :find <word>")
		return
	}
	if h.completer.Contains(word) {
		fmt.Fprintf(h.out, "found: %s\n", word)
	} else {
		fmt.Fprintf(h.out, "not found: %s\n", word)
	}
}

func (h *InputHandler) handleAdd(word string) {
	if word == "" {
		h.printError("usage: :add <word>")
		return
	}
	if err := h.completer.AddWord(word); err != nil {
		h.printError("add %q: %v", word, err)
		return
	}
	fmt.Fprintf(h.out, "added: %s\n", word)
}

func (h *InputHandler) handleTree(arg string) {
	depth := 0
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			h.printError("usage: :tree [max depth]")
			return
		}
		depth = n
	}
	h.withTree(func(t *tst.Tree) error { return tst.Render(h.out, t, depth) })
}

func (h *InputHandler) withTree(fn func(t *tst.Tree) error) {
	viewer, ok := h.completer.(treeViewer)
	if !ok {
		h.printError("this completer does not expose its tree")
		return
	}
	if err := viewer.View(fn); err != nil {
		h.printError("%v", err)
	}
}

func (h *InputHandler) handleStats() {
	stats := h.completer.Stats()
	stats["prompts"] = h.requestCount

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(h.out, "%-16s %d\n", k, stats[k])
	}
}

func (h *InputHandler) handleMore(arg string) {
	if h.loader == nil {
		h.printError(":more needs a chunked dictionary")
		return
	}
	n := 0
	if arg != "" {
		var err error
		if n, err = strconv.Atoi(arg); err != nil || n < 0 {
			h.printError("usage: :more [words]")
			return
		}
	}
	stats, err := h.loader.LoadMore(n)
	if err != nil {
		h.printError("load more: %v", err)
	}
	fmt.Fprintf(h.out, "loaded %d more words\n", stats.Inserted)
}

func (h *InputHandler) printHelp() {
	help := []string{
		"<word>          suggest words, printed as (distance) stem|suffix",
		":find <word>    exact lookup",
		":add <word>     insert a word",
		":tree [depth]   draw the tree",
		":dump           list every node",
		":stats          word, node and cache counters",
		":more [n]       load n more words from the chunk directory",
		":quit           exit",
	}
	for _, line := range help {
		fmt.Fprintln(h.out, h.dimStyle.Render(line))
	}
}

func (h *InputHandler) printError(format string, args ...any) {
	fmt.Fprintln(h.out, h.errStyle.Render(fmt.Sprintf(format, args...)))
}

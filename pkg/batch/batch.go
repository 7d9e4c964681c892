package batch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const lookupPrefix = "?"

// Processor turns query lines into responses.
type Processor struct {
	completer suggest.ICompleter
	limit     int
	maxLen    int
	requests  int
}

// NewProcessor creates a processor returning up to limit suggestions per
// query and rejecting queries longer than maxLen bytes (0 means no bound).
func NewProcessor(completer suggest.ICompleter, limit, maxLen int) *Processor {
	return &Processor{
		completer: completer,
		limit:     limit,
		maxLen:    maxLen,
	}
}

// Run answers every line of r on w until r is exhausted.
func (p *Processor) Run(r io.Reader, w io.Writer) error {
	log.Debug("Starting batch pipe")

	scanner := bufio.NewScanner(r)
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p.requests++

		response := p.Handle(p.requests, line)
		if err := enc.Encode(&response); err != nil {
			return fmt.Errorf("failed to encode response %d: %w", response.ID, err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("failed to write response %d: %w", response.ID, err)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Errorf("Reading queries: %v", err)
		return err
	}
	log.Debugf("Batch pipe done after %d queries", p.requests)
	return nil
}

// Handle answers a single query line.
func (p *Processor) Handle(id int, line string) Response {
	start := time.Now()
	response := Response{ID: id, Query: line}

	query, lookupOnly := strings.CutPrefix(line, lookupPrefix)
	if query == "" {
		response.Error = "empty query"
		return response
	}
	if p.maxLen > 0 && len(query) > p.maxLen {
		response.Error = fmt.Sprintf("query exceeds maximum length of %d bytes", p.maxLen)
		return response
	}
	response.Query = query

	if lookupOnly {
		response.Found = p.completer.Contains(query)
		response.TimeTaken = time.Since(start).Microseconds()
		return response
	}

	suggestions := p.completer.Suggest(query, p.limit)
	ranks := utils.CreateRankList(len(suggestions))
	response.Suggestions = make([]Suggestion, len(suggestions))
	for i, s := range suggestions {
		response.Suggestions[i] = Suggestion{
			Word:     s.Word,
			Stem:     s.Stem,
			Distance: s.Distance,
			Rank:     ranks[i],
			Exact:    s.Exact,
		}
		if s.Exact && s.Distance == 0 {
			response.Found = true
		}
	}
	response.Count = len(response.Suggestions)
	response.TimeTaken = time.Since(start).Microseconds()
	return response
}

/*
Package batch answers queries over a pipe with msgpack-encoded responses.

Queries are read one per line from stdin (or any io.Reader); each non-empty
line produces exactly one Response on stdout, flushed immediately, so a
parent process can write a line and read back a response in lockstep.

A plain line asks for fuzzy suggestions:

	piano

and is answered with a Response holding the ranked suggestions:

	{"id": 1, "q": "piano", "f": true, "s": [{"w": "piano", "st": "piano", "d": 0, "r": 1}, ...], "c": 3, "t": 41}

A line starting with '?' is an exact lookup only; "f" reports the hit and
"s" stays empty:

	?pianos

There is no network listener: the pipe is the whole interface.
*/
package batch

// Suggestion - one ranked suggestion
type Suggestion struct {
	Word     string `msgpack:"w"`
	Stem     string `msgpack:"st"`
	Distance int    `msgpack:"d"`
	Rank     uint16 `msgpack:"r"`
	Exact    bool   `msgpack:"e,omitempty"`
}

// Response - answer to one query line
type Response struct {
	ID          int          `msgpack:"id"`
	Query       string       `msgpack:"q"`
	Found       bool         `msgpack:"f"`
	Suggestions []Suggestion `msgpack:"s,omitempty"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"` // microseconds
	Error       string       `msgpack:"err,omitempty"`
}

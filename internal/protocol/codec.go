// Package protocol implements the line-delimited, pipe-separated wire
// protocol spoken by the game client.
package protocol

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// Delimiter separates fields within a line. Field values must not
// contain it; newline is the only message framing.
const Delimiter = "|"

// Reader decodes a byte stream into token sequences, one per line.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader creates a Reader over the given stream.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)
	return &Reader{scanner: scanner}
}

// Next returns the tokens of the next decodable line. Empty lines and
// lines that are not valid UTF-8 are skipped rather than surfaced as
// errors; a client sending garbage must not lose its connection.
// Returns io.EOF when the stream ends.
func (r *Reader) Next() ([]string, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" || !utf8.ValidString(line) {
			continue
		}
		return strings.Split(line, Delimiter), nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Writer serializes token sequences onto a stream. Each Send is a single
// atomic write of the joined fields plus a trailing newline.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer over the given stream.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Send writes one line. Write failures are swallowed: a handler must
// never crash mid-mutation because the far end hung up.
func (w *Writer) Send(fields ...string) {
	line := strings.Join(fields, Delimiter) + "\n"
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = w.w.Write([]byte(line))
}

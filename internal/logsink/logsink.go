// Package logsink appends client diagnostic lines to per-identity files.
// Writes are best-effort; a failed append must never disturb the session.
package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nohumanman/desc-comp-toolkit/internal/dependencies/clock"
)

// Sink writes timestamped diagnostic lines, one file per steam id.
type Sink struct {
	dir   string
	clock clock.Clock

	mu sync.Mutex
}

// New creates a Sink writing under dir, creating it if needed.
func New(dir string, clk clock.Clock) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &Sink{dir: dir, clock: clk}, nil
}

// Append writes one line for the given steam id. Fragments are rejoined
// with the wire delimiter so the stored line matches what the client
// sent.
func (s *Sink) Append(steamID string, fragments []string) error {
	if steamID == "" {
		steamID = "anonymous"
	}

	line := fmt.Sprintf("%d - %s\n", s.clock.Now().Unix(), strings.Join(fragments, "|"))
	path := filepath.Join(s.dir, filepath.Base(steamID)+".txt")

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = f.WriteString(line)
	return err
}

// Package presence surfaces the live player count to an external
// notification sink.
package presence

import "context"

// Notifier receives presence updates whenever a player enters or exits
// a map.
type Notifier interface {
	SetPresence(ctx context.Context, status string) error
}

// Noop is a Notifier that discards updates. Used when no sink is
// configured and in tests.
type Noop struct{}

// NewNoop creates a no-op Notifier
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) SetPresence(context.Context, string) error {
	return nil
}

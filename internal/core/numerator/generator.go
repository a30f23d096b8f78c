// Package numerator defines the contract for sequential document numbers
// ("MAT-00007", "REQ-2026-00042"). The storage-backed implementation lives
// under internal/infrastructure/numerator.
package numerator

import (
	"context"
	"time"
)

// Generator issues document numbers for a configured sequence.
type Generator interface {
	// GetNextNumber returns the next number in the sequence identified by
	// cfg, formatted PREFIX[-YEAR]-NNNNN. The period selects the reset
	// bucket when the sequence resets yearly or monthly.
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber moves the sequence counter, used when importing
	// existing data.
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}

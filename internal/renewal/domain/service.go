package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Run executes one renewal pass. A non-nil error means the pass aborted
	// before any subscription was processed or could not start at all.
	Run(ctx context.Context, trigger Trigger) (Run, error)
	Inspect(ctx context.Context) (Inspection, error)
	History(ctx context.Context, limit int) (History, error)
}

// RunLog is the append-only store of run records.
type RunLog interface {
	Append(ctx context.Context, run Run) error
	Recent(ctx context.Context, limit int) (History, error)
}

// Locker guards a renewal run. release must be called once when acquired is true.
type Locker interface {
	TryAcquire(ctx context.Context) (release func(), acquired bool, err error)
}

var (
	ErrRunInProgress        = errors.New("renewal_run_in_progress")
	ErrCandidateScan        = errors.New("renewal_candidate_scan_failed")
	ErrUnknownProduct       = errors.New("unknown_product")
	ErrTotalsMismatch       = errors.New("invoice_totals_mismatch")
	ErrInvalidAsOf          = errors.New("invalid_as_of")
	ErrTimeOverrideDisabled = errors.New("time_override_disabled")
	ErrInvalidLimit         = errors.New("invalid_limit")
)

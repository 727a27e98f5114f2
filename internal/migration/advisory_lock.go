package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const advisoryLockKey int64 = 7_310_552_604

var (
	tryAdvisoryLockSQL = "SELECT pg_try_advisory_lock($1)"
	advisoryUnlockSQL  = "SELECT pg_advisory_unlock($1)"
)

var errAdvisoryLockHeld = errors.New("another migration process holds the advisory lock")

type unlockFunc func(ctx context.Context) error

// acquireAdvisoryLock serializes concurrent migrators on one postgres cluster.
// Session locks belong to a connection, so one connection is pinned from
// acquire to release and returned to the pool only after the unlock.
func acquireAdvisoryLock(ctx context.Context, db *sql.DB) (unlockFunc, error) {
	if db == nil {
		return nil, errors.New("advisory lock requires database handle")
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("pin advisory lock connection: %w", err)
	}

	var locked bool
	if err := conn.QueryRowContext(ctx, tryAdvisoryLockSQL, advisoryLockKey).Scan(&locked); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !locked {
		_ = conn.Close()
		return nil, errAdvisoryLockHeld
	}

	return func(unlockCtx context.Context) error {
		defer conn.Close()

		var released bool
		if err := conn.QueryRowContext(unlockCtx, advisoryUnlockSQL, advisoryLockKey).Scan(&released); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		if !released {
			return errors.New("advisory lock was not held by this session")
		}
		return nil
	}, nil
}

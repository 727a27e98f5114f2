package runlock

import (
	"context"

	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
)

// Chain holds only when every locker is acquired. Lockers are taken in order
// and released in reverse.
type Chain []domain.Locker

func (c Chain) TryAcquire(ctx context.Context) (func(), bool, error) {
	releases := make([]func(), 0, len(c))
	unwind := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, locker := range c {
		release, acquired, err := locker.TryAcquire(ctx)
		if err != nil || !acquired {
			unwind()
			return nil, false, err
		}
		releases = append(releases, release)
	}
	return unwind, true, nil
}

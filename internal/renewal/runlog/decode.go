package runlog

import (
	"encoding/json"

	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	"github.com/samber/lo"
)

// decode accepts a line only when it is a JSON object carrying a timestamp.
func decode(line []byte) (domain.Run, bool) {
	var run domain.Run
	if err := json.Unmarshal(line, &run); err != nil {
		return domain.Run{}, false
	}
	if run.Timestamp.IsZero() {
		return domain.Run{}, false
	}
	return run, true
}

// newestFirst keeps the last limit runs of an oldest-first slice, reversed.
func newestFirst(runs []domain.Run, limit int) []domain.Run {
	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}
	return lo.Reverse(append([]domain.Run{}, runs...))
}

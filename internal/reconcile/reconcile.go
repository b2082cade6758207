package reconcile

import (
	"fmt"

	"github.com/acheong08/mavenlicenses/internal/parser"
	"github.com/acheong08/mavenlicenses/pkg/models"
)

// Build keeps the lock entries whose target name is in targets. Lock order is
// preserved and becomes the final record index order.
func Build(entries []models.LockEntry, targets []string) ([]models.ReconciledDependency, error) {
	inGraph := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		inGraph[t] = struct{}{}
	}

	var deps []models.ReconciledDependency
	for _, entry := range entries {
		name, err := parser.NormalizeCoordinate(entry.Coord)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile lockfile entry: %w", err)
		}
		if _, ok := inGraph[name]; !ok {
			continue
		}
		deps = append(deps, models.ReconciledDependency{
			Index:      len(deps),
			Entry:      entry,
			TargetName: name,
		})
	}

	return deps, nil
}

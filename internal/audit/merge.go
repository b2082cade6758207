package audit

import (
	"slices"
	"strings"

	"github.com/acheong08/mavenlicenses/pkg/models"
)

// Merge overlays curated records onto fresh ones. saved must be sorted by
// artifact name. For every fresh record a saved record with the exact same
// artifact name replaces it verbatim; the result always has fresh's length
// and order.
func Merge(saved, fresh []models.DependencyRecord) []models.DependencyRecord {
	merged := make([]models.DependencyRecord, 0, len(fresh))
	for _, rec := range fresh {
		i, found := slices.BinarySearchFunc(saved, rec.ArtifactName, func(s models.DependencyRecord, name string) int {
			return strings.Compare(s.ArtifactName, name)
		})
		if found {
			merged = append(merged, saved[i])
		} else {
			merged = append(merged, rec)
		}
	}
	return merged
}

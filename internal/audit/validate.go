package audit

import (
	"errors"
	"fmt"

	"github.com/acheong08/mavenlicenses/pkg/models"
)

var ErrIncompleteLicenseMetadata = errors.New("license metadata is incomplete")

// Findings are the validation results over a merged record list
type Findings struct {
	BrokenLicenses  []models.License
	WithoutLicenses  []models.DependencyRecord
}

// OK reports whether no problem was found
func (f Findings) OK() bool {
	return len(f.BrokenLicenses) == 0 && len(f.WithoutLicenses) == 0
}

// IncompleteError carries the findings of a failed validation
type IncompleteError struct {
	Findings Findings
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %d broken licenses, %d dependencies without license links",
		ErrIncompleteLicenseMetadata, len(e.Findings.BrokenLicenses), len(e.Findings.WithoutLicenses))
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncompleteLicenseMetadata
}

// Err returns an *IncompleteError when there is anything to fix
func (f Findings) Err() error {
	if f.OK() {
		return nil
	}
	return &IncompleteError{Findings: f}
}

// IsBroken reports whether a license needs manual curation
func IsBroken(lic models.License) bool {
	switch lic.PrimaryLinkType {
	case models.ScrapeFromLocalCopy, models.ShowLinkOnly:
		return lic.SecondaryLink == "" ||
			lic.SecondaryLinkType == models.SecondaryLinkTypeUnspecified ||
			!lic.SecondaryLinkType.Recognized() ||
			lic.SecondaryLicenseName == ""
	case models.ScrapeDirectly:
		return false
	default:
		// unspecified or unrecognized
		return true
	}
}

// Classify runs both completeness checks. Results are deduplicated and keep
// first-seen order.
func Classify(records []models.DependencyRecord) Findings {
	var f Findings
	seenLicenses := make(map[models.License]struct{})
	seenRecords := make(map[string]struct{})

	for _, rec := range records {
		if len(rec.Licenses) == 0 {
			key := fmt.Sprintf("%d\x00%s", rec.Index, rec.ArtifactName)
			if _, ok := seenRecords[key]; !ok {
				seenRecords[key] = struct{}{}
				f.WithoutLicenses = append(f.WithoutLicenses, rec)
			}
		}

		for _, lic := range rec.Licenses {
			if !IsBroken(lic) {
				continue
			}
			if _, ok := seenLicenses[lic]; ok {
				continue
			}
			seenLicenses[lic] = struct{}{}
			f.BrokenLicenses = append(f.BrokenLicenses, lic)
		}
	}

	return f
}

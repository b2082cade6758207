package models

import "fmt"

// LockEntry is a single pinned artifact from maven_install.json
type LockEntry struct {
	Coord              string   `json:"coord"` // "com.google.guava:guava:31.0-jre"
	URL                string   `json:"url"`   // resolved download URL (.jar/.aar)
	SHA256             string   `json:"sha256"`
	File               string   `json:"file"`
	Dependencies       []string `json:"dependencies"`
	DirectDependencies []string `json:"directDependencies"`
}

// ReconciledDependency is a lock entry confirmed to be part of the compiled closure
type ReconciledDependency struct {
	Index      int       `json:"index"`
	Entry      LockEntry `json:"entry"`
	TargetName string    `json:"target_name"` // "com_google_guava_guava"
}

// PrimaryLinkType tells the license viewer how to present the primary link
type PrimaryLinkType int32

const (
	PrimaryLinkTypeUnspecified PrimaryLinkType = 0
	ScrapeDirectly             PrimaryLinkType = 1
	ScrapeFromLocalCopy        PrimaryLinkType = 2
	ShowLinkOnly               PrimaryLinkType = 3
)

// Recognized reports whether t is one of the known link types
func (t PrimaryLinkType) Recognized() bool {
	return t >= PrimaryLinkTypeUnspecified && t <= ShowLinkOnly
}

func (t PrimaryLinkType) String() string {
	switch t {
	case PrimaryLinkTypeUnspecified:
		return "PRIMARY_LINK_TYPE_UNSPECIFIED"
	case ScrapeDirectly:
		return "SCRAPE_DIRECTLY"
	case ScrapeFromLocalCopy:
		return "SCRAPE_FROM_LOCAL_COPY"
	case ShowLinkOnly:
		return "SHOW_LINK_ONLY"
	}
	return fmt.Sprintf("PrimaryLinkType(%d)", int32(t))
}

// SecondaryLinkType describes the curated fallback link of a license
type SecondaryLinkType int32

const (
	SecondaryLinkTypeUnspecified SecondaryLinkType = 0
	SecondaryScrapeDirectly      SecondaryLinkType = 1
	SecondaryScrapeFromLocalCopy SecondaryLinkType = 2
	SecondaryShowLinkOnly        SecondaryLinkType = 3
)

// Recognized reports whether t is one of the known link types
func (t SecondaryLinkType) Recognized() bool {
	return t >= SecondaryLinkTypeUnspecified && t <= SecondaryShowLinkOnly
}

// OriginOfLicenses records where a dependency's license list came from
type OriginOfLicenses int32

const (
	OriginUnknown          OriginOfLicenses = 0
	OriginLocallySpecified OriginOfLicenses = 1
	OriginScraped          OriginOfLicenses = 2
)

// License is one license declaration of a dependency
type License struct {
	Name                 string            `json:"license_name"`
	PrimaryLink          string            `json:"primary_link"`
	PrimaryLinkType      PrimaryLinkType   `json:"primary_link_type"`
	SecondaryLink        string            `json:"secondary_link,omitempty"`
	SecondaryLinkType    SecondaryLinkType `json:"secondary_link_type,omitempty"`
	SecondaryLicenseName string            `json:"secondary_license_name,omitempty"`
}

// DependencyRecord is the unit that gets merged, validated and persisted
type DependencyRecord struct {
	Index           int32            `json:"index"`
	ArtifactName    string           `json:"artifact_name"` // full coordinate
	ArtifactVersion string           `json:"artifact_version"`
	Licenses        []License        `json:"license"`
	Origin          OriginOfLicenses `json:"origin_of_license"`
}

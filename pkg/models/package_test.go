package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkTypesRecognized(t *testing.T) {
	assert.True(t, PrimaryLinkTypeUnspecified.Recognized())
	assert.True(t, ShowLinkOnly.Recognized())
	assert.False(t, PrimaryLinkType(4).Recognized())
	assert.False(t, PrimaryLinkType(-1).Recognized())

	assert.True(t, SecondaryScrapeFromLocalCopy.Recognized())
	assert.False(t, SecondaryLinkType(42).Recognized())
}

func TestPrimaryLinkTypeString(t *testing.T) {
	assert.Equal(t, "SCRAPE_FROM_LOCAL_COPY", ScrapeFromLocalCopy.String())
	assert.Equal(t, "PRIMARY_LINK_TYPE_UNSPECIFIED", PrimaryLinkTypeUnspecified.String())
	assert.Equal(t, "PrimaryLinkType(7)", PrimaryLinkType(7).String())
}

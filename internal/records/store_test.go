package records

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acheong08/mavenlicenses/pkg/models"
)

func sampleRecords() []models.DependencyRecord {
	return []models.DependencyRecord{
		{
			Index:           0,
			ArtifactName:    "androidx.core:core:1.0.1",
			ArtifactVersion: "1.0.1",
			Licenses: []models.License{{
				Name:                 "The Apache Software License, Version 2.0",
				PrimaryLink:          "http://www.apache.org/licenses/LICENSE-2.0.txt",
				PrimaryLinkType:      models.ScrapeFromLocalCopy,
				SecondaryLink:        "https://www.apache.org/licenses/LICENSE-2.0.txt",
				SecondaryLinkType:    models.SecondaryScrapeDirectly,
				SecondaryLicenseName: "Apache License 2.0",
			}},
			Origin: models.OriginScraped,
		},
		{
			Index:           1,
			ArtifactName:    "com.google.guava:guava:28.1-android",
			ArtifactVersion: "28.1-android",
			Licenses: []models.License{
				{Name: "Apache 2.0", PrimaryLink: "http://x/a", PrimaryLinkType: models.ScrapeDirectly},
				{Name: "MIT", PrimaryLink: "http://x/m", PrimaryLinkType: models.ShowLinkOnly},
			},
			Origin: models.OriginLocallySpecified,
		},
		{
			Index:           2,
			ArtifactName:    "org.checkerframework:checker-qual:2.8.1",
			ArtifactVersion: "2.8.1",
		},
	}
}

func writeBinary(t *testing.T, records []models.DependencyRecord) string {
	t.Helper()
	data, err := MarshalBinary(records)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "maven_dependencies.pb")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadSaved(t *testing.T) {
	path := writeBinary(t, sampleRecords())

	records, err := LoadSaved(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), records)
}

func TestLoadSavedKeepsUnrecognizedEnums(t *testing.T) {
	recs := []models.DependencyRecord{{
		ArtifactName: "g:a:1.0",
		Licenses:     []models.License{{Name: "x", PrimaryLinkType: models.PrimaryLinkType(42)}},
	}}

	records, err := LoadSaved(writeBinary(t, recs))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.PrimaryLinkType(42), records[0].Licenses[0].PrimaryLinkType)
	assert.False(t, records[0].Licenses[0].PrimaryLinkType.Recognized())
}

func TestLoadSavedRejectsUnsorted(t *testing.T) {
	recs := sampleRecords()
	recs[0], recs[1] = recs[1], recs[0]

	_, err := LoadSaved(writeBinary(t, recs))
	assert.ErrorIs(t, err, ErrUnsortedSavedRecords)
}

func TestLoadSavedRejectsDuplicates(t *testing.T) {
	recs := sampleRecords()
	recs[1].ArtifactName = recs[0].ArtifactName

	_, err := LoadSaved(writeBinary(t, recs))
	assert.ErrorIs(t, err, ErrUnsortedSavedRecords)
}

func TestLoadSavedMissingFile(t *testing.T) {
	_, err := LoadSaved(filepath.Join(t.TempDir(), "missing.pb"))
	assert.Error(t, err)
}

func TestLoadSavedCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pb")
	require.NoError(t, os.WriteFile(path, []byte{0x0a, 0xff, 0xff}, 0o600))

	_, err := LoadSaved(path)
	assert.Error(t, err)
}

func TestLoadSavedEmptyFile(t *testing.T) {
	records, err := LoadSaved(writeBinary(t, nil))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMarshalText(t *testing.T) {
	data, err := MarshalText(sampleRecords())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "maven_dependency")
	assert.Contains(t, text, `"com.google.guava:guava:28.1-android"`)
	assert.Contains(t, text, "SCRAPE_FROM_LOCAL_COPY")
	assert.Contains(t, text, "SECONDARY_SCRAPE_DIRECTLY")
	assert.Contains(t, text, "LOCALLY_SPECIFIED")
}

func TestWriteTextIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.textproto")
	second := filepath.Join(dir, "second.textproto")

	require.NoError(t, WriteText(first, sampleRecords()))
	require.NoError(t, WriteText(second, sampleRecords()))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteTextBadPath(t *testing.T) {
	err := WriteText(filepath.Join(t.TempDir(), "missing-dir", "out.textproto"), sampleRecords())
	assert.Error(t, err)
}

func TestPrintListing(t *testing.T) {
	var buf bytes.Buffer
	PrintListing(&buf, "bazel query deps", []string{"a_b", "c_d"})
	assert.Equal(t, "bazel query deps (2)\n0 a_b\n1 c_d\n", buf.String())
}

package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acheong08/mavenlicenses/internal/pom"
	"github.com/acheong08/mavenlicenses/internal/registry"
	"github.com/acheong08/mavenlicenses/pkg/models"
)

type fakeFetcher struct {
	bodies map[string]string
	calls  []string
}

func (f *fakeFetcher) FetchDescriptor(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	body, ok := f.bodies[url]
	if !ok {
		return "", fmt.Errorf("%w: %s: status 404", registry.ErrDescriptorFetch, url)
	}
	return body, nil
}

const apachePOM = `<project><licenses><license><name>Apache 2.0</name><url>http://x/license</url></license></licenses></project>`

func reconciled(coords ...string) []models.ReconciledDependency {
	deps := make([]models.ReconciledDependency, len(coords))
	for i, c := range coords {
		deps[i] = models.ReconciledDependency{
			Index: i,
			Entry: models.LockEntry{Coord: c, URL: "https://repo/" + c + ".jar"},
		}
	}
	return deps
}

func TestExtract(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string]string{
		"https://repo/g:a:1.0.pom":   apachePOM,
		"https://repo/g:b:2.1.0.pom": `<project><name>no licenses here</name></project>`,
	}}

	got, err := NewExtractor(fetcher, nil).Extract(context.Background(), reconciled("g:a:1.0", "g:b:2.1.0"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.DependencyRecord{
		Index:           0,
		ArtifactName:    "g:a:1.0",
		ArtifactVersion: "1.0",
		Licenses:        []models.License{{Name: "Apache 2.0", PrimaryLink: "http://x/license"}},
		Origin:          models.OriginUnknown,
	}, got[0])

	assert.Equal(t, int32(1), got[1].Index)
	assert.Equal(t, "2.1.0", got[1].ArtifactVersion)
	assert.Empty(t, got[1].Licenses)

	assert.Equal(t, []string{"https://repo/g:a:1.0.pom", "https://repo/g:b:2.1.0.pom"}, fetcher.calls)
}

func TestExtractAbortsOnFirstFailure(t *testing.T) {
	t.Run("fetch failure", func(t *testing.T) {
		fetcher := &fakeFetcher{bodies: map[string]string{
			"https://repo/g:b:1.0.pom": apachePOM,
		}}

		_, err := NewExtractor(fetcher, nil).Extract(context.Background(), reconciled("g:a:1.0", "g:b:1.0"))
		require.Error(t, err)
		assert.ErrorIs(t, err, registry.ErrDescriptorFetch)
		assert.Contains(t, err.Error(), "g:a:1.0")
		assert.Len(t, fetcher.calls, 1)
	})

	t.Run("parse failure", func(t *testing.T) {
		fetcher := &fakeFetcher{bodies: map[string]string{
			"https://repo/g:a:1.0.pom": `<licenses><license><name>Apache`,
		}}

		_, err := NewExtractor(fetcher, nil).Extract(context.Background(), reconciled("g:a:1.0"))
		assert.ErrorIs(t, err, pom.ErrDescriptorParse)
	})

	t.Run("bad download url", func(t *testing.T) {
		deps := []models.ReconciledDependency{{Entry: models.LockEntry{Coord: "g:a:1.0", URL: "jar"}}}

		_, err := NewExtractor(&fakeFetcher{}, nil).Extract(context.Background(), deps)
		assert.ErrorIs(t, err, registry.ErrDescriptorFetch)
	})
}

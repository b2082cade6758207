package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCoordinate(t *testing.T) {
	tests := []struct {
		coord    string
		expected string
	}{
		{"com.example:foo-bar:1.2.3", "com_example_foo_bar"},
		{"androidx.core:core:1.0.1", "androidx_core_core"},
		{"com.google.guava:guava:28.1-android", "com_google_guava_guava"},
		{"org.jetbrains.kotlinx:kotlinx-coroutines-core:1.4.1", "org_jetbrains_kotlinx_kotlinx_coroutines_core"},
		// Packaging/classifier segments stay in the name, only the version is dropped
		{"com.google.protobuf:protobuf-java:jar:sources:3.17.3", "com_google_protobuf_protobuf_java_jar_sources"},
		{"group:1.0", "group"},
		{":1.0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.coord, func(t *testing.T) {
			result, err := NormalizeCoordinate(tt.coord)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormalizeCoordinateMalformed(t *testing.T) {
	for _, coord := range []string{"no-colon-here", ""} {
		t.Run(coord, func(t *testing.T) {
			_, err := NormalizeCoordinate(coord)
			assert.ErrorIs(t, err, ErrMalformedCoordinate)
		})
	}
}

func TestCoordinateVersion(t *testing.T) {
	tests := []struct {
		coord    string
		expected string
	}{
		{"com.example:foo-bar:1.2.3", "1.2.3"},
		{"com.google.guava:guava:28.1-android", "28.1-android"},
		{"g:a:", ""},
	}

	for _, tt := range tests {
		t.Run(tt.coord, func(t *testing.T) {
			result, err := CoordinateVersion(tt.coord)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}

	_, err := CoordinateVersion("nope")
	assert.ErrorIs(t, err, ErrMalformedCoordinate)
}

package parser

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedCoordinate = errors.New("malformed coordinate")

var targetNameReplacer = strings.NewReplacer(".", "_", ":", "_", "-", "_")

// NormalizeCoordinate maps a Maven coordinate to the target name
// rules_jvm_external generates for it: the version is dropped and
// '.', ':' and '-' become '_'.
//
//	com.example:foo-bar:1.2.3 -> com_example_foo_bar
func NormalizeCoordinate(coord string) (string, error) {
	idx := strings.LastIndexByte(coord, ':')
	if idx < 0 {
		return "", fmt.Errorf("%w: %q has no ':' separator", ErrMalformedCoordinate, coord)
	}

	return targetNameReplacer.Replace(coord[:idx]), nil
}

// CoordinateVersion returns the segment after the last ':'
func CoordinateVersion(coord string) (string, error) {
	idx := strings.LastIndexByte(coord, ':')
	if idx < 0 {
		return "", fmt.Errorf("%w: %q has no ':' separator", ErrMalformedCoordinate, coord)
	}

	return coord[idx+1:], nil
}

package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/acheong08/mavenlicenses/pkg/models"
)

// DefaultLockfilePath is where rules_jvm_external writes the pinned lock file,
// relative to the repository root
const DefaultLockfilePath = "third_party/maven_install.json"

// MavenInstall represents the maven_install.json structure
type MavenInstall struct {
	DependencyTree *MavenDependencyTree `json:"dependency_tree"`
}

// MavenDependencyTree holds the pinned artifacts
type MavenDependencyTree struct {
	Version      string             `json:"version"`
	Dependencies []models.LockEntry `json:"dependencies"`
}

// ReadLockfile reads maven_install.json and returns its entries sorted by coordinate
func ReadLockfile(path string) ([]models.LockEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	return ParseLockfile(data)
}

// ParseLockfile parses maven_install.json content
func ParseLockfile(data []byte) ([]models.LockEntry, error) {
	var lockfile MavenInstall
	if err := json.Unmarshal(data, &lockfile); err != nil {
		return nil, fmt.Errorf("failed to parse lockfile: %w", err)
	}

	if lockfile.DependencyTree == nil {
		return nil, fmt.Errorf("unsupported lockfile format: missing dependency_tree")
	}

	entries := make([]models.LockEntry, 0, len(lockfile.DependencyTree.Dependencies))
	for _, dep := range lockfile.DependencyTree.Dependencies {
		if dep.Coord == "" {
			return nil, fmt.Errorf("lockfile entry without coord (url %q)", dep.URL)
		}
		entries = append(entries, dep)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Coord < entries[j].Coord
	})

	return entries, nil
}

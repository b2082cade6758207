package records

import (
	"errors"
	"fmt"
	"io"
	"os"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/acheong08/mavenlicenses/pkg/models"
)

// DefaultSavedPath is the curated record list, relative to the repository root
const DefaultSavedPath = "app/assets/maven_dependencies.pb"

var ErrUnsortedSavedRecords = errors.New("saved records are not sorted by artifact name")

// LoadSaved reads the curated binary record list. The file must exist, decode,
// and be strictly ascending by artifact name so it can be binary searched.
func LoadSaved(path string) ([]models.DependencyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read saved records: %w", err)
	}

	records, err := UnmarshalBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode saved records %s: %w", path, err)
	}

	for i := 1; i < len(records); i++ {
		if records[i-1].ArtifactName >= records[i].ArtifactName {
			return nil, fmt.Errorf("%w: %q (index %d) is not before %q (index %d)",
				ErrUnsortedSavedRecords, records[i-1].ArtifactName, i-1, records[i].ArtifactName, i)
		}
	}

	return records, nil
}

// UnmarshalBinary decodes a serialized MavenDependencyList
func UnmarshalBinary(data []byte) ([]models.DependencyRecord, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, err
	}

	msg := dynamicpb.NewMessage(s.list)
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return s.fromMessage(msg), nil
}

// MarshalBinary encodes records as a MavenDependencyList
func MarshalBinary(records []models.DependencyRecord) ([]byte, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(s.toMessage(records))
}

// MarshalText renders records in protobuf text format
func MarshalText(records []models.DependencyRecord) ([]byte, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, err
	}

	opts := prototext.MarshalOptions{Multiline: true, Indent: "  "}
	data, err := opts.Marshal(s.toMessage(records))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}
	return data, nil
}

// WriteText writes the textual record dump to path
func WriteText(path string, records []models.DependencyRecord) error {
	data, err := MarshalText(records)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// PrintListing writes "<index> <name>" lines under a title
func PrintListing(w io.Writer, title string, names []string) {
	fmt.Fprintf(w, "%s (%d)\n", title, len(names))
	for i, name := range names {
		fmt.Fprintf(w, "%d %s\n", i, name)
	}
}

// Package pom extracts license declarations from Maven POM documents.
//
// The scan is positional and deliberately narrow: it looks for the literal
// tags <licenses>, <license>, <name> and <url> and captures the raw text up
// to the next '<'. Attributes on those tags, self-closing tags, CDATA
// sections and XML namespaces are not understood.
package pom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/acheong08/mavenlicenses/pkg/models"
)

var ErrDescriptorParse = errors.New("failed to parse descriptor")

const (
	licensesTag      = "<licenses>"
	licensesCloseTag = "</licenses>"
	licenseTag       = "<license>"
	licenseCloseTag  = "</license>"
	nameTag          = "<name>"
	urlTag           = "<url>"
)

type state int

const (
	seekLicenses state = iota
	inLicenses
	inLicense
	seekName
	seekURL
	done
)

func (s state) String() string {
	switch s {
	case seekLicenses:
		return "SEEK_LICENSES"
	case inLicenses:
		return "IN_LICENSES"
	case inLicense:
		return "IN_LICENSE"
	case seekName:
		return "SEEK_NAME"
	case seekURL:
		return "SEEK_URL"
	case done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

type scanner struct {
	text string
	pos  int

	// end of the current <license> element, exclusive of its closing tag
	licenseEnd int
	name       string
	licenses   []models.License
}

// Scan returns the licenses declared in a POM document. A document without a
// <licenses> block yields no licenses and no error.
func Scan(text string) ([]models.License, error) {
	s := &scanner{text: text}

	st := seekLicenses
	for st != done {
		var err error
		switch st {
		case seekLicenses:
			st = s.seekLicenses()
		case inLicenses:
			st, err = s.inLicenses()
		case inLicense:
			st, err = s.inLicense()
		case seekName:
			st, err = s.seekName()
		case seekURL:
			st, err = s.seekURL()
		}
		if err != nil {
			return nil, err
		}
	}

	return s.licenses, nil
}

// index finds tag in text[from:to] and returns its absolute position
func (s *scanner) index(tag string, from, to int) int {
	if from < 0 || from > to || to > len(s.text) {
		return -1
	}
	idx := strings.Index(s.text[from:to], tag)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func (s *scanner) seekLicenses() state {
	idx := s.index(licensesTag, 0, len(s.text))
	if idx < 0 {
		return done
	}
	s.pos = idx + len(licensesTag)
	return inLicenses
}

func (s *scanner) inLicenses() (state, error) {
	closeIdx := s.index(licensesCloseTag, s.pos, len(s.text))
	if closeIdx < 0 {
		return done, fmt.Errorf("%w: %s at offset %d is never closed", ErrDescriptorParse, licensesTag, s.pos)
	}

	idx := s.index(licenseTag, s.pos, closeIdx)
	if idx < 0 {
		s.pos = closeIdx + len(licensesCloseTag)
		return done, nil
	}
	s.pos = idx + len(licenseTag)
	return inLicense, nil
}

func (s *scanner) inLicense() (state, error) {
	closeIdx := s.index(licenseCloseTag, s.pos, len(s.text))
	if closeIdx < 0 {
		return done, fmt.Errorf("%w: %s at offset %d is never closed", ErrDescriptorParse, licenseTag, s.pos)
	}
	s.licenseEnd = closeIdx
	s.name = ""
	return seekName, nil
}

func (s *scanner) seekName() (state, error) {
	name, err := s.capture(nameTag)
	if err != nil {
		return done, err
	}
	s.name = name
	return seekURL, nil
}

func (s *scanner) seekURL() (state, error) {
	link, err := s.capture(urlTag)
	if err != nil {
		return done, err
	}

	s.licenses = append(s.licenses, models.License{
		Name:            s.name,
		PrimaryLink:     link,
		PrimaryLinkType: models.PrimaryLinkTypeUnspecified,
	})
	s.pos = s.licenseEnd + len(licenseCloseTag)
	return inLicenses, nil
}

// capture returns the literal text following tag up to the next '<', looking
// only inside the current license element. A missing tag captures "".
func (s *scanner) capture(tag string) (string, error) {
	idx := s.index(tag, s.pos, s.licenseEnd)
	if idx < 0 {
		return "", nil
	}
	start := idx + len(tag)
	end := strings.IndexByte(s.text[start:], '<')
	if end < 0 {
		return "", fmt.Errorf("%w: %s at offset %d is never closed", ErrDescriptorParse, tag, idx)
	}
	s.pos = start + end
	return s.text[start:s.pos], nil
}

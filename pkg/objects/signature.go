package objects

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Signature is the author/committer/tagger identity line of a commit
// or tag object.
//
// Wire format: "Name <email> timestamp timezone"
// Example: "John Doe <john@example.com> 1609459200 +0000"
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// signaturePattern matches the identity line format. Name and email
// may be empty: the engine emits such commits and a reader must accept
// what the engine accepts.
var signaturePattern = regexp.MustCompile(`^(.*) <([^>]*)> (\d+) ([+-]\d{4})$`)

// ParseSignature parses an identity from the engine's format.
func ParseSignature(line string) (Signature, error) {
	matches := signaturePattern.FindStringSubmatch(line)
	if matches == nil {
		return Signature{}, fmt.Errorf("invalid signature format: %q", line)
	}

	timestamp, err := strconv.ParseInt(matches[3], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	location, err := parseTimezone(matches[4])
	if err != nil {
		return Signature{}, fmt.Errorf("invalid timezone: %w", err)
	}

	return Signature{
		Name:  matches[1],
		Email: matches[2],
		When:  time.Unix(timestamp, 0).In(location),
	}, nil
}

// Format renders the signature in the engine's wire format:
// "Name <email> timestamp timezone"
func (s Signature) Format() string {
	timestamp := s.When.Unix()
	_, offset := s.When.Zone()

	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60

	return fmt.Sprintf("%s <%s> %d %s%02d%02d",
		s.Name, s.Email, timestamp, sign, hours, minutes)
}

// String returns a human-readable representation
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> at %s", s.Name, s.Email, s.When.Format(time.RFC3339))
}

// Equal compares two signatures. Times compare by instant, not by
// rendered zone.
func (s Signature) Equal(other Signature) bool {
	return s.Name == other.Name &&
		s.Email == other.Email &&
		s.When.Unix() == other.When.Unix()
}

// parseTimezone parses a zone string like "+0530" or "-0800" into a Location
func parseTimezone(tz string) (*time.Location, error) {
	if len(tz) != 5 {
		return nil, fmt.Errorf("invalid timezone length: %s", tz)
	}

	sign := tz[0]
	if sign != '+' && sign != '-' {
		return nil, fmt.Errorf("invalid timezone sign: %c", sign)
	}

	hours, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return nil, fmt.Errorf("invalid timezone hours: %w", err)
	}

	minutes, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return nil, fmt.Errorf("invalid timezone minutes: %w", err)
	}

	offsetSeconds := hours*3600 + minutes*60
	if sign == '-' {
		offsetSeconds = -offsetSeconds
	}

	return time.FixedZone(tz, offsetSeconds), nil
}

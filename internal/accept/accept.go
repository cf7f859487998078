// Package accept parses HTTP Accept headers and selects the best matching
// media type from a caller-supplied candidate set, implementing q-factor
// ordering and the two-tier (type, subtype) wildcard specificity the rest
// of this system relies on for content negotiation.
package accept

import (
	"sort"
	"strconv"
	"strings"
)

// MediaRange is one parsed Accept entry: type "/" subtype, with an optional
// q-factor defaulting to 1.0.
type MediaRange struct {
	Type    string
	Subtype string
	Q       float64
}

// Candidate is one concrete (type, subtype) pair a caller is willing to
// produce. Candidates are never wildcards.
type Candidate struct {
	Type    string
	Subtype string
}

// Any is the sentinel HighestIn returns to mean "no acceptable type was
// found among the candidates"; callers treat it as "fall back to a
// default."
var Any = Candidate{Type: "*", Subtype: "*"}

// Parse parses a comma-separated Accept header into media ranges ordered
// from most to least preferred. The grammar is tolerant: whitespace around
// list items and tokens is ignored, and entries that don't parse as
// type "/" subtype with optional ";q=" are silently dropped.
func Parse(header string) []MediaRange {
	var ranges []MediaRange

	for _, part := range strings.Split(header, ",") {
		mr, ok := parseOne(strings.TrimSpace(part))
		if !ok {
			continue
		}
		ranges = append(ranges, mr)
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return less(ranges[i], ranges[j])
	})

	return ranges
}

func parseOne(entry string) (MediaRange, bool) {
	if entry == "" {
		return MediaRange{}, false
	}

	typeSubtype := entry
	q := 1.0

	if idx := strings.IndexByte(entry, ';'); idx >= 0 {
		typeSubtype = strings.TrimSpace(entry[:idx])
		for _, param := range strings.Split(entry[idx+1:], ";") {
			param = strings.TrimSpace(param)
			name, value, ok := strings.Cut(param, "=")
			if !ok || strings.TrimSpace(name) != "q" {
				continue
			}
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				q = parsed
			}
		}
	}

	typ, sub, ok := strings.Cut(typeSubtype, "/")
	if !ok {
		return MediaRange{}, false
	}
	typ = strings.TrimSpace(typ)
	sub = strings.TrimSpace(sub)

	if !validToken(typ) || !validToken(sub) {
		return MediaRange{}, false
	}

	if q < 0 {
		q = 0
	} else if q > 1 {
		q = 1
	}

	return MediaRange{Type: typ, Subtype: sub, Q: q}, true
}

func validToken(s string) bool {
	if s == "*" {
		return true
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r == '+' || r == '-':
		default:
			return false
		}
	}
	return true
}

// less reports whether a is strictly preferred over b: higher q wins; at
// equal q, a concrete type beats a wildcard type; at equal q and type
// specificity, a concrete subtype beats a wildcard subtype. Any other
// relationship is incomparable and returns false, leaving a stable sort to
// preserve the entries' original relative order.
func less(a, b MediaRange) bool {
	if a.Q != b.Q {
		return a.Q > b.Q
	}
	if a.Type != "*" && b.Type == "*" {
		return true
	}
	if a.Type == "*" && b.Type != "*" {
		return false
	}
	if a.Subtype != "*" && b.Subtype == "*" {
		return true
	}
	return false
}

// HighestIn walks ranges in preference order and returns the first
// candidate that equals a range's (type, subtype) exactly. A "*/*" range
// never equals a concrete candidate, so it is simply skipped rather than
// treated as an automatic match; a lower-q literal match further down the
// list still wins. If nothing matches at all, HighestIn returns the Any
// sentinel; callers apply their own default in that case.
func HighestIn(ranges []MediaRange, candidates []Candidate) Candidate {
	for _, r := range ranges {
		for _, c := range candidates {
			if r.Type == c.Type && r.Subtype == c.Subtype {
				return c
			}
		}
	}
	return Any
}

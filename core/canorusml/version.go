package canorusml

import (
	"strconv"
	"strings"
)

// CurrentVersion is the program version written into exported documents.
const CurrentVersion = "0.7.10"

// Version is the dotted program version recorded in a document's
// canorus-version marker. The zero value means "no version recorded",
// which reads like the current format but with unreliable colors.
type Version struct {
	segs []int
}

// ParseVersion parses a dotted version string like "0.7.10". Parsing stops
// at the first non-numeric segment; empty input yields the zero Version.
func ParseVersion(s string) Version {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}
	}
	var segs []int
	for _, part := range strings.Split(s, ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			break
		}
		segs = append(segs, n)
	}
	return Version{segs: segs}
}

// Defined reports whether a version marker was recorded.
func (v Version) Defined() bool { return len(v.segs) > 0 }

// Segment returns the i-th version segment, 0 when absent.
func (v Version) Segment(i int) int {
	if i < len(v.segs) {
		return v.segs[i]
	}
	return 0
}

// String returns the dotted form, or "" for the zero Version.
func (v Version) String() string {
	parts := make([]string, len(v.segs))
	for i, s := range v.segs {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ".")
}

// Compare orders versions segment-wise, treating missing segments as 0.
func (v Version) Compare(o Version) int {
	n := len(v.segs)
	if len(o.segs) > n {
		n = len(o.segs)
	}
	for i := 0; i < n; i++ {
		a, b := v.Segment(i), o.Segment(i)
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// IsLegacy reports whether the document belongs to the 0.5.x family, which
// stored note, rest, tempo and function-mark attributes in the legacy
// layout.
func (v Version) IsLegacy() bool {
	return len(v.segs) >= 2 && v.segs[0] == 0 && v.segs[1] == 5
}

// ColorReliable reports whether stored color attributes can be trusted.
// Documents up to and including 0.7.3 saved colors incorrectly, so their
// color attributes are discarded; so are those of unversioned documents.
func (v Version) ColorReliable() bool {
	return v.Defined() && v.Compare(Version{segs: []int{0, 7, 3}}) > 0
}

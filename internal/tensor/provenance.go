package tensor

import (
	"slices"

	"github.com/google/uuid"
)

// Subjects is the per-element provenance tag set of a bounded tensor.
//
// Each entry names one data subject whose raw data influenced the element's
// value. The engine only propagates these tags (union on combination, union
// across reduced axes); interpreting them is left to downstream sensitivity
// accounting.
//
// A Subjects slice is always sorted and deduplicated; the empty (nil) set is
// the neutral element used for synthetic values such as zero padding.
type Subjects []string

// NewSubject mints a fresh, globally unique data-subject identifier.
func NewSubject() string {
	return uuid.NewString()
}

// SingleSubject returns a provenance set containing exactly one subject.
func SingleSubject(id string) Subjects {
	return Subjects{id}
}

// Union returns the sorted union of two provenance sets.
// Either operand may be nil; the result never aliases the inputs unless one
// of them is empty.
func (s Subjects) Union(other Subjects) Subjects {
	if len(other) == 0 {
		return s
	}
	if len(s) == 0 {
		return other
	}

	out := make(Subjects, 0, len(s)+len(other))
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		switch {
		case s[i] == other[j]:
			out = append(out, s[i])
			i++
			j++
		case s[i] < other[j]:
			out = append(out, s[i])
			i++
		default:
			out = append(out, other[j])
			j++
		}
	}
	out = append(out, s[i:]...)
	out = append(out, other[j:]...)
	return out
}

// Contains reports whether the set includes the given subject.
func (s Subjects) Contains(id string) bool {
	_, found := slices.BinarySearch(s, id)
	return found
}

// Equal reports whether two provenance sets hold the same subjects.
func (s Subjects) Equal(other Subjects) bool {
	return slices.Equal(s, other)
}

// Clone returns a copy of the provenance set.
func (s Subjects) Clone() Subjects {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// normalizeSubjects sorts and deduplicates a caller-supplied tag set.
func normalizeSubjects(s Subjects) Subjects {
	if len(s) == 0 {
		return nil
	}
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}

// cloneSubjectPlane deep-copies a per-element provenance plane.
func cloneSubjectPlane(plane []Subjects) []Subjects {
	out := make([]Subjects, len(plane))
	for i, s := range plane {
		out[i] = s.Clone()
	}
	return out
}

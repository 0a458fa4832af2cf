// Package tier models MarkUp subscription tiers and the plan catalog.
package tier

import (
	"fmt"
	"strings"
)

// Tier represents the subscription level
type Tier string

const (
	// Free gives access to the basic exam answer generator
	Free Tier = "free"
	// StudyPlus unlocks study tools and examiner insight
	StudyPlus Tier = "study_plus"
	// Pro adds The Marker tutoring chat
	Pro Tier = "pro"
)

// All lists the tiers in ascending order.
var All = []Tier{Free, StudyPlus, Pro}

// Parse converts a wire or user supplied value into a Tier.
// Unknown values are rejected.
func Parse(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return Free, nil
	case "study_plus", "study-plus", "studyplus", "study+":
		return StudyPlus, nil
	case "pro":
		return Pro, nil
	default:
		return "", fmt.Errorf("unknown tier %q (expected one of free, study_plus, pro)", s)
	}
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case Free, StudyPlus, Pro:
		return true
	}
	return false
}

// Rank returns the position of t in the total order free < study_plus < pro.
// Unknown tiers rank as free.
func (t Tier) Rank() int {
	switch t {
	case StudyPlus:
		return 1
	case Pro:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether t grants everything required grants.
func (t Tier) AtLeast(required Tier) bool {
	return t.Rank() >= required.Rank()
}

// Compare returns -1, 0 or +1 depending on whether a ranks below, equal to or above b.
func Compare(a, b Tier) int {
	switch ra, rb := a.Rank(), b.Rank(); {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// DisplayName returns the marketing name of the tier.
func (t Tier) DisplayName() string {
	switch t {
	case Free:
		return "Free"
	case StudyPlus:
		return "Study+"
	case Pro:
		return "Pro"
	default:
		return string(t)
	}
}

// OrFree returns t, or Free when t is empty or unknown.
func (t Tier) OrFree() Tier {
	if t.Valid() {
		return t
	}
	return Free
}

// Package access derives what a profile may use. Every function is pure and
// recomputed on each call; nothing is cached.
package access

import (
	"fmt"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/tier"
)

// Feature names a tier-gated capability.
type Feature string

const (
	ExamAnswer      Feature = "exam_answer"
	ExaminerInsight Feature = "examiner_insight"
	Flashcards      Feature = "flashcards"
	TranscriptNotes Feature = "transcript_notes"
	TheMarker       Feature = "the_marker"
)

// requirements is the single source of truth for feature gating.
var requirements = map[Feature]tier.Tier{
	ExamAnswer:      tier.Free,
	ExaminerInsight: tier.StudyPlus,
	Flashcards:      tier.StudyPlus,
	TranscriptNotes: tier.StudyPlus,
	TheMarker:       tier.Pro,
}

var displayNames = map[Feature]string{
	ExamAnswer:      "ExamAnswer",
	ExaminerInsight: "Examiner Insight",
	Flashcards:      "Flashcard Generator",
	TranscriptNotes: "YouTube Transcript → Notes",
	TheMarker:       "The Marker",
}

// RequiredTier returns the minimum tier for f. Unknown features require Pro.
func (f Feature) RequiredTier() tier.Tier {
	if t, ok := requirements[f]; ok {
		return t
	}
	return tier.Pro
}

// String returns the display name of the feature.
func (f Feature) String() string {
	if name, ok := displayNames[f]; ok {
		return name
	}
	return string(f)
}

// Decision is the full set of derived flags for a profile.
type Decision struct {
	IsAuthenticated      bool `json:"is_authenticated" yaml:"is_authenticated"`
	HasEducationSetup    bool `json:"has_education_setup" yaml:"has_education_setup"`
	CanUseInsightFeature bool `json:"can_use_insight_feature" yaml:"can_use_insight_feature"`
	IsPremium            bool `json:"is_premium" yaml:"is_premium"`
	IsPro                bool `json:"is_pro" yaml:"is_pro"`
}

// Evaluate derives the Decision for p.
func Evaluate(p *api.Profile) Decision {
	return Decision{
		IsAuthenticated:      IsAuthenticated(p),
		HasEducationSetup:    HasEducationSetup(p),
		CanUseInsightFeature: CanUse(p, ExaminerInsight),
		IsPremium:            IsPremiumFeatureUnlocked(p, tier.StudyPlus),
		IsPro:                IsPremiumFeatureUnlocked(p, tier.Pro),
	}
}

// IsAuthenticated reports whether a profile is present.
func IsAuthenticated(p *api.Profile) bool {
	return p != nil
}

// HasEducationSetup reports whether country, education level and exam board are all set.
func HasEducationSetup(p *api.Profile) bool {
	return len(MissingEducationFields(p)) == 0
}

// MissingEducationFields lists the unset education fields by wire name.
func MissingEducationFields(p *api.Profile) []string {
	if p == nil {
		return []string{"country", "education_level", "exam_board"}
	}
	var missing []string
	if p.Country == "" {
		missing = append(missing, "country")
	}
	if p.EducationLevel == "" {
		missing = append(missing, "education_level")
	}
	if p.ExamBoard == "" {
		missing = append(missing, "exam_board")
	}
	return missing
}

// IsPremiumFeatureUnlocked reports whether p's tier ranks at or above required.
// A nil profile unlocks nothing.
func IsPremiumFeatureUnlocked(p *api.Profile, required tier.Tier) bool {
	if p == nil {
		return false
	}
	return p.Tier.AtLeast(required)
}

// CanUse reports whether p may use f.
func CanUse(p *api.Profile, f Feature) bool {
	return IsPremiumFeatureUnlocked(p, f.RequiredTier())
}

// CanUseInsightFeature reports whether examiner insight is available.
func CanUseInsightFeature(p *api.Profile) bool {
	return CanUse(p, ExaminerInsight)
}

// IsPremium reports whether p is on Study+ or above.
func IsPremium(p *api.Profile) bool {
	return IsPremiumFeatureUnlocked(p, tier.StudyPlus)
}

// IsPro reports whether p is on Pro.
func IsPro(p *api.Profile) bool {
	return IsPremiumFeatureUnlocked(p, tier.Pro)
}

// FeatureGateError is returned when a feature requires a higher tier.
type FeatureGateError struct {
	Feature      Feature
	RequiredTier tier.Tier
	CurrentTier  tier.Tier
}

func (e *FeatureGateError) Error() string {
	return fmt.Sprintf("feature '%s' requires %s tier (current: %s)",
		e.Feature, e.RequiredTier, e.CurrentTier)
}

// Unwrap exposes the access error so callers can classify it by kind.
func (e *FeatureGateError) Unwrap() error {
	return errors.NewTierRequiredError(e.Feature.String(), e.RequiredTier.DisplayName(), e.CurrentTier.DisplayName())
}

// Require returns an error unless p is signed in and may use f.
func Require(p *api.Profile, f Feature) error {
	if p == nil {
		return errors.NewNotSignedInError()
	}
	if !CanUse(p, f) {
		return &FeatureGateError{
			Feature:      f,
			RequiredTier: f.RequiredTier(),
			CurrentTier:  p.Tier.OrFree(),
		}
	}
	return nil
}

// RequireEducationSetup returns an access error naming the missing fields.
func RequireEducationSetup(p *api.Profile) error {
	if p == nil {
		return errors.NewNotSignedInError()
	}
	if missing := MissingEducationFields(p); len(missing) > 0 {
		return errors.NewEducationSetupError(missing)
	}
	return nil
}

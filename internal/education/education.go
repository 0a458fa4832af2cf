// Package education manages the user's country, education level, exam board
// and language.
package education

import (
	"context"
	"sort"
	"strings"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/validate"
)

// DefaultLanguage is used when neither the profile nor the user picks one.
const DefaultLanguage = "en-GB"

// Languages lists the interface languages offered in settings.
var Languages = map[string]string{
	"en-GB": "English (UK)",
	"en-US": "English (US)",
	"fr":    "Français",
	"es":    "Español",
	"de":    "Deutsch",
}

// LanguageCodes returns the keys of Languages, default first, then sorted.
func LanguageCodes() []string {
	codes := make([]string, 0, len(Languages))
	for code := range Languages {
		if code != DefaultLanguage {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return append([]string{DefaultLanguage}, codes...)
}

// Client is the subset of the backend API used here.
type Client interface {
	Countries(ctx context.Context) ([]string, error)
	Levels(ctx context.Context, country string) ([]string, error)
	Boards(ctx context.Context, country, level string) ([]string, error)
	SetupEducation(ctx context.Context, token string, setup api.EducationSetup) error
}

// Sessions is the subset of the session store used here.
type Sessions interface {
	Snapshot() session.Session
	UpdateProfile(update session.ProfileUpdate) (*api.Profile, error)
}

// Service loads option lists and saves the education setup.
type Service struct {
	client   Client
	sessions Sessions
}

// NewService creates a Service.
func NewService(client Client, sessions Sessions) *Service {
	return &Service{client: client, sessions: sessions}
}

// Countries lists supported countries.
func (s *Service) Countries(ctx context.Context) ([]string, error) {
	return s.client.Countries(ctx)
}

// Levels lists education levels for country. An empty country yields no levels.
func (s *Service) Levels(ctx context.Context, country string) ([]string, error) {
	if country == "" {
		return nil, nil
	}
	return s.client.Levels(ctx, country)
}

// Boards lists exam boards for country and level. Both must be set.
func (s *Service) Boards(ctx context.Context, country, level string) ([]string, error) {
	if country == "" || level == "" {
		return nil, nil
	}
	return s.client.Boards(ctx, country, level)
}

// Save posts the form to the backend and, on success, merges the four
// fields into the local profile.
func (s *Service) Save(ctx context.Context, form *Form) (*api.Profile, error) {
	snap := s.sessions.Snapshot()
	if snap.User == nil {
		return nil, errors.NewNotSignedInError()
	}

	setup := form.Setup()
	if err := validate.Struct(setup); err != nil {
		return nil, err
	}
	lang, err := validate.Language(setup.Language)
	if err != nil {
		return nil, err
	}
	setup.Language = lang

	if err := s.client.SetupEducation(ctx, snap.Token, setup); err != nil {
		return nil, err
	}

	profile, err := s.sessions.UpdateProfile(session.ProfileUpdate{
		Country:        &setup.Country,
		EducationLevel: &setup.EducationLevel,
		ExamBoard:      &setup.ExamBoard,
		Language:       &setup.Language,
	})
	if err != nil {
		return nil, err
	}
	form.commit()
	return profile, nil
}

// Form holds unsaved settings and applies the cascade rules: picking a
// different country clears level and board, picking a different level
// clears board. Re-selecting the saved value keeps dependents.
type Form struct {
	Country        string
	EducationLevel string
	ExamBoard      string
	Language       string

	savedCountry string
	savedLevel   string
}

// NewForm seeds a form from p, which may be nil.
func NewForm(p *api.Profile) *Form {
	f := &Form{Language: DefaultLanguage}
	if p == nil {
		return f
	}
	f.Country = p.Country
	f.EducationLevel = p.EducationLevel
	f.ExamBoard = p.ExamBoard
	if p.Language != "" {
		f.Language = p.Language
	}
	f.savedCountry = p.Country
	f.savedLevel = p.EducationLevel
	return f
}

// SetCountry selects a country.
func (f *Form) SetCountry(country string) {
	f.Country = country
	if country != f.savedCountry {
		f.EducationLevel = ""
		f.ExamBoard = ""
	}
}

// SetLevel selects an education level.
func (f *Form) SetLevel(level string) {
	f.EducationLevel = level
	if level != f.savedLevel {
		f.ExamBoard = ""
	}
}

// SetBoard selects an exam board.
func (f *Form) SetBoard(board string) {
	f.ExamBoard = board
}

// SetLanguage selects the interface language.
func (f *Form) SetLanguage(lang string) {
	f.Language = lang
}

// Complete reports whether country, level and board are all chosen.
func (f *Form) Complete() bool {
	return f.Country != "" && f.EducationLevel != "" && f.ExamBoard != ""
}

// Setup converts the form to the request payload.
func (f *Form) Setup() api.EducationSetup {
	return api.EducationSetup{
		Country:        strings.TrimSpace(f.Country),
		EducationLevel: strings.TrimSpace(f.EducationLevel),
		ExamBoard:      strings.TrimSpace(f.ExamBoard),
		Language:       strings.TrimSpace(f.Language),
	}
}

// Summary renders "country • level • board" for display.
func (f *Form) Summary() string {
	if !f.Complete() {
		return ""
	}
	return f.Country + " • " + f.EducationLevel + " • " + f.ExamBoard
}

// LanguageName returns the display name of the form's language.
func (f *Form) LanguageName() string {
	if name, ok := Languages[f.Language]; ok {
		return name
	}
	return f.Language
}

func (f *Form) commit() {
	f.savedCountry = f.Country
	f.savedLevel = f.EducationLevel
}

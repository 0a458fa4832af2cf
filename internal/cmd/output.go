package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/markup/internal/access"
	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/education"
	"github.com/felixgeelhaar/markup/internal/examanswer"
	"github.com/felixgeelhaar/markup/internal/marker"
	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/tier"
	"github.com/felixgeelhaar/markup/internal/version"
)

// Views pair the structured result of a command with its text rendering.
// JSON and YAML output encode the fields; text output calls WriteText.

type messageView struct {
	Message string `json:"message" yaml:"message"`
}

func (v messageView) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, v.Message)
	return err
}

type profileView struct {
	api.Profile `yaml:",inline"`
}

func (v profileView) WriteText(w io.Writer) error {
	p := &v.Profile
	fmt.Fprintf(w, "%s <%s>\n", p.Name, p.Email)
	fmt.Fprintf(w, "Plan:      %s\n", p.Tier.OrFree().DisplayName())
	if access.HasEducationSetup(p) {
		fmt.Fprintf(w, "Education: %s\n", education.NewForm(p).Summary())
	} else {
		fmt.Fprintf(w, "Education: not set up (missing: %s)\n", strings.Join(access.MissingEducationFields(p), ", "))
	}
	_, err := fmt.Fprintf(w, "Language:  %s\n", education.NewForm(p).LanguageName())
	return err
}

type statusView struct {
	Authenticated bool               `json:"authenticated" yaml:"authenticated"`
	User          *api.Profile       `json:"user,omitempty" yaml:"user,omitempty"`
	Token         *session.TokenInfo `json:"token,omitempty" yaml:"token,omitempty"`
	TokenFile     string             `json:"token_file" yaml:"token_file"`
	Encrypted     bool               `json:"encrypted" yaml:"encrypted"`
	BaseURL       string             `json:"base_url" yaml:"base_url"`
	Access        *access.Decision   `json:"access,omitempty" yaml:"access,omitempty"`
	now           func() time.Time
}

func (v statusView) WriteText(w io.Writer) error {
	if !v.Authenticated {
		fmt.Fprintln(w, "Not signed in")
		fmt.Fprintf(w, "Backend:   %s\n", v.BaseURL)
		_, err := fmt.Fprintln(w, "Run 'markup auth login' to sign in")
		return err
	}

	if err := (profileView{Profile: *v.User}).WriteText(w); err != nil {
		return err
	}
	fmt.Fprintf(w, "Backend:   %s\n", v.BaseURL)
	if v.Token != nil {
		line := fmt.Sprintf("Token:     %s (%s)", v.Token.Fingerprint, v.Token.Format)
		if v.Token.ExpiresAt != nil {
			now := time.Now
			if v.now != nil {
				now = v.now
			}
			if v.Token.Expired(now()) {
				line += ", expired " + v.Token.ExpiresAt.Format(time.RFC3339)
			} else {
				line += ", expires " + v.Token.ExpiresAt.Format(time.RFC3339)
			}
		}
		fmt.Fprintln(w, line)
	}
	stored := "plain"
	if v.Encrypted {
		stored = "encrypted"
	}
	_, err := fmt.Fprintf(w, "Stored:    %s (%s)\n", v.TokenFile, stored)
	return err
}

type educationView struct {
	Country        string   `json:"country" yaml:"country"`
	EducationLevel string   `json:"education_level" yaml:"education_level"`
	ExamBoard      string   `json:"exam_board" yaml:"exam_board"`
	Language       string   `json:"language" yaml:"language"`
	Complete       bool     `json:"complete" yaml:"complete"`
	Missing        []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

func newEducationView(p *api.Profile) educationView {
	f := education.NewForm(p)
	return educationView{
		Country:        f.Country,
		EducationLevel: f.EducationLevel,
		ExamBoard:      f.ExamBoard,
		Language:       f.Language,
		Complete:       f.Complete(),
		Missing:        access.MissingEducationFields(p),
	}
}

func (v educationView) WriteText(w io.Writer) error {
	rows := [][2]string{
		{"Country", v.Country},
		{"Education level", v.EducationLevel},
		{"Exam board", v.ExamBoard},
		{"Language", (&education.Form{Language: v.Language}).LanguageName()},
	}
	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%-16s %s\n", r[0]+":", value)
	}
	if !v.Complete {
		_, err := fmt.Fprintln(w, "\nSetup incomplete. Run 'markup settings set' to finish it.")
		return err
	}
	return nil
}

type answerView struct {
	api.ExamAnswer `yaml:",inline"`
}

func (v answerView) WriteText(w io.Writer) error {
	a := v.ExamAnswer
	header := a.Subject + " • " + examanswer.TaskTypeLabel(a.TaskType)
	if a.Marks != nil {
		header += " • " + strconv.Itoa(*a.Marks) + " marks"
	}
	fmt.Fprintln(w, header)
	if a.Question != "" {
		fmt.Fprintln(w, a.Question)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, a.Answer)
	if a.Insight != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Examiner insight")
		fmt.Fprintln(w, a.Insight)
	}
	return nil
}

type flashcardsView struct {
	Flashcards []api.Flashcard `json:"flashcards" yaml:"flashcards"`
}

func (v flashcardsView) WriteText(w io.Writer) error {
	for i, c := range v.Flashcards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d. Q: %s\n", i+1, c.Question)
		fmt.Fprintf(w, "   A: %s\n", c.Answer)
	}
	return nil
}

type notesView struct {
	Notes string `json:"notes" yaml:"notes"`
}

func (v notesView) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, strings.TrimRight(v.Notes, "\n"))
	return err
}

type replyView struct {
	marker.Message `yaml:",inline"`
}

func (v replyView) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, v.Content)
	return err
}

type plansView struct {
	Current tier.Tier   `json:"current" yaml:"current"`
	Plans   []tier.Plan `json:"plans" yaml:"plans"`
}

func (v plansView) WriteText(w io.Writer) error {
	tier.WriteMatrix(w, v.Current)
	return nil
}

type upgradeView struct {
	session.UpgradeResult `yaml:",inline"`
	AlreadyOnPlan         bool `json:"already_on_plan" yaml:"already_on_plan"`
}

func (v upgradeView) WriteText(w io.Writer) error {
	if v.AlreadyOnPlan {
		_, err := fmt.Fprintln(w, "You are already on this plan")
		return err
	}
	_, err := fmt.Fprintf(w, "Successfully upgraded to %s!\n", v.Tier.DisplayName())
	return err
}

type versionView struct {
	version.Info `yaml:",inline"`
	verbose      bool
}

func (v versionView) WriteText(w io.Writer) error {
	if v.verbose {
		_, err := fmt.Fprintln(w, v.Info.String())
		return err
	}
	_, err := fmt.Fprintf(w, "markup %s\n", v.Info.Short())
	return err
}

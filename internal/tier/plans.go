package tier

import (
	"fmt"
	"io"
	"strings"
)

// Feature is one line of a plan's feature list.
type Feature struct {
	Text     string `json:"text" yaml:"text"`
	Included bool   `json:"included" yaml:"included"`
}

// Plan describes a purchasable tier.
type Plan struct {
	Tier        Tier      `json:"tier" yaml:"tier"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Price       string    `json:"price" yaml:"price"`
	Period      string    `json:"period" yaml:"period"`
	Badge       string    `json:"badge,omitempty" yaml:"badge,omitempty"`
	Features    []Feature `json:"features" yaml:"features"`
}

// Plans is the catalog shown on the upgrade screen, cheapest first.
var Plans = []Plan{
	{
		Tier:        Free,
		Name:        "Free",
		Description: "Get started with basic exam answers",
		Price:       "£0",
		Period:      "forever",
		Features: []Feature{
			{"Basic ExamAnswer", true},
			{"Limited subjects", true},
			{"No answer history", false},
			{"No Examiner Insight", false},
			{"No Study Tools", false},
			{"No AI Tutor", false},
		},
	},
	{
		Tier:        StudyPlus,
		Name:        "Study+",
		Description: "Enhanced study tools and multi-subject support",
		Price:       "£2.99",
		Period:      "/month",
		Badge:       "Popular",
		Features: []Feature{
			{"Full ExamAnswer", true},
			{"Multi-subject support", true},
			{"YouTube → Notes", true},
			{"Flashcard Generator", true},
			{"Save & history", true},
			{"No AI Tutor", false},
		},
	},
	{
		Tier:        Pro,
		Name:        "Pro",
		Description: "Everything plus AI Tutor for exam mastery",
		Price:       "£8.99",
		Period:      "/month",
		Badge:       "Best Value",
		Features: []Feature{
			{"Full ExamAnswer", true},
			{"Examiner Insight", true},
			{"All Study+ tools", true},
			{"AI Tutor, The Marker", true},
			{"Full answer history", true},
			{"Priority support", true},
		},
	},
}

// PlanFor returns the catalog entry for t.
func PlanFor(t Tier) (Plan, bool) {
	for _, p := range Plans {
		if p.Tier == t {
			return p, true
		}
	}
	return Plan{}, false
}

// ButtonLabel is the call to action shown for a plan given the user's current tier.
func (p Plan) ButtonLabel(current Tier) string {
	switch {
	case p.Tier == current.OrFree():
		return "Current Plan"
	case p.Tier == Free:
		return "Free Plan"
	default:
		return "Upgrade to " + p.Name
	}
}

// WriteMatrix renders the plan catalog as plain text, marking the current plan.
func WriteMatrix(w io.Writer, current Tier) {
	current = current.OrFree()
	for i, p := range Plans {
		if i > 0 {
			fmt.Fprintln(w)
		}
		marker := " "
		if p.Tier == current {
			marker = "*"
		}
		header := fmt.Sprintf("%s %s  %s %s", marker, p.Name, p.Price, p.Period)
		if p.Badge != "" {
			header += "  [" + p.Badge + "]"
		}
		fmt.Fprintln(w, header)
		fmt.Fprintf(w, "  %s\n", p.Description)
		for _, f := range p.Features {
			fmt.Fprintf(w, "    %s %s\n", checkOrDash(f.Included), f.Text)
		}
		fmt.Fprintf(w, "  %s\n", strings.TrimSpace(p.ButtonLabel(current)))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Demo mode: upgrades are simulated, no payment is taken.")
}

func checkOrDash(included bool) string {
	if included {
		return "✓"
	}
	return "-"
}

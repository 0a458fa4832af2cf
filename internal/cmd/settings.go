package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/education"
	"github.com/felixgeelhaar/markup/internal/errors"
)

func newSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change your education setup",
		Long: `Your country, education level and exam board decide which exam
conventions answers follow. Exam answers and The Marker need all three.

Examples:
  markup settings show
  markup settings options
  markup settings options UK
  markup settings options UK GCSE
  markup settings set --country UK --level GCSE --board AQA --language en-GB`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	settingsCmd.AddCommand(newSettingsShowCmd(), newSettingsSetCmd(), newSettingsOptionsCmd())
	return settingsCmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your education setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.requireUser(commandContext(cmd))
			if err != nil {
				return err
			}
			return a.out.Format(newEducationView(p))
		},
	}
}

type settingsFlags struct {
	country  string
	level    string
	board    string
	language string
}

func newSettingsSetCmd() *cobra.Command {
	var f settingsFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change your education setup",
		Long: `Change country, education level, exam board and language.

Choosing a different country clears level and board; choosing a different
level clears board. Cleared values are prompted for, and so is anything not
given as a flag when running in a terminal. Values are checked against the
options the backend offers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)
			p, err := a.requireUser(ctx)
			if err != nil {
				return err
			}

			form := education.NewForm(p)
			if err := a.fillForm(ctx, form, f, cmd.Flags().Changed("language")); err != nil {
				return err
			}

			profile, err := a.education.Save(ctx, form)
			if err != nil {
				return err
			}
			return a.out.Format(newEducationView(profile))
		},
	}

	cmd.Flags().StringVar(&f.country, "country", "", "country")
	cmd.Flags().StringVar(&f.level, "level", "", "education level")
	cmd.Flags().StringVar(&f.board, "board", "", "exam board")
	cmd.Flags().StringVar(&f.language, "language", "", "interface language as a BCP 47 tag (default en-GB)")
	return cmd
}

// fillForm walks the cascade. Each step applies the flag, keeps the saved
// value, or asks, and validates against the backend's list.
func (a *app) fillForm(ctx context.Context, form *education.Form, f settingsFlags, languageSet bool) error {
	countries, err := a.education.Countries(ctx)
	if err != nil {
		return err
	}
	country, err := a.choose("Country", countries, f.country, form.Country)
	if err != nil {
		return err
	}
	form.SetCountry(country)

	levels, err := a.education.Levels(ctx, form.Country)
	if err != nil {
		return err
	}
	level, err := a.choose("Education level", levels, f.level, form.EducationLevel)
	if err != nil {
		return err
	}
	form.SetLevel(level)

	boards, err := a.education.Boards(ctx, form.Country, form.EducationLevel)
	if err != nil {
		return err
	}
	board, err := a.choose("Exam board", boards, f.board, form.ExamBoard)
	if err != nil {
		return err
	}
	form.SetBoard(board)

	if languageSet {
		form.SetLanguage(f.language)
	}
	return nil
}

// choose picks the flag value when given, else the current value when it is
// still offered, else asks.
func (a *app) choose(title string, options []string, flag, current string) (string, error) {
	if flag != "" {
		for _, o := range options {
			if strings.EqualFold(o, flag) {
				return o, nil
			}
		}
		return "", ValidationError("--"+flagName(title), flag, strings.Join(options, ", "))
	}
	for _, o := range options {
		if o == current {
			return current, nil
		}
	}
	return a.askSelect(title, options, "")
}

func flagName(title string) string {
	switch title {
	case "Education level":
		return "level"
	case "Exam board":
		return "board"
	default:
		return strings.ToLower(title)
	}
}

func newSettingsOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options [country [level]]",
		Short: "List countries, levels or exam boards",
		Long: `With no arguments, list the supported countries. With a country, list its
education levels. With a country and a level, list the exam boards.
No sign-in is needed.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)
			var values []string
			switch len(args) {
			case 0:
				values, err = a.education.Countries(ctx)
			case 1:
				values, err = a.education.Levels(ctx, args[0])
			default:
				values, err = a.education.Boards(ctx, args[0], args[1])
			}
			if err != nil {
				return err
			}
			if len(values) == 0 {
				return errors.New(errors.ErrCodeServerRejected, "no options available").
					WithSuggestion("Check the spelling against 'markup settings options'")
			}
			return a.out.Format(values)
		},
	}
}

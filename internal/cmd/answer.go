package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/access"
	"github.com/felixgeelhaar/markup/internal/examanswer"
)

func newAnswerCmd() *cobra.Command {
	var (
		req   examanswer.Request
		marks int
	)

	cmd := &cobra.Command{
		Use:   "answer [question]",
		Short: "Generate a model exam answer",
		Long: `Generate a model answer written the way examiners for your country,
level and exam board mark it. Requires a completed education setup.

Examiner insight is included on Study+ and Pro when --insight is set; on the
free plan the flag is ignored.

Examples:
  markup answer --subject History "Why did the First World War start?"
  markup answer --subject Biology --task-type short_response --marks 6 "Describe osmosis"
  markup answer --subject English --insight --format json < question.txt`,
		Args: cobra.ArbitraryArgs,
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
			if err := access.RequireEducationSetup(p); err != nil {
				return err
			}

			if !validTaskType(req.TaskType) {
				values := make([]string, len(examanswer.TaskTypes))
				for i, t := range examanswer.TaskTypes {
					values[i] = t.Value
				}
				return ValidationError("--task-type", req.TaskType, strings.Join(values, ", "))
			}
			if cmd.Flags().Changed("marks") {
				req.Marks = &marks
			}

			if req.Subject, err = a.askSelect("Subject", examanswer.Subjects, req.Subject); err != nil {
				return err
			}
			if req.Question, err = a.askText("Question", strings.Join(args, " ")); err != nil {
				return err
			}
			req.Question = strings.TrimSpace(req.Question)

			answer, err := a.answers.Generate(ctx, req)
			if err != nil {
				return err
			}
			return a.out.Format(answerView{ExamAnswer: *answer})
		},
	}

	cmd.Flags().StringVar(&req.Subject, "subject", "", "subject, e.g. History")
	cmd.Flags().StringVar(&req.TaskType, "task-type", examanswer.DefaultTaskType, "essay, short_response, evaluation, explanation or custom")
	cmd.Flags().IntVar(&marks, "marks", 0, "marks available, 1 to 100")
	cmd.Flags().BoolVar(&req.IncludeInsight, "insight", false, "include examiner insight (Study+ and Pro)")
	return cmd
}

func validTaskType(v string) bool {
	for _, t := range examanswer.TaskTypes {
		if t.Value == v {
			return true
		}
	}
	return false
}

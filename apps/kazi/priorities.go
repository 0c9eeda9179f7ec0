package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/kazi/core/priority"
)

func (cli *commandLine) prioritiesCmd() *cobra.Command {
	var (
		limit  int
		all    bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "priorities <student_key>",
		Short: "Rank outstanding assignments by how much they are worth right now",
		Long: `Ranks every actionable assignment (due date set, worth points, not yet adequately
submitted) across active courses. Points are weighted by assignment group when the
course uses weighted grading; upcoming work gets a 1.5x boost over overdue work since
full credit is still on the table. Courses matching "skipCourses" are ignored.`,
		Args: cli.studentArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := nowFunc()

			outFmt, err := priority.ParseFormat(format)
			if err != nil {
				return cli.usageError(cmd, err)
			}
			if all {
				limit = 0
			} else if limit < 1 {
				return cli.usageError(cmd, errors.New("--limit must be at least 1"))
			}

			stu, repo, err := cli.setup(args[0])
			if err != nil {
				return err
			}
			svc, err := priority.NewService(repo, cli.conf.SkipCourses,
				priority.WithConcurrency(cli.conf.Concurrency),
				priority.WithLogger(cli.logger),
			)
			if err != nil {
				return err
			}
			items, err := svc.Compute(cmd.Context(), now)
			if err != nil {
				return err
			}
			return priority.NewRenderer(cli.styled).Render(cli.out, priority.NewReport(stu.DisplayName(), items, limit), outFmt)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", priority.DefaultLimit, "number of assignments to show")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "show every actionable assignment (ignores --limit)")
	cmd.Flags().StringVarP(&format, "format", "f", string(priority.FormatText), "output format: text, json or yaml")
	return cmd
}

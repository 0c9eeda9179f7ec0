package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/kazi/core/coursework"
	"github.com/trezcool/kazi/core/priority"
)

func (cli *commandLine) studentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "students",
		Short: "List the configured student keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.loadConf(); err != nil {
				return err
			}
			for _, key := range cli.students.Keys() {
				_, _ = fmt.Fprintln(cli.out, key)
			}
			return nil
		},
	}
}

func (cli *commandLine) coursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courses <student_key>",
		Short: "List active courses",
		Args:  cli.studentArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			stu, repo, err := cli.setup(args[0])
			if err != nil {
				return err
			}
			courses, err := coursework.NewService(repo, stu.UserID).ActiveCourses(cmd.Context())
			if err != nil {
				return err
			}

			c := cli.palette()
			b := new(strings.Builder)
			if len(courses) == 0 {
				_, _ = fmt.Fprintln(cli.out, "No active courses.")
				return nil
			}
			fmt.Fprintf(b, "%s%s\n\n", cli.icon("📚"), c.Bold("Courses for "+stu.DisplayName()))
			for _, course := range courses {
				fmt.Fprintf(b, "  %s %s\n", course.Name, c.Dim("("+course.CourseCode+")"))
			}
			_, err = io.WriteString(cli.out, b.String())
			return err
		},
	}
}

func (cli *commandLine) assignmentsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "assignments <student_key>",
		Short: "List unsubmitted assignments due soon",
		Args:  cli.studentArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := nowFunc()
			if days < 1 {
				return cli.usageError(cmd, errors.New("--days must be at least 1"))
			}
			stu, repo, err := cli.setup(args[0])
			if err != nil {
				return err
			}
			window := time.Duration(days) * 24 * time.Hour
			upcoming, err := coursework.NewService(repo, stu.UserID).Upcoming(cmd.Context(), now, window)
			if err != nil {
				return err
			}

			if len(upcoming) == 0 {
				_, _ = fmt.Fprintf(cli.out, "%sNothing due in the next %d days.\n", cli.icon("🎉"), days)
				return nil
			}
			c := cli.palette()
			b := new(strings.Builder)
			fmt.Fprintf(b, "%s%s\n\n", cli.icon("📅"), c.Bold(fmt.Sprintf("Due in the next %d days for %s", days, stu.DisplayName())))
			for _, ca := range upcoming {
				fmt.Fprintf(b, "  %s  %s\n", c.Green(ca.Assignment.DueAt.Time.Local().Format(priority.DueLayout)), describe(c, ca))
			}
			_, err = io.WriteString(cli.out, b.String())
			return err
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", int(coursework.DefaultUpcomingWindow/(24*time.Hour)), "look-ahead window in days")
	return cmd
}

func (cli *commandLine) overdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue <student_key>",
		Short: "List past-due assignments that are missing or unsubmitted",
		Args:  cli.studentArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := nowFunc()
			stu, repo, err := cli.setup(args[0])
			if err != nil {
				return err
			}
			overdue, err := coursework.NewService(repo, stu.UserID).Overdue(cmd.Context(), now)
			if err != nil {
				return err
			}

			if len(overdue) == 0 {
				_, _ = fmt.Fprintf(cli.out, "%sNo overdue assignments.\n", cli.icon("🎉"))
				return nil
			}
			c := cli.palette()
			b := new(strings.Builder)
			fmt.Fprintf(b, "%s%s\n\n", cli.icon("⚠️ "), c.Bold("Overdue for "+stu.DisplayName()))
			for _, ca := range overdue {
				line := describe(c, ca)
				if ca.Assignment.IsMissing() {
					line += " " + c.Red("[missing]")
				}
				fmt.Fprintf(b, "  %s  %s\n", c.Red("was due "+ca.Assignment.DueAt.Time.Local().Format(priority.DueLayout)), line)
			}
			_, err = io.WriteString(cli.out, b.String())
			return err
		},
	}
}

func (cli *commandLine) gradesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grades <student_key>",
		Short: "Show the current grade of every active course",
		Args:  cli.studentArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			stu, repo, err := cli.setup(args[0])
			if err != nil {
				return err
			}
			grades, err := coursework.NewService(repo, stu.UserID).Grades(cmd.Context())
			if err != nil {
				return err
			}

			if len(grades) == 0 {
				_, _ = fmt.Fprintln(cli.out, "No active courses.")
				return nil
			}
			width := 0
			for _, g := range grades {
				if len(g.Course.Name) > width {
					width = len(g.Course.Name)
				}
			}
			c := cli.palette()
			b := new(strings.Builder)
			fmt.Fprintf(b, "%s%s\n\n", cli.icon("🎓"), c.Bold("Grades for "+stu.DisplayName()))
			for _, g := range grades {
				grade := c.Dim("n/a")
				if g.Score.Valid {
					grade = strconv.FormatFloat(g.Score.Float64, 'f', -1, 64) + "%"
					if g.Grade.Valid && g.Grade.String != "" {
						grade += " (" + g.Grade.String + ")"
					}
				}
				fmt.Fprintf(b, "  %-*s  %s\n", width, g.Course.Name, grade)
			}
			_, err = io.WriteString(cli.out, b.String())
			return err
		},
	}
}

func describe(c *color.Color, ca coursework.CourseAssignment) string {
	return fmt.Sprintf("%s · %s (%s pts)",
		c.Cyan(ca.Course.Name),
		ca.Assignment.Name,
		strconv.FormatFloat(ca.Assignment.PointsPossible, 'f', -1, 64),
	)
}

func (cli *commandLine) palette() *color.Color {
	c := color.New()
	if cli.styled {
		c.Enable()
	} else {
		c.Disable()
	}
	return c
}

func (cli *commandLine) icon(emoji string) string {
	if !cli.styled {
		return ""
	}
	return emoji + " "
}

package coursework

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

const (
	// IncludeTotalScores embeds the computed grade on each course enrollment.
	IncludeTotalScores = "total_scores"

	DefaultUpcomingWindow = 7 * 24 * time.Hour
)

// Repository is the read-only LMS surface. Implemented by storage/canvas.
type Repository interface {
	// ListCourses lists the courses the token is actively enrolled in.
	ListCourses(ctx context.Context, include ...string) ([]Course, error)
	ListAssignmentGroups(ctx context.Context, courseID int64) ([]AssignmentGroup, error)
	// ListAssignments embeds the submission of the token's user on each assignment.
	ListAssignments(ctx context.Context, courseID int64) ([]Assignment, error)
}

type CourseAssignment struct {
	Course     Course
	Assignment Assignment
}

type CourseGrade struct {
	Course Course
	Score  null.Float64
	Grade  null.String
}

// Service backs the plain reports (courses, assignments, overdue, grades).
// Unlike the priority report it never applies skip patterns.
type Service struct {
	repo   Repository
	userID string
}

func NewService(repo Repository, userID string) *Service {
	return &Service{repo: repo, userID: userID}
}

func (svc *Service) ActiveCourses(ctx context.Context, include ...string) ([]Course, error) {
	courses, err := svc.repo.ListCourses(ctx, include...)
	if err != nil {
		return nil, errors.Wrap(err, "listing courses")
	}
	active := make([]Course, 0, len(courses))
	for _, c := range courses {
		if c.IsActive() {
			active = append(active, c)
		}
	}
	return active, nil
}

// Upcoming lists unsubmitted assignments due within [now, now+window], soonest first.
func (svc *Service) Upcoming(ctx context.Context, now time.Time, window time.Duration) ([]CourseAssignment, error) {
	if window <= 0 {
		window = DefaultUpcomingWindow
	}
	until := now.Add(window)
	return svc.collect(ctx, func(a Assignment) bool {
		return a.DueAt.Valid && !a.DueAt.Time.Before(now) && !a.DueAt.Time.After(until) && !a.IsSubmitted()
	})
}

// Overdue lists past-due assignments that are flagged missing or were never submitted nor graded.
func (svc *Service) Overdue(ctx context.Context, now time.Time) ([]CourseAssignment, error) {
	return svc.collect(ctx, func(a Assignment) bool {
		return a.IsDueBefore(now) && (a.IsMissing() || (!a.IsSubmitted() && !a.isGraded()))
	})
}

func (svc *Service) collect(ctx context.Context, keep func(Assignment) bool) ([]CourseAssignment, error) {
	courses, err := svc.ActiveCourses(ctx)
	if err != nil {
		return nil, err
	}
	var found []CourseAssignment
	for _, c := range courses {
		assignments, err := svc.repo.ListAssignments(ctx, c.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "listing assignments of %q", c.Name)
		}
		for _, a := range assignments {
			if keep(a) {
				found = append(found, CourseAssignment{Course: c, Assignment: a})
			}
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Assignment.DueAt.Time.Before(found[j].Assignment.DueAt.Time)
	})
	return found, nil
}

// Grades returns the current grade of every active course; ungraded courses have null values.
func (svc *Service) Grades(ctx context.Context) ([]CourseGrade, error) {
	courses, err := svc.ActiveCourses(ctx, IncludeTotalScores)
	if err != nil {
		return nil, err
	}
	grades := make([]CourseGrade, 0, len(courses))
	for _, c := range courses {
		cg := CourseGrade{Course: c}
		if enr, ok := c.Enrollment(svc.userID); ok {
			cg.Score = enr.ComputedCurrentScore
			cg.Grade = enr.ComputedCurrentGrade
		}
		grades = append(grades, cg)
	}
	return grades, nil
}

package priority

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/coursework"
)

// Service computes the priority list of one student.
type Service struct {
	repo        coursework.Repository
	skip        []string
	concurrency int
	log         core.Logger
}

type Option func(*Service)

// WithConcurrency bounds how many courses are fetched at once. 1 keeps requests strictly sequential.
func WithConcurrency(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.concurrency = n
		}
	}
}

func WithLogger(log core.Logger) Option {
	return func(svc *Service) { svc.log = log }
}

func NewService(repo coursework.Repository, skipCourses []string, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("priority: nil repository")
	}
	svc := &Service{
		repo:        repo,
		skip:        core.CleanStrings(skipCourses, true /* lower */),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Compute returns the actionable items of every active, non-skipped course, in course order.
// Any course failure aborts the whole computation.
func (svc *Service) Compute(ctx context.Context, now time.Time) ([]Item, error) {
	courses, err := svc.repo.ListCourses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing courses")
	}

	selected := make([]coursework.Course, 0, len(courses))
	for _, c := range courses {
		if !c.IsActive() {
			continue
		}
		if coursework.ShouldSkip(c.Name, svc.skip) {
			svc.debug("skipping course", map[string]interface{}{"course": c.Name})
			continue
		}
		selected = append(selected, c)
	}

	// indexed by course so the result order never depends on scheduling
	perCourse := make([][]Item, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(svc.concurrency)
	for i, c := range selected {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items, err := svc.courseItems(gctx, c, now)
			if err != nil {
				return errors.Wrapf(err, "course %q", c.Name)
			}
			perCourse[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []Item
	for _, ci := range perCourse {
		items = append(items, ci...)
	}
	return items, nil
}

func (svc *Service) courseItems(ctx context.Context, course coursework.Course, now time.Time) ([]Item, error) {
	groups, err := svc.repo.ListAssignmentGroups(ctx, course.ID)
	if err != nil {
		return nil, errors.Wrap(err, "listing assignment groups")
	}
	weights := coursework.NewGroupWeights(groups)

	assignments, err := svc.repo.ListAssignments(ctx, course.ID)
	if err != nil {
		return nil, errors.Wrap(err, "listing assignments")
	}

	var items []Item
	for _, a := range assignments {
		if !a.IsScorable() || !a.IsActionable() {
			continue
		}
		weight := weights.Weight(a.AssignmentGroupID)
		status := statusAt(a.DueAt.Time, now)
		items = append(items, Item{
			Course:      course.Name,
			Assignment:  a.Name,
			Points:      a.PointsPossible,
			GroupWeight: weight,
			DueAt:       a.DueAt.Time,
			Status:      status,
			Score:       score(baseScore(a.PointsPossible, weight, course.ApplyAssignmentGroupWeights), status),
			Weighted:    course.ApplyAssignmentGroupWeights,
		})
	}
	svc.debug("course scored", map[string]interface{}{
		"course":      course.Name,
		"assignments": len(assignments),
		"actionable":  len(items),
	})
	return items, nil
}

func (svc *Service) debug(msg string, args ...interface{}) {
	if svc.log != nil {
		svc.log.Debug(msg, args...)
	}
}

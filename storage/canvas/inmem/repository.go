// Package inmemcanvas is an in-memory coursework.Repository for tests.
package inmemcanvas

import (
	"context"
	"fmt"
	"sync"

	"github.com/trezcool/kazi/core/coursework"
)

type (
	Repository struct {
		mutex       sync.RWMutex
		courses     []coursework.Course
		groups      map[int64][]coursework.AssignmentGroup
		assignments map[int64][]coursework.Assignment
		failures    map[int64]error
		calls       []string
	}
)

var _ coursework.Repository = (*Repository)(nil)

func New() *Repository {
	return &Repository{
		groups:      make(map[int64][]coursework.AssignmentGroup),
		assignments: make(map[int64][]coursework.Assignment),
		failures:    make(map[int64]error),
	}
}

// AddCourse registers a course with its groups and assignments. Courses are listed in insertion order.
func (repo *Repository) AddCourse(c coursework.Course, groups []coursework.AssignmentGroup, assignments ...coursework.Assignment) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.courses = append(repo.courses, c)
	repo.groups[c.ID] = groups
	repo.assignments[c.ID] = assignments
}

// FailCourse makes every per-course call for courseID return err.
func (repo *Repository) FailCourse(courseID int64, err error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.failures[courseID] = err
}

// Calls returns the recorded calls, e.g. "assignments:42".
func (repo *Repository) Calls() []string {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return append([]string(nil), repo.calls...)
}

func (repo *Repository) record(call string) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.calls = append(repo.calls, call)
}

func (repo *Repository) ListCourses(_ context.Context, include ...string) ([]coursework.Course, error) {
	repo.record("courses")

	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	withScores := false
	for _, inc := range include {
		if inc == coursework.IncludeTotalScores {
			withScores = true
		}
	}
	courses := make([]coursework.Course, 0, len(repo.courses))
	for _, c := range repo.courses {
		if !withScores {
			c.Enrollments = nil
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func (repo *Repository) ListAssignmentGroups(_ context.Context, courseID int64) ([]coursework.AssignmentGroup, error) {
	repo.record(fmt.Sprintf("groups:%d", courseID))

	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	if err := repo.failures[courseID]; err != nil {
		return nil, err
	}
	return append([]coursework.AssignmentGroup(nil), repo.groups[courseID]...), nil
}

func (repo *Repository) ListAssignments(_ context.Context, courseID int64) ([]coursework.Assignment, error) {
	repo.record(fmt.Sprintf("assignments:%d", courseID))

	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	if err := repo.failures[courseID]; err != nil {
		return nil, err
	}
	return append([]coursework.Assignment(nil), repo.assignments[courseID]...), nil
}

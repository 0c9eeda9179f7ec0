package canvas

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/trezcool/kazi/core/coursework"
)

type repository struct {
	client *Client
}

func NewRepository(client *Client) coursework.Repository {
	return &repository{client: client}
}

func (repo *repository) ListCourses(ctx context.Context, include ...string) ([]coursework.Course, error) {
	var b strings.Builder
	b.WriteString("/courses?enrollment_state=active")
	for _, inc := range include {
		b.WriteString("&include[]=" + url.QueryEscape(inc))
	}
	var courses []coursework.Course
	if err := repo.client.Get(ctx, b.String(), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (repo *repository) ListAssignmentGroups(ctx context.Context, courseID int64) ([]coursework.AssignmentGroup, error) {
	var groups []coursework.AssignmentGroup
	if err := repo.client.Get(ctx, fmt.Sprintf("/courses/%d/assignment_groups", courseID), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (repo *repository) ListAssignments(ctx context.Context, courseID int64) ([]coursework.Assignment, error) {
	var assignments []coursework.Assignment
	if err := repo.client.Get(ctx, fmt.Sprintf("/courses/%d/assignments?include[]=submission", courseID), &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

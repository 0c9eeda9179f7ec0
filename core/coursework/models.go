package coursework

import (
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"
)

const (
	WorkflowAvailable = "available"
	SubmissionGraded  = "graded"

	EnrollmentStudent = "student"

	// DefaultGroupWeight applies to assignments whose group is not in the course's group list.
	DefaultGroupWeight = 0.0
)

type Course struct {
	ID                          int64        `json:"id"`
	Name                        string       `json:"name"`
	CourseCode                  string       `json:"course_code"`
	WorkflowState               string       `json:"workflow_state"`
	ApplyAssignmentGroupWeights bool         `json:"apply_assignment_group_weights"`
	Enrollments                 []Enrollment `json:"enrollments,omitempty"` // only with include[]=total_scores
}

func (c Course) IsActive() bool {
	return c.WorkflowState == WorkflowAvailable
}

// Enrollment returns the student enrollment for userID, or the first student enrollment
// when userID is empty or unmatched.
func (c Course) Enrollment(userID string) (Enrollment, bool) {
	var first *Enrollment
	for i := range c.Enrollments {
		enr := c.Enrollments[i]
		if enr.Type != EnrollmentStudent {
			continue
		}
		if userID != "" && strconv.FormatInt(enr.UserID, 10) == userID {
			return enr, true
		}
		if first == nil {
			first = &c.Enrollments[i]
		}
	}
	if first == nil {
		return Enrollment{}, false
	}
	return *first, true
}

type Enrollment struct {
	Type                 string       `json:"type"`
	UserID               int64        `json:"user_id"`
	ComputedCurrentScore null.Float64 `json:"computed_current_score"`
	ComputedCurrentGrade null.String  `json:"computed_current_grade"`
	ComputedFinalScore   null.Float64 `json:"computed_final_score"`
}

type AssignmentGroup struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	GroupWeight float64 `json:"group_weight"` // percentage of the course grade
}

// GroupWeights maps assignment group id to its weight.
type GroupWeights map[int64]float64

func NewGroupWeights(groups []AssignmentGroup) GroupWeights {
	gw := make(GroupWeights, len(groups))
	for _, g := range groups {
		gw[g.ID] = g.GroupWeight
	}
	return gw
}

// Weight returns DefaultGroupWeight for unknown groups.
func (gw GroupWeights) Weight(groupID int64) float64 {
	w, ok := gw[groupID]
	if !ok {
		return DefaultGroupWeight
	}
	return w
}

type Assignment struct {
	ID                int64       `json:"id"`
	Name              string      `json:"name"`
	DueAt             null.Time   `json:"due_at"`
	PointsPossible    float64     `json:"points_possible"`
	AssignmentGroupID int64       `json:"assignment_group_id"`
	SubmissionTypes   []string    `json:"submission_types"`
	HTMLURL           string      `json:"html_url"`
	Submission        *Submission `json:"submission,omitempty"`
}

type Submission struct {
	SubmittedAt   null.Time    `json:"submitted_at"`
	WorkflowState string       `json:"workflow_state"`
	Missing       bool         `json:"missing"`
	Late          bool         `json:"late"`
	Score         null.Float64 `json:"score"`
}

// IsScorable reports whether the assignment can enter the priority list at all.
func (a Assignment) IsScorable() bool {
	return a.DueAt.Valid && a.PointsPossible > 0
}

func (a Assignment) IsSubmitted() bool {
	return a.Submission != nil && a.Submission.SubmittedAt.Valid
}

func (a Assignment) IsMissing() bool {
	return a.Submission != nil && a.Submission.Missing
}

func (a Assignment) isGraded() bool {
	return a.Submission != nil && a.Submission.WorkflowState == SubmissionGraded
}

func (a Assignment) hasScore() bool {
	return a.Submission != nil && a.Submission.Score.Valid && a.Submission.Score.Float64 != 0
}

// IsActionable reports whether the assignment still needs work: not submitted and not graded,
// flagged missing, or not submitted with a null or zero score.
func (a Assignment) IsActionable() bool {
	submitted := a.IsSubmitted()
	return (!submitted && !a.isGraded()) ||
		a.IsMissing() ||
		(!submitted && !a.hasScore())
}

// IsDueBefore is false for undated assignments.
func (a Assignment) IsDueBefore(t time.Time) bool {
	return a.DueAt.Valid && a.DueAt.Time.Before(t)
}

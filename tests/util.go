package testutil

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kazi/core/coursework"
)

func Course(id int64, name string, weighted bool) coursework.Course {
	return coursework.Course{
		ID:                          id,
		Name:                        name,
		CourseCode:                  name,
		WorkflowState:               coursework.WorkflowAvailable,
		ApplyAssignmentGroupWeights: weighted,
	}
}

func Group(id int64, weight float64) coursework.AssignmentGroup {
	return coursework.AssignmentGroup{ID: id, Name: "group", GroupWeight: weight}
}

// Assignment builds a dated assignment; pass a zero dueAt for an undated one.
func Assignment(id int64, name string, points float64, groupID int64, dueAt time.Time, sub *coursework.Submission) coursework.Assignment {
	return coursework.Assignment{
		ID:                id,
		Name:              name,
		DueAt:             null.NewTime(dueAt, !dueAt.IsZero()),
		PointsPossible:    points,
		AssignmentGroupID: groupID,
		SubmissionTypes:   []string{"online_upload"},
		Submission:        sub,
	}
}

func Unsubmitted() *coursework.Submission {
	return &coursework.Submission{WorkflowState: "unsubmitted"}
}

func Missing() *coursework.Submission {
	return &coursework.Submission{WorkflowState: "unsubmitted", Missing: true}
}

func Graded(submittedAt time.Time, score float64) *coursework.Submission {
	return &coursework.Submission{
		SubmittedAt:   null.TimeFrom(submittedAt),
		WorkflowState: coursework.SubmissionGraded,
		Score:         null.Float64From(score),
	}
}

func StudentEnrollment(userID int64, score float64, grade string) coursework.Enrollment {
	return coursework.Enrollment{
		Type:                 coursework.EnrollmentStudent,
		UserID:               userID,
		ComputedCurrentScore: null.Float64From(score),
		ComputedCurrentGrade: null.StringFrom(grade),
		ComputedFinalScore:   null.Float64From(score),
	}
}
